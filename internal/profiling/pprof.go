// Package profiling provides optional pprof and Pyroscope profiling,
// controlled entirely through environment variables so production builds
// carry no profiling cost unless asked to.
package profiling

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
)

// StartPprofServer starts a pprof server on a separate localhost-only port.
// Only enabled when ENABLE_PROFILING=true.
func StartPprofServer() {
	if os.Getenv("ENABLE_PROFILING") != "true" {
		return
	}

	pprofPort := os.Getenv("PPROF_PORT")
	if pprofPort == "" {
		pprofPort = "6060"
	}

	// Bind to localhost only so profiles are never exposed externally.
	addr := "localhost:" + pprofPort

	go func() {
		log.Printf("Starting pprof server on %s", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Printf("pprof server error: %v", err)
		}
	}()
}
