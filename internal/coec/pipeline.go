package coec

import "github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/domain"

// Options configures one pipeline run.
type Options struct {
	// ZeroExpectation decides how zero-expectation pairs are graded.
	ZeroExpectation ZeroExpectationPolicy
	// MaxPosition caps the positions considered for impressions, exposures
	// and clicks. Zero means no cap.
	MaxPosition int
}

// Result is the output of one pipeline run: the judgment list plus the
// counters the statistics reporter and the caller inspect. Anomalies never
// abort a run; the worst case is an empty or partially populated list with
// non-zero skip counters.
type Result struct {
	Judgments []domain.Judgment
	CTR       CTRTable

	CleanQueries int
	CleanEvents  int

	SkippedResults       int
	SkippedEvents        int
	CTRFallbacks         int
	ZeroExpectationPairs int
}

// Run executes the full COEC pipeline over an already-materialized corpus:
//
//	clean → position CTR + exposures → expectations + tallies → grades
//
// Each stage reads only immutable input and returns a fresh table, so the
// run is deterministic and safe to repeat. An empty corpus is valid and
// produces an empty judgment list with zero counters.
func Run(queries []domain.QueryRecord, events []domain.ClickEvent, opts Options) *Result {
	cleanQueries, skippedResults := CleanQueries(queries, opts.MaxPosition)
	cleanEvents, skippedEvents := CleanEvents(events, opts.MaxPosition)

	table := BuildCTRTable(cleanQueries, cleanEvents)
	exposures := BuildExposures(cleanQueries)

	expected, fallbacks := Expectations(exposures, table)
	actual := Tally(cleanEvents, exposures)

	judgments, zeroExpectation := Score(exposures, expected, actual, opts.ZeroExpectation)

	return &Result{
		Judgments:            judgments,
		CTR:                  table,
		CleanQueries:         len(cleanQueries),
		CleanEvents:          len(cleanEvents),
		SkippedResults:       skippedResults,
		SkippedEvents:        skippedEvents,
		CTRFallbacks:         fallbacks,
		ZeroExpectationPairs: zeroExpectation,
	}
}
