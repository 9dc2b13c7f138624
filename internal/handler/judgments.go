// Package handler contains the HTTP handlers for the judgment generator API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/logger"
	"github.com/Alex1795/elastic-ltr-judgement-list-blog/internal/service"
)

// JudgmentHandler serves judgment generation requests.
type JudgmentHandler struct {
	service *service.JudgmentService
	logger  logger.Logger
}

// NewJudgmentHandler creates a JudgmentHandler.
func NewJudgmentHandler(svc *service.JudgmentService, log logger.Logger) *JudgmentHandler {
	return &JudgmentHandler{
		service: svc,
		logger:  log,
	}
}

// Generate runs the full pipeline and returns the run id and summary
// statistics. The judgment list itself is written to the configured sinks,
// not returned inline.
func (h *JudgmentHandler) Generate(c *gin.Context) {
	run, err := h.service.Generate(c.Request.Context())
	if err != nil {
		h.logger.Error("Judgment generation failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "generation failed",
			"code":  "GENERATION_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, run)
}

// Stats returns the summary statistics of the most recent run.
func (h *JudgmentHandler) Stats(c *gin.Context) {
	run, ok := h.service.LastRun()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no run completed yet",
			"code":  "NO_RUN",
		})
		return
	}

	c.JSON(http.StatusOK, run)
}
