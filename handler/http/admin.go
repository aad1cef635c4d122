package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStats returns the pipeline's in-memory diagnostic counters.
func (h *Handler) GetStats(c *gin.Context) {
	sendJSON(c, http.StatusOK, h.askService.Stats())
}
