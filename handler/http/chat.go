package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidya/src/core/tutor"
)

type askRequest struct {
	Question   string `json:"question" binding:"required"`
	Subject    string `json:"subject" binding:"required"`
	ClassLevel int    `json:"classLevel" binding:"required,min=1"`
	Chapter    int    `json:"chapter"`
	Mode       string `json:"mode"` // "quick" (default) or "deep"
}

// Ask godoc
// @Summary Answer a student question from retrieved material
// @Tags chat
// @Accept json
// @Produce json
// @Param body body askRequest true "Question parameters"
// @Success 200 {object} tutor.Answer
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat/ask [post]
func (h *Handler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	mode := tutor.ModeQuick
	if req.Mode == string(tutor.ModeDeep) {
		mode = tutor.ModeDeep
	}

	answer, err := h.askService.Ask(c.Request.Context(), tutor.AskRequest{
		Question:   req.Question,
		Subject:    req.Subject,
		ClassLevel: req.ClassLevel,
		Chapter:    req.Chapter,
		Mode:       mode,
	})
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, answer)
}
