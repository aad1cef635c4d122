package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vidya/src/core/tutor"
)

type generateQuestionSetRequest struct {
	Subject    string `json:"subject" binding:"required"`
	ClassLevel int    `json:"classLevel" binding:"required,min=1"`
	Chapter    int    `json:"chapter" binding:"required,min=1"`
	Count      int    `json:"count"`
}

// GenerateQuestionSet godoc
// @Summary Generate a multiple-choice question set from chapter material
// @Tags mcq
// @Accept json
// @Produce json
// @Param body body generateQuestionSetRequest true "Question set parameters"
// @Success 200 {object} tutor.QuestionSet
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /mcq/generate [post]
func (h *Handler) GenerateQuestionSet(c *gin.Context) {
	var req generateQuestionSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	set, err := h.mcqService.Generate(c.Request.Context(), req.Subject, req.ClassLevel, req.Chapter, req.Count)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, hideAnswers(set))
}

// GetQuestionSet godoc
// @Summary Fetch a stored question set
// @Tags mcq
// @Produce json
// @Param id path string true "Question set ID"
// @Success 200 {object} tutor.QuestionSet
// @Failure 404 {object} ErrorResponse
// @Router /mcq/{id} [get]
func (h *Handler) GetQuestionSet(c *gin.Context) {
	set, err := h.mcqService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if set == nil {
		sendError(c, http.StatusNotFound, fmt.Errorf("%w: question set", tutor.ErrNotFound))
		return
	}

	sendJSON(c, http.StatusOK, hideAnswers(set))
}

type evaluateRequest struct {
	Selections map[int]int `json:"selections" binding:"required"`
}

// Evaluate godoc
// @Summary Score selected answers against a question set
// @Tags mcq
// @Accept json
// @Produce json
// @Param id path string true "Question set ID"
// @Param body body evaluateRequest true "Selected answers by question index"
// @Success 200 {object} tutor.Evaluation
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /mcq/{id}/evaluate [post]
func (h *Handler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	userID := ""
	if user := currentUser(c); user != nil {
		userID = user.ID.Hex()
	}

	evaluation, err := h.evalService.Evaluate(c.Request.Context(), c.Param("id"), userID, req.Selections)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, evaluation)
}

// ListEvaluations returns the authenticated user's past scores.
func (h *Handler) ListEvaluations(c *gin.Context) {
	userID := ""
	if user := currentUser(c); user != nil {
		userID = user.ID.Hex()
	}

	history, err := h.evalService.History(c.Request.Context(), userID)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, history)
}

// hideAnswers strips the correct answer indices and explanations before a
// set is handed to a student.
func hideAnswers(set *tutor.QuestionSet) *tutor.QuestionSet {
	masked := *set
	masked.Questions = make([]tutor.Question, len(set.Questions))
	for i, q := range set.Questions {
		masked.Questions[i] = tutor.Question{
			Prompt:  q.Prompt,
			Choices: q.Choices,
			Answer:  -1,
		}
	}
	return &masked
}
