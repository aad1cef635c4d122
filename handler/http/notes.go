package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vidya/src/core/tutor"
	"vidya/src/storage/mongo/notectrl"
)

type noteRequest struct {
	Subject    string `json:"subject" binding:"required"`
	ClassLevel int    `json:"classLevel"`
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// ListNotes returns the authenticated user's notes.
func (h *Handler) ListNotes(c *gin.Context) {
	user := currentUser(c)

	notes, err := h.noteService.ListByUser(c.Request.Context(), user.ID.Hex())
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, notes)
}

// CreateNote stores a new note for the authenticated user.
func (h *Handler) CreateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}
	user := currentUser(c)

	note, err := h.noteService.Create(c.Request.Context(), &notectrl.Note{
		UserID:     user.ID.Hex(),
		Subject:    req.Subject,
		ClassLevel: req.ClassLevel,
		Title:      req.Title,
		Content:    req.Content,
	})
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusCreated, note)
}

// GetNote returns one of the authenticated user's notes by ID.
func (h *Handler) GetNote(c *gin.Context) {
	user := currentUser(c)

	note, err := h.noteService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if note == nil || note.UserID != user.ID.Hex() {
		sendError(c, http.StatusNotFound, fmt.Errorf("%w: note", tutor.ErrNotFound))
		return
	}

	sendJSON(c, http.StatusOK, note)
}

// UpdateNote replaces a note's title and content.
func (h *Handler) UpdateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}
	user := currentUser(c)

	note, err := h.noteService.Update(c.Request.Context(), c.Param("id"), user.ID.Hex(), req.Title, req.Content)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if note == nil {
		sendError(c, http.StatusNotFound, fmt.Errorf("%w: note", tutor.ErrNotFound))
		return
	}

	sendJSON(c, http.StatusOK, note)
}

// DeleteNote removes a note.
func (h *Handler) DeleteNote(c *gin.Context) {
	user := currentUser(c)

	deleted, err := h.noteService.Delete(c.Request.Context(), c.Param("id"), user.ID.Hex())
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if !deleted {
		sendError(c, http.StatusNotFound, fmt.Errorf("%w: note", tutor.ErrNotFound))
		return
	}

	c.Status(http.StatusNoContent)
}
