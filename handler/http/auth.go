package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Password   string `json:"password" binding:"required,min=8"`
	ClassLevel int    `json:"classLevel"`
}

// Register creates a new student account.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Email, req.Name, req.Password, req.ClassLevel)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	token, user, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout invalidates the current session token.
func (h *Handler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := h.accounts.Logout(c.Request.Context(), token); err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	c.Status(http.StatusNoContent)
}
