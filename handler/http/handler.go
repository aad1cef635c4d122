package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidya/src/core/account"
	"vidya/src/core/tutor"
	"vidya/src/storage/mongo/notectrl"
	"vidya/src/storage/mongo/userctrl"
)

const userContextKey = "user"

type Handler struct {
	askService  tutor.AskService
	mcqService  tutor.QuestionService
	evalService tutor.EvaluationService
	noteService *notectrl.NoteService
	accounts    *account.Service
}

func NewHandler(askService tutor.AskService, mcqService tutor.QuestionService, evalService tutor.EvaluationService, noteService *notectrl.NoteService, accounts *account.Service) *Handler {
	return &Handler{
		askService:  askService,
		mcqService:  mcqService,
		evalService: evalService,
		noteService: noteService,
		accounts:    accounts,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.GET("/health", h.CheckHealth)

	// Auth routes
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	protected := api.Group("", h.AuthRequired)

	// Chat routes
	protected.POST("/chat/ask", h.Ask)

	// Question set routes
	protected.POST("/mcq/generate", h.GenerateQuestionSet)
	protected.GET("/mcq/:id", h.GetQuestionSet)
	protected.POST("/mcq/:id/evaluate", h.Evaluate)
	protected.GET("/evaluations", h.ListEvaluations)

	// Note routes
	protected.GET("/notes", h.ListNotes)
	protected.POST("/notes", h.CreateNote)
	protected.GET("/notes/:id", h.GetNote)
	protected.PUT("/notes/:id", h.UpdateNote)
	protected.DELETE("/notes/:id", h.DeleteNote)

	protected.POST("/auth/logout", h.Logout)

	// Admin routes
	admin := protected.Group("/admin", h.AdminRequired)
	admin.GET("/stats", h.GetStats)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	var code string
	switch {
	case errors.Is(err, tutor.ErrNotFound):
		code = "NOT_FOUND"
		status = http.StatusNotFound
	case errors.Is(err, tutor.ErrUnknownSubject),
		errors.Is(err, tutor.ErrClassOutOfRange),
		errors.Is(err, tutor.ErrEmptyQuestion):
		code = "BAD_REQUEST"
		status = http.StatusBadRequest
	case errors.Is(err, account.ErrEmailTaken):
		code = "EMAIL_TAKEN"
		status = http.StatusConflict
	case errors.Is(err, account.ErrInvalidCredentials),
		errors.Is(err, account.ErrSessionExpired):
		code = "UNAUTHORIZED"
		status = http.StatusUnauthorized
	case status == http.StatusBadRequest:
		code = "BAD_REQUEST"
	default:
		code = "INTERNAL_ERROR"
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// AuthRequired resolves the bearer token to a user and aborts with 401 when
// it cannot.
func (h *Handler) AuthRequired(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	user, err := h.accounts.Authenticate(c.Request.Context(), token)
	if err != nil {
		sendError(c, http.StatusUnauthorized, err)
		c.Abort()
		return
	}

	c.Set(userContextKey, user)
	c.Next()
}

// AdminRequired aborts with 403 unless the authenticated user is an admin.
func (h *Handler) AdminRequired(c *gin.Context) {
	user := currentUser(c)
	if user == nil || user.Role != account.RoleAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "admin access required",
		})
		c.Abort()
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) *userctrl.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := value.(*userctrl.User)
	return user
}

// CheckHealth reports liveness.
func (h *Handler) CheckHealth(c *gin.Context) {
	sendJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
