package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vidya/src/storage/mongo/userctrl"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session expired or unknown")
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"

	sessionTTL = 24 * time.Hour
)

// Service handles registration, login and session resolution.
type Service struct {
	users *userctrl.UserService
}

func NewService(users *userctrl.UserService) *Service {
	return &Service{users: users}
}

// Register creates a new student account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string, classLevel int) (*userctrl.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.Create(ctx, &userctrl.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         RoleStudent,
		ClassLevel:   classLevel,
	})
}

// Login verifies the password and issues an opaque session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *userctrl.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := uuid.New().String()
	session := &userctrl.Session{
		Token:     token,
		UserID:    user.ID.Hex(),
		ExpiresAt: time.Now().UTC().Add(sessionTTL),
	}
	if err := s.users.CreateSession(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	return token, user, nil
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*userctrl.User, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}

	session, err := s.users.GetSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil || time.Now().UTC().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionExpired
	}
	return user, nil
}

// Logout removes the session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.users.DeleteSession(ctx, token)
}
