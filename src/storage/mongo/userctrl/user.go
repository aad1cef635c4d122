package userctrl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	usersCollection    = "users"
	sessionsCollection = "sessions"
)

// User is a registered account document.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	PasswordHash []byte             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	ClassLevel   int                `bson:"class_level" json:"classLevel"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// Session is an opaque login token with an expiry.
type Session struct {
	Token     string    `bson:"token"`
	UserID    string    `bson:"user_id"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type UserService struct {
	users    *mongo.Collection
	sessions *mongo.Collection
}

func NewUserService(db *mongo.Database) *UserService {
	return &UserService{
		users:    db.Collection(usersCollection),
		sessions: db.Collection(sessionsCollection),
	}
}

func (s *UserService) Create(ctx context.Context, user *User) (*User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	var user User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *UserService) CreateSession(ctx context.Context, session *Session) error {
	if _, err := s.sessions.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *UserService) GetSession(ctx context.Context, token string) (*Session, error) {
	var session Session
	err := s.sessions.FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (s *UserService) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.sessions.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
