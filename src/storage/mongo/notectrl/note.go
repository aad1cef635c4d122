package notectrl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "notes"

// Note is a student note document.
type Note struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"userId"`
	Subject    string             `bson:"subject" json:"subject"`
	ClassLevel int                `bson:"class_level" json:"classLevel"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

type NoteService struct {
	collection *mongo.Collection
}

func NewNoteService(db *mongo.Database) *NoteService {
	return &NoteService{collection: db.Collection(collectionName)}
}

func (s *NoteService) Create(ctx context.Context, note *Note) (*Note, error) {
	now := time.Now().UTC()
	note.ID = primitive.NewObjectID()
	note.CreatedAt = now
	note.UpdatedAt = now

	if _, err := s.collection.InsertOne(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

func (s *NoteService) GetByID(ctx context.Context, id string) (*Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid note id: %w", err)
	}

	var note Note
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

func (s *NoteService) ListByUser(ctx context.Context, userID string) ([]Note, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := make([]Note, 0)
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) Update(ctx context.Context, id, userID string, title, content string) (*Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid note id: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"title":      title,
		"content":    content,
		"updated_at": time.Now().UTC(),
	}}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid, "user_id": userID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, nil
	}

	return s.GetByID(ctx, id)
}

func (s *NoteService) Delete(ctx context.Context, id, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invalid note id: %w", err)
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("failed to delete note: %w", err)
	}
	return result.DeletedCount > 0, nil
}
