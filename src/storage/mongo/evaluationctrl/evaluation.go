package evaluationctrl

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"vidya/src/core/tutor"
)

const collectionName = "evaluations"

// EvaluationService persists evaluation results. It satisfies
// tutor.EvaluationStore.
type EvaluationService struct {
	collection *mongo.Collection
}

func NewEvaluationService(db *mongo.Database) *EvaluationService {
	return &EvaluationService{collection: db.Collection(collectionName)}
}

func (s *EvaluationService) InsertEvaluation(ctx context.Context, ev *tutor.Evaluation) (string, error) {
	doc := bson.M{
		"_id":        primitive.NewObjectID(),
		"set_id":     ev.SetID,
		"user_id":    ev.UserID,
		"total":      ev.Total,
		"correct":    ev.Correct,
		"percentage": ev.Percentage,
		"created_at": ev.CreatedAt,
	}

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert evaluation: %w", err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ListByUser returns a user's past evaluations, newest first.
func (s *EvaluationService) ListByUser(ctx context.Context, userID string) ([]tutor.Evaluation, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer cursor.Close(ctx)

	evaluations := make([]tutor.Evaluation, 0)
	for cursor.Next(ctx) {
		var doc struct {
			ID         primitive.ObjectID `bson:"_id"`
			SetID      string             `bson:"set_id"`
			UserID     string             `bson:"user_id"`
			Total      int                `bson:"total"`
			Correct    int                `bson:"correct"`
			Percentage float64            `bson:"percentage"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode evaluation: %w", err)
		}
		evaluations = append(evaluations, tutor.Evaluation{
			ID:         doc.ID.Hex(),
			SetID:      doc.SetID,
			UserID:     doc.UserID,
			Total:      doc.Total,
			Correct:    doc.Correct,
			Percentage: doc.Percentage,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evaluations: %w", err)
	}
	return evaluations, nil
}
