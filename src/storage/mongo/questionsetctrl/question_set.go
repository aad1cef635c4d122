package questionsetctrl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"vidya/src/core/tutor"
)

const collectionName = "question_sets"

type questionDoc struct {
	Prompt      string   `bson:"prompt"`
	Choices     []string `bson:"choices"`
	Answer      int      `bson:"answer"`
	Explanation string   `bson:"explanation,omitempty"`
}

type questionSetDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Subject    string             `bson:"subject"`
	ClassLevel int                `bson:"class_level"`
	Chapter    int                `bson:"chapter"`
	Questions  []questionDoc      `bson:"questions"`
	CreatedAt  time.Time          `bson:"created_at"`
}

// QuestionSetService persists generated question sets. It satisfies
// tutor.QuestionSetStore.
type QuestionSetService struct {
	collection *mongo.Collection
}

func NewQuestionSetService(db *mongo.Database) *QuestionSetService {
	return &QuestionSetService{collection: db.Collection(collectionName)}
}

func (s *QuestionSetService) InsertQuestionSet(ctx context.Context, set *tutor.QuestionSet) (string, error) {
	doc := questionSetDoc{
		ID:         primitive.NewObjectID(),
		Subject:    set.Subject,
		ClassLevel: set.ClassLevel,
		Chapter:    set.Chapter,
		Questions:  make([]questionDoc, len(set.Questions)),
		CreatedAt:  set.CreatedAt,
	}
	for i, q := range set.Questions {
		doc.Questions[i] = questionDoc{
			Prompt:      q.Prompt,
			Choices:     q.Choices,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		}
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert question set: %w", err)
	}
	return doc.ID.Hex(), nil
}

func (s *QuestionSetService) GetQuestionSet(ctx context.Context, id string) (*tutor.QuestionSet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid question set id: %w", err)
	}

	var doc questionSetDoc
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question set: %w", err)
	}

	set := &tutor.QuestionSet{
		ID:         doc.ID.Hex(),
		Subject:    doc.Subject,
		ClassLevel: doc.ClassLevel,
		Chapter:    doc.Chapter,
		Questions:  make([]tutor.Question, len(doc.Questions)),
		CreatedAt:  doc.CreatedAt,
	}
	for i, q := range doc.Questions {
		set.Questions[i] = tutor.Question{
			Prompt:      q.Prompt,
			Choices:     q.Choices,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		}
	}
	return set, nil
}
