package tutor

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnknownSubject  = errors.New("unknown subject")
	ErrClassOutOfRange = errors.New("class level outside the subject's available range")
	ErrEmptyQuestion   = errors.New("question must not be empty")
	ErrNotFound        = errors.New("not found")
)

// Mode controls how many prerequisite class levels are searched.
type Mode string

const (
	ModeQuick Mode = "quick"
	ModeDeep  Mode = "deep"
)

// ClassSpan is the range of class levels a subject has material for.
type ClassSpan struct {
	Min int
	Max int
}

// Catalog maps a subject to its available class span.
type Catalog map[string]ClassSpan

// AskRequest is a student question scoped to subject and class level.
type AskRequest struct {
	Question   string
	Subject    string
	ClassLevel int
	Chapter    int // 0 searches all chapters
	Mode       Mode
}

// TextChunk is an immutable passage retrieved from the textbook namespace.
type TextChunk struct {
	Text       string  `json:"text"`
	Subject    string  `json:"subject"`
	ClassLevel int     `json:"classLevel"`
	Chapter    int     `json:"chapter"`
	Page       int     `json:"page"`
	Score      float64 `json:"score"`
}

// WebPassage is a passage from the web-content index.
type WebPassage struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// CachedAnswer is a previously generated answer stored in the cache namespace.
// UsageCount is the only field mutated after creation.
type CachedAnswer struct {
	ID           string
	Question     string
	Answer       string
	Subject      string
	Topic        string
	QualityScore float64
	UsageCount   int
	Score        float64
}

// Answer is the pipeline's result.
type Answer struct {
	Text    string       `json:"text"`
	Cached  bool         `json:"cached"`
	Sources []TextChunk  `json:"sources,omitempty"`
	Web     []WebPassage `json:"web,omitempty"`
}

// Question is a single multiple-choice question.
type Question struct {
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices"`
	Answer      int      `json:"answer"` // index into Choices
	Explanation string   `json:"explanation,omitempty"`
}

// QuestionSet is a generated set of multiple-choice questions.
type QuestionSet struct {
	ID         string     `json:"id"`
	Subject    string     `json:"subject"`
	ClassLevel int        `json:"classLevel"`
	Chapter    int        `json:"chapter"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Evaluation is the score for a set of selected answers.
type Evaluation struct {
	ID         string    `json:"id,omitempty"`
	SetID      string    `json:"setId"`
	UserID     string    `json:"userId,omitempty"`
	Total      int       `json:"total"`
	Correct    int       `json:"correct"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AskService is the pipeline surface the HTTP layer depends on.
type AskService interface {
	Ask(ctx context.Context, req AskRequest) (*Answer, error)
	Stats() StatsSnapshot
}

// QuestionService generates and fetches question sets.
type QuestionService interface {
	Generate(ctx context.Context, subject string, classLevel, chapter, count int) (*QuestionSet, error)
	Get(ctx context.Context, id string) (*QuestionSet, error)
}

// EvaluationService scores selected answers against a question set.
type EvaluationService interface {
	Evaluate(ctx context.Context, setID, userID string, selections map[int]int) (*Evaluation, error)
	History(ctx context.Context, userID string) ([]Evaluation, error)
}

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces text from a prompt. The pipeline calls it at most once
// per request.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChunkSource queries the textbook namespace for one class level.
type ChunkSource interface {
	SearchChunks(ctx context.Context, vector []float32, subject string, classLevel, chapter, limit int, minScore float64) ([]TextChunk, error)
}

// AnswerCache queries and maintains the cache namespace of generated answers.
type AnswerCache interface {
	// Lookup returns the best match for the vector, or nil when the
	// namespace holds nothing relevant.
	Lookup(ctx context.Context, vector []float32, subject string) (*CachedAnswer, error)
	// Touch increments the usage count of a cached answer.
	Touch(ctx context.Context, id string, usageCount int) error
}

// WebSource queries the web-content index. It is an optional collaborator:
// failures degrade to an empty result.
type WebSource interface {
	SearchWeb(ctx context.Context, query, subject string, limit int) ([]WebPassage, error)
}

// AnswerRecorder schedules persistence of a freshly generated answer back
// into the cache namespace.
type AnswerRecorder interface {
	RecordAnswer(ctx context.Context, question, answer, subject, topic string) error
}

// QuestionSetStore persists generated question sets.
type QuestionSetStore interface {
	InsertQuestionSet(ctx context.Context, set *QuestionSet) (string, error)
	GetQuestionSet(ctx context.Context, id string) (*QuestionSet, error)
}

// EvaluationStore persists evaluation results.
type EvaluationStore interface {
	InsertEvaluation(ctx context.Context, ev *Evaluation) (string, error)
	ListByUser(ctx context.Context, userID string) ([]Evaluation, error)
}
