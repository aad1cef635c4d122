package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// SDK encapsulates all Weaviate operations
type SDK struct {
	client *weaviate.Client
}

// NewSDK creates a new instance of SDK
func NewSDK(client *weaviate.Client) *SDK {
	return &SDK{
		client: client,
	}
}

// EnsureSchema creates a class schema if it does not exist yet.
func (w *SDK) EnsureSchema(ctx context.Context, className string, properties []*models.Property) error {
	exists, err := w.classExists(ctx, className)
	if err != nil {
		return fmt.Errorf("failed to check if class exists: %v", err)
	}
	if exists {
		return nil
	}

	class := &models.Class{
		Class:      className,
		Properties: properties,
		Vectorizer: "none", // vectors are supplied by the embedding client
	}

	err = w.client.Schema().ClassCreator().WithClass(class).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create Weaviate class: %v", err)
	}

	return nil
}

// classExists checks if a class exists in the schema
func (w *SDK) classExists(ctx context.Context, className string) (bool, error) {
	schema, err := w.client.Schema().Getter().Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get schema: %v", err)
	}

	for _, class := range schema.Classes {
		if class.Class == className {
			return true, nil
		}
	}

	return false, nil
}

// DeleteSchema deletes a class schema from Weaviate
func (w *SDK) DeleteSchema(ctx context.Context, className string) error {
	err := w.client.Schema().ClassDeleter().WithClassName(className).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete Weaviate class: %v", err)
	}

	return nil
}

// VectorObject represents a single object with its vector and properties
type VectorObject struct {
	ID         string
	Vector     []float32
	Properties map[string]interface{}
}

// AddVector adds a single vector object to a class
func (w *SDK) AddVector(ctx context.Context, className string, object VectorObject) error {
	creator := w.client.Data().Creator().
		WithClassName(className).
		WithProperties(object.Properties).
		WithVector(object.Vector)
	if object.ID != "" {
		creator = creator.WithID(object.ID)
	}

	if _, err := creator.Do(ctx); err != nil {
		return fmt.Errorf("failed to add vector: %v", err)
	}

	return nil
}

// BatchAddVectors adds multiple vector objects to a class in a single operation
func (w *SDK) BatchAddVectors(ctx context.Context, className string, objects []VectorObject) error {
	objs := make([]*models.Object, len(objects))
	for i, obj := range objects {
		objs[i] = &models.Object{
			Class:      className,
			Properties: obj.Properties,
			Vector:     obj.Vector,
		}
	}

	batcher := w.client.Batch().ObjectsBatcher()
	resp, err := batcher.WithObjects(objs...).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to batch add vectors: %v", err)
	}
	if len(resp) == 0 {
		return fmt.Errorf("batch operation returned no results")
	}

	return nil
}

// MergeProperties merges the given properties into an existing object,
// leaving all other properties untouched.
func (w *SDK) MergeProperties(ctx context.Context, className, id string, properties map[string]interface{}) error {
	err := w.client.Data().Updater().
		WithMerge().
		WithClassName(className).
		WithID(id).
		WithProperties(properties).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to merge properties: %v", err)
	}

	return nil
}

// QueryConfig represents configuration for vector similarity search
type QueryConfig struct {
	Fields    []string              // Fields to return in the result
	Limit     int                   // Maximum number of results
	Certainty float64               // Optional similarity threshold in [0, 1]
	Where     *filters.WhereBuilder // Optional metadata filter
}

const DefaultQueryLimit = 20

// QueryResult represents a single result from vector similarity search
type QueryResult struct {
	ID         string
	Score      float64 // Certainty in [0, 1], higher is more similar
	Properties map[string]interface{}
}

// QueryVectors performs vector similarity search in a class
func (w *SDK) QueryVectors(ctx context.Context, className string, vector []float32, config QueryConfig) ([]QueryResult, error) {
	fields := make([]graphql.Field, len(config.Fields))
	for i, field := range config.Fields {
		fields[i] = graphql.Field{Name: field}
	}
	fields = append(fields, graphql.Field{Name: "_additional { id certainty }"})

	nearVectorBuilder := w.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)
	if config.Certainty > 0 {
		nearVectorBuilder.WithCertainty(float32(config.Certainty))
	}

	if config.Limit <= 0 {
		config.Limit = DefaultQueryLimit
	}

	query := w.client.GraphQL().Get().
		WithClassName(className).
		WithFields(fields...).
		WithNearVector(nearVectorBuilder).
		WithLimit(config.Limit)
	if config.Where != nil {
		query = query.WithWhere(config.Where)
	}

	result, err := query.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %v", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("failed to query vectors: %v", result.Errors[0].Message)
	}

	var queryResults []QueryResult
	if data, ok := result.Data["Get"].(map[string]interface{}); ok {
		if objects, ok := data[className].([]interface{}); ok {
			for _, obj := range objects {
				objMap, ok := obj.(map[string]interface{})
				if !ok {
					continue
				}
				additional, ok := objMap["_additional"].(map[string]interface{})
				if !ok {
					continue
				}

				properties := make(map[string]interface{})
				for k, v := range objMap {
					if k != "_additional" {
						properties[k] = v
					}
				}

				qr := QueryResult{Properties: properties}
				if id, ok := additional["id"].(string); ok {
					qr.ID = id
				}
				if certainty, ok := additional["certainty"].(float64); ok {
					qr.Score = certainty
				}
				queryResults = append(queryResults, qr)
			}
		}
	}

	return queryResults, nil
}

// DeleteVector deletes a vector object from a class by ID
func (w *SDK) DeleteVector(ctx context.Context, className string, id string) error {
	err := w.client.Data().Deleter().
		WithClassName(className).
		WithID(id).
		Do(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete vector: %v", err)
	}

	return nil
}
