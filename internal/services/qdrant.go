package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// PoolIndexService keeps one embedding per stored resume in a qdrant
// collection so previously uploaded resumes can be searched by free text.
// Points are keyed deterministically by filename, which gives the same
// replace-on-reupload semantics as the relational store.
type PoolIndexService interface {
	InitCollection() error
	UpsertResume(ctx context.Context, filename, email string, embedding []float32) error
	Search(ctx context.Context, queryEmbedding []float32, limit int) ([]PoolMatch, error)
	RemoveResume(ctx context.Context, filename string) error
}

type PoolMatch struct {
	Filename string
	Email    string
	Score    float32
}

type poolIndexService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewPoolIndexService(urlStr, apiKey, collectionName string) (PoolIndexService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &poolIndexService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements PoolIndexService.
func (q *poolIndexService) InitCollection() error {
	ctx := context.Background()

	// Check if collection exists
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	// Create collection
	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertResume implements PoolIndexService.
func (q *poolIndexService) UpsertResume(ctx context.Context, filename, email string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(pointID(filename)),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"filename": filename,
			"email":    email,
		}),
	}

	// Upsert point
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Search implements PoolIndexService.
func (q *poolIndexService) Search(ctx context.Context, queryEmbedding []float32, limit int) ([]PoolMatch, error) {
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	// Convert results
	var matches []PoolMatch
	for _, point := range searchResult {
		payload := point.Payload

		match := PoolMatch{
			Score: point.Score,
		}

		if filename, ok := payload["filename"]; ok {
			if val, ok := filename.GetKind().(*qdrant.Value_StringValue); ok {
				match.Filename = val.StringValue
			}
		}

		if email, ok := payload["email"]; ok {
			if val, ok := email.GetKind().(*qdrant.Value_StringValue); ok {
				match.Email = val.StringValue
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}

// RemoveResume implements PoolIndexService.
func (q *poolIndexService) RemoveResume(ctx context.Context, filename string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(pointID(filename))),
	})

	if err != nil {
		return fmt.Errorf("failed to remove resume from index: %w", err)
	}

	return nil
}

// pointID derives a stable point id from the filename so re-ingestion
// replaces the previous point.
func pointID(filename string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(filename)).String()
}
