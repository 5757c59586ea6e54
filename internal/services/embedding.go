package services

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/genai"
)

// Max characters sent to the embedding model per text (roughly 10k tokens).
const maxEmbedChars = 40000

// NewGeminiClient builds the process-scoped Gemini client shared by the
// embedding engine and the LLM scorer. Construction failure makes the whole
// ranking capability unavailable; there is no per-request retry.
func NewGeminiClient(apiKey string) (*genai.Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return client, nil
}

type EmbeddingService interface {
	// EmbedTexts returns one fixed-dimension vector per input text,
	// preserving input order. Texts are normalized with CleanText before
	// vectorization so embedding and lexical matching see the same
	// representation. Batching is throughput-only and never changes order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

type geminiEmbeddingService struct {
	client     *genai.Client
	embedModel string
	batchSize  int
}

func NewEmbeddingService(client *genai.Client, batchSize int) EmbeddingService {
	if batchSize <= 0 {
		batchSize = 100
	}

	return &geminiEmbeddingService{
		client:     client,
		embedModel: "text-embedding-004",
		batchSize:  batchSize,
	}
}

// EmbedTexts implements EmbeddingService.
func (g *geminiEmbeddingService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	cleaned := make([]string, len(texts))
	for i, text := range texts {
		text = CleanText(text)
		if len(text) > maxEmbedChars {
			text = text[:maxEmbedChars]
		}
		cleaned[i] = text
	}

	vectors := make([][]float32, 0, len(cleaned))

	for _, batch := range batchRanges(len(cleaned), g.batchSize) {
		var contents []*genai.Content
		for _, text := range cleaned[batch[0]:batch[1]] {
			contents = append(contents, genai.Text(text)...)
		}

		result, err := g.client.Models.EmbedContent(ctx, g.embedModel, contents, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}

		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		if got != batch[1]-batch[0] {
			return nil, fmt.Errorf("embedding result size mismatch: got %d, want %d",
				got, batch[1]-batch[0])
		}

		for _, embedding := range result.Embeddings {
			vectors = append(vectors, embedding.Values)
		}
	}

	return vectors, nil
}

// batchRanges partitions n items into [start,end) index pairs of at most
// size items each, in order.
func batchRanges(n, size int) [][2]int {
	if n <= 0 {
		return nil
	}
	if size <= 0 {
		size = n
	}

	var ranges [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}

	return ranges
}

// CosineSimilarity returns the cosine similarity between two vectors,
// clamped to [0,1]. Zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}

	return similarity
}
