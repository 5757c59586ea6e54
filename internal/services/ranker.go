package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
)

// Structural precondition failures. Data-quality problems never surface
// here; they degrade to sentinels inside the pipeline.
var (
	ErrModelUnavailable = errors.New("embedding model unavailable")
	ErrNoValidResumes   = errors.New("no valid resumes uploaded")
)

const noKeywordMatchesMessage = "No resumes found that match the specified keywords."

type UploadedFile struct {
	Name string
	Data []byte
}

type RankParams struct {
	JobDescription string
	Keywords       string
	TopN           int
	UseLLM         bool
	Files          []UploadedFile
}

// RankResult distinguishes "empty but not an error" (keyword filter matched
// nothing: empty Candidates plus a Message) from genuine failures, which are
// returned as errors.
type RankResult struct {
	Candidates []models.RankedCandidate
	Message    string
}

type RankerService interface {
	Rank(ctx context.Context, params RankParams) (*RankResult, error)
}

type rankerService struct {
	resumeRepo repositories.ResumeRepository
	extractor  TextExtractorService
	parser     SectionParser
	embedder   EmbeddingService
	matcher    MatcherService
	scorer     LLMScorerService // nil when no credential is configured
	poolIndex  PoolIndexService // nil when the search index is disabled
}

func NewRankerService(
	resumeRepo repositories.ResumeRepository,
	extractor TextExtractorService,
	parser SectionParser,
	embedder EmbeddingService,
	matcher MatcherService,
	scorer LLMScorerService,
	poolIndex PoolIndexService,
) RankerService {
	return &rankerService{
		resumeRepo: resumeRepo,
		extractor:  extractor,
		parser:     parser,
		embedder:   embedder,
		matcher:    matcher,
		scorer:     scorer,
		poolIndex:  poolIndex,
	}
}

type ingestedResume struct {
	doc      Document
	email    string
	sections ParsedSections
}

// Rank implements RankerService. One synchronous pass: ingest, persist,
// embed, filter, score, select, rate, finalize.
func (r *rankerService) Rank(ctx context.Context, params RankParams) (*RankResult, error) {
	if r.embedder == nil {
		return nil, ErrModelUnavailable
	}

	ingested := r.ingest(params.Files)
	if len(ingested) == 0 {
		return nil, ErrNoValidResumes
	}

	// Persist every ingested resume up front, score reset until a ranking
	// run completes. A failed row never blocks the rest of the batch.
	r.persist(ingested)

	docs := make([]Document, len(ingested))
	byFilename := make(map[string]ingestedResume, len(ingested))
	for i, res := range ingested {
		docs[i] = res.doc
		byFilename[res.doc.Filename] = res
	}

	// One embedding call: job description first, resumes after, order
	// preserved by contract. Every ingested resume is embedded, not just the
	// keyword survivors, so the pool index mirrors the relational store.
	texts := make([]string, 0, len(docs)+1)
	texts = append(texts, params.JobDescription)
	for _, doc := range docs {
		texts = append(texts, doc.Text)
	}

	vectors, err := r.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize texts: %w", err)
	}

	jobVector := vectors[0]
	resumeVectors := vectors[1:]

	r.indexPool(ctx, docs, resumeVectors)

	vectorByFilename := make(map[string][]float32, len(docs))
	for i, doc := range docs {
		vectorByFilename[doc.Filename] = resumeVectors[i]
	}

	filtered := r.matcher.FilterByKeywords(docs, params.Keywords)
	if len(filtered) == 0 {
		return &RankResult{
			Candidates: []models.RankedCandidate{},
			Message:    noKeywordMatchesMessage,
		}, nil
	}

	type scoredDoc struct {
		doc        Document
		similarity float64
	}

	scored := make([]scoredDoc, len(filtered))
	for i, doc := range filtered {
		scored[i] = scoredDoc{
			doc:        doc,
			similarity: CosineSimilarity(vectorByFilename[doc.Filename], jobVector),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	topN := params.TopN
	if topN <= 0 || topN > len(scored) {
		topN = len(scored)
	}
	scored = scored[:topN]

	candidates := make([]models.RankedCandidate, 0, len(scored))
	for _, sd := range scored {
		res := byFilename[sd.doc.Filename]

		// Key matches run against the original, uncleaned resume text.
		matches := r.matcher.KeyMatches(sd.doc.Text, params.JobDescription, 3)

		rating, justification := r.rate(ctx, sd.doc, params, sd.similarity, matches)

		if err := r.resumeRepo.UpdateFitScore(sd.doc.Filename, rating); err != nil {
			log.Printf("⚠️  Failed to persist fit score for %s: %v\n", sd.doc.Filename, err)
		}

		candidates = append(candidates, models.RankedCandidate{
			Filename:      sd.doc.Filename,
			Email:         res.email,
			Similarity:    sd.similarity,
			Rating:        rating,
			Justification: justification,
			KeyMatches:    matches,
			Skills:        res.sections.Skills,
			Experience:    res.sections.Experience,
			Education:     res.sections.Education,
		})
	}

	// Final order follows the rating, not the raw similarity: when the LLM
	// scored the candidates, its judgment wins.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rating > candidates[j].Rating
	})

	return &RankResult{Candidates: candidates}, nil
}

// ingest extracts text, email and sections for each usable file. Unsupported
// extensions and empty entries are skipped silently.
func (r *rankerService) ingest(files []UploadedFile) []ingestedResume {
	var ingested []ingestedResume

	for _, file := range files {
		if file.Name == "" || len(file.Data) == 0 {
			continue
		}

		doc, ok := r.extractor.Extract(file.Name, file.Data)
		if !ok {
			continue
		}

		ingested = append(ingested, ingestedResume{
			doc:      doc,
			email:    ExtractEmail(doc.Text),
			sections: r.parser.Parse(doc.Text),
		})
	}

	return ingested
}

func (r *rankerService) persist(ingested []ingestedResume) {
	for _, res := range ingested {
		record := &models.Resume{
			Filename:   res.doc.Filename,
			Email:      res.email,
			Skills:     res.sections.Skills,
			Experience: res.sections.Experience,
			Education:  res.sections.Education,
			FitScore:   nil,
			RawText:    res.doc.Text,
			FileBytes:  res.doc.RawBytes,
			UploadDate: time.Now(),
		}

		if err := r.resumeRepo.Upsert(record); err != nil {
			log.Printf("⚠️  Failed to persist resume %s: %v\n", res.doc.Filename, err)
		}
	}
}

// rate produces the final 1-10 rating and its justification: LLM when
// enabled, deterministic similarity mapping otherwise or as fallback.
func (r *rankerService) rate(ctx context.Context, doc Document, params RankParams, similarity float64, matches []string) (float64, string) {
	fallbackRating := similarityRating(similarity)
	fallbackJustification := fmt.Sprintf("Strong alignment on key terms like: %s.", strings.Join(matches, ", "))

	if !params.UseLLM || r.scorer == nil {
		return fallbackRating, fallbackJustification
	}

	score, err := r.scorer.ScoreResume(ctx, doc.Text, params.JobDescription)
	if err != nil {
		log.Printf("⚠️  LLM scoring failed for %s: %v\n", doc.Filename, err)
		return fallbackRating, fmt.Sprintf("LLM call failed. Falling back to semantic score => %s", fallbackJustification)
	}

	return score.FitScore, score.Justification
}

// similarityRating maps cosine similarity in [0,1] linearly onto the 1-10
// scale, rounded to one decimal.
func similarityRating(similarity float64) float64 {
	return 1 + math.Round(similarity*9*10)/10
}

func (r *rankerService) indexPool(ctx context.Context, docs []Document, vectors [][]float32) {
	if r.poolIndex == nil {
		return
	}

	for i, doc := range docs {
		email := ExtractEmail(doc.Text)
		if err := r.poolIndex.UpsertResume(ctx, doc.Filename, email, vectors[i]); err != nil {
			log.Printf("⚠️  Failed to index resume %s: %v\n", doc.Filename, err)
		}
	}
}
