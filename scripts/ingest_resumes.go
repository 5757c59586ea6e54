package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

// Bulk-ingests a directory of resume files into the store (and the pool
// index when configured) without running a ranking pass.
func main() {
	dir := flag.String("dir", "./resumes", "directory of .txt/.pdf resumes to ingest")
	flag.Parse()

	log.Println("🚀 Starting resume ingestion...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	resumeRepo := repositories.NewResumeRepository(db)
	extractor := services.NewTextExtractorService()
	parser := services.NewSectionParser()

	var embedder services.EmbeddingService
	var poolIndex services.PoolIndexService

	if cfg.Gemini.APIKey != "" && cfg.Qdrant.URL != "" {
		geminiClient, err := services.NewGeminiClient(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini: %v", err)
		}
		embedder = services.NewEmbeddingService(geminiClient, cfg.Ranking.EmbedBatchSize)

		poolIndex, err = services.NewPoolIndexService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := poolIndex.InitCollection(); err != nil {
			log.Fatalf("❌ Failed to initialize collection: %v", err)
		}
	} else {
		log.Println("⚠️  Pool indexing disabled (needs GEMINI_API_KEY and QDRANT_URL)")
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("❌ Failed to read directory %s: %v", *dir, err)
	}

	ctx := context.Background()
	successCount := 0
	skipCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️  Failed to read %s: %v", path, err)
			skipCount++
			continue
		}

		doc, ok := extractor.Extract(entry.Name(), raw)
		if !ok {
			skipCount++
			continue
		}

		log.Printf("📄 Processing: %s (%d bytes)", doc.Filename, len(raw))

		sections := parser.Parse(doc.Text)
		email := services.ExtractEmail(doc.Text)

		record := &models.Resume{
			Filename:   doc.Filename,
			Email:      email,
			Skills:     sections.Skills,
			Experience: sections.Experience,
			Education:  sections.Education,
			RawText:    doc.Text,
			FileBytes:  raw,
			UploadDate: time.Now(),
		}

		if err := resumeRepo.Upsert(record); err != nil {
			log.Printf("   ❌ Failed to save %s: %v", doc.Filename, err)
			skipCount++
			continue
		}

		if embedder != nil && poolIndex != nil {
			vectors, err := embedder.EmbedTexts(ctx, []string{doc.Text})
			if err != nil {
				log.Printf("   ⚠️  Failed to embed %s: %v", doc.Filename, err)
			} else if err := poolIndex.UpsertResume(ctx, doc.Filename, email, vectors[0]); err != nil {
				log.Printf("   ⚠️  Failed to index %s: %v", doc.Filename, err)
			}
		}

		successCount++
	}

	log.Printf("📊 Ingestion complete: %d saved, %d skipped", successCount, skipCount)

	if successCount == 0 {
		log.Println("⚠️  No resumes ingested. Check the directory path and file types.")
		os.Exit(1)
	}
}
