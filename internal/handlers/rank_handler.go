package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

type RankHandler struct {
	ranker        services.RankerService
	llmConfigured bool
	maxFileSize   int64
	defaultTopN   int
}

func NewRankHandler(
	ranker services.RankerService,
	llmConfigured bool,
	maxFileSize int64,
	defaultTopN int,
) *RankHandler {
	return &RankHandler{
		ranker:        ranker,
		llmConfigured: llmConfigured,
		maxFileSize:   maxFileSize,
		defaultTopN:   defaultTopN,
	}
}

// HandleRank handles POST /rank. Multipart form: job_description (required),
// keywords, top_n, use_llm, and one or more files under "resumes".
func (h *RankHandler) HandleRank(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	jobDescription := c.FormValue("job_description")
	if strings.TrimSpace(jobDescription) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	useLLM := c.FormValue("use_llm") == "true"
	if useLLM && !h.llmConfigured {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "LLM scoring requested but no GEMINI_API_KEY is configured",
		})
	}

	topN := h.defaultTopN
	if v, err := strconv.Atoi(c.FormValue("top_n")); err == nil && v > 0 {
		topN = v
	}

	var files []services.UploadedFile
	for _, fileHeader := range form.File["resumes"] {
		if fileHeader.Size == 0 {
			continue
		}
		if fileHeader.Size > h.maxFileSize {
			log.Printf("⚠️  Skipping %s: file too large (%d bytes)\n", fileHeader.Filename, fileHeader.Size)
			continue
		}

		src, err := fileHeader.Open()
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v\n", fileHeader.Filename, err)
			continue
		}

		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v\n", fileHeader.Filename, err)
			continue
		}

		files = append(files, services.UploadedFile{
			Name: fileHeader.Filename,
			Data: data,
		})
	}

	result, err := h.ranker.Rank(c.UserContext(), services.RankParams{
		JobDescription: jobDescription,
		Keywords:       c.FormValue("keywords"),
		TopN:           topN,
		UseLLM:         useLLM,
		Files:          files,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrModelUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Embedding model is not available. Ranking is disabled.",
			})
		case errors.Is(err, services.ErrNoValidResumes):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "No valid resumes uploaded. Accepted file types: .txt, .pdf",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("ranking failed: %v", err),
			})
		}
	}

	return c.JSON(models.RankResponse{
		Candidates: result.Candidates,
		Message:    result.Message,
	})
}
