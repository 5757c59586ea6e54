package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

type SearchHandler struct {
	embedder  services.EmbeddingService
	poolIndex services.PoolIndexService
}

func NewSearchHandler(
	embedder services.EmbeddingService,
	poolIndex services.PoolIndexService,
) *SearchHandler {
	return &SearchHandler{
		embedder:  embedder,
		poolIndex: poolIndex,
	}
}

// HandleSearch handles GET /search?q=&limit= over the stored resume pool.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	if h.poolIndex == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Search index is not configured",
		})
	}

	if h.embedder == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Embedding model is not available",
		})
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	limit := 5
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	vectors, err := h.embedder.EmbedTexts(c.UserContext(), []string{query})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to vectorize query",
		})
	}

	matches, err := h.poolIndex.Search(c.UserContext(), vectors[0], limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}

	response := models.SearchResponse{
		Query:   query,
		Matches: make([]models.SearchMatch, 0, len(matches)),
	}
	for _, match := range matches {
		response.Matches = append(response.Matches, models.SearchMatch{
			Filename: match.Filename,
			Email:    match.Email,
			Score:    match.Score,
		})
	}

	return c.JSON(response)
}
