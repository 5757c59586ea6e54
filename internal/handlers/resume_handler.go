package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

type ResumeHandler struct {
	resumeRepo repositories.ResumeRepository
	poolIndex  services.PoolIndexService // nil when the search index is disabled
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	poolIndex services.PoolIndexService,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo: resumeRepo,
		poolIndex:  poolIndex,
	}
}

// HandleList handles GET /resumes, newest upload first.
func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	resumes, err := h.resumeRepo.FindAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list resumes",
		})
	}

	if resumes == nil {
		resumes = []models.Resume{}
	}

	return c.JSON(models.ResumeListResponse{
		Resumes: resumes,
		Count:   len(resumes),
	})
}

// HandleDownload handles GET /resumes/:filename/file.
func (h *ResumeHandler) HandleDownload(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "filename is required",
		})
	}

	fileBytes, err := h.resumeRepo.GetFileBytes(filename)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(fileBytes)
}

// HandleClear handles DELETE /resumes. The pool index is drained alongside
// the table so search never surfaces filenames whose rows are gone.
func (h *ResumeHandler) HandleClear(c *fiber.Ctx) error {
	if h.poolIndex != nil {
		resumes, err := h.resumeRepo.FindAll()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to clear resumes",
			})
		}
		for _, resume := range resumes {
			if err := h.poolIndex.RemoveResume(c.UserContext(), resume.Filename); err != nil {
				log.Printf("⚠️  Failed to remove %s from the search index: %v\n", resume.Filename, err)
			}
		}
	}

	if err := h.resumeRepo.Clear(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear resumes",
		})
	}

	return c.JSON(fiber.Map{
		"message": "All stored resumes deleted",
	})
}
