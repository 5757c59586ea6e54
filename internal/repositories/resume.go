package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/resume-ranker/internal/models"
)

type ResumeRepository interface {
	Upsert(resume *models.Resume) error
	FindAll() ([]models.Resume, error)
	FindByFilename(filename string) (*models.Resume, error)
	UpdateFitScore(filename string, score float64) error
	GetFileBytes(filename string) ([]byte, error)
	Clear() error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Upsert implements ResumeRepository. Re-uploading a filename fully replaces
// the previous row, including its fit_score.
func (r *resumeRepository) Upsert(resume *models.Resume) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "filename"}},
		UpdateAll: true,
	}).Create(resume).Error
	if err != nil {
		return fmt.Errorf("failed to upsert resume %s: %w", resume.Filename, err)
	}

	return nil
}

// FindAll implements ResumeRepository.
func (r *resumeRepository) FindAll() ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.
		Omit("file_bytes", "raw_text").
		Order("upload_date DESC").
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}

	return resumes, nil
}

// FindByFilename implements ResumeRepository.
func (r *resumeRepository) FindByFilename(filename string) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("filename = ?", filename).First(&resume).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resume not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find resume: %w", err)
	}

	return &resume, nil
}

// UpdateFitScore implements ResumeRepository.
func (r *resumeRepository) UpdateFitScore(filename string, score float64) error {
	result := r.db.Model(&models.Resume{}).
		Where("filename = ?", filename).
		Update("fit_score", score)

	if result.Error != nil {
		return fmt.Errorf("failed to update fit score: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("resume not found")
	}

	return nil
}

// GetFileBytes implements ResumeRepository.
func (r *resumeRepository) GetFileBytes(filename string) ([]byte, error) {
	var resume models.Resume
	err := r.db.
		Select("file_bytes").
		Where("filename = ?", filename).
		First(&resume).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resume not found: %w", err)
		}

		return nil, fmt.Errorf("failed to fetch file bytes: %w", err)
	}

	return resume.FileBytes, nil
}

// Clear implements ResumeRepository.
func (r *resumeRepository) Clear() error {
	if err := r.db.Exec("DELETE FROM parsed_resumes").Error; err != nil {
		return fmt.Errorf("failed to clear resumes: %w", err)
	}

	return nil
}
