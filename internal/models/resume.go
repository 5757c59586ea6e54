package models

import (
	"time"
)

// Resume is the durable record for a parsed resume. One row per filename;
// re-uploading the same filename fully replaces the previous row.
type Resume struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename   string    `gorm:"type:text;uniqueIndex;not null" json:"filename"`
	Email      string    `gorm:"type:text" json:"email"`
	Skills     string    `gorm:"type:text" json:"skills"`
	Experience string    `gorm:"type:text" json:"experience"`
	Education  string    `gorm:"type:text" json:"education"`
	FitScore   *float64  `gorm:"type:decimal(4,1)" json:"fit_score,omitempty"`
	RawText    string    `gorm:"type:text" json:"-"`
	FileBytes  []byte    `gorm:"type:bytea" json:"-"`
	UploadDate time.Time `gorm:"type:timestamp;default:now()" json:"upload_date"`
}

func (Resume) TableName() string {
	return "parsed_resumes"
}
