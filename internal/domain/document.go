// File: internal/domain/document.go
package domain

import "time"

type DocumentStatus string

const (
	DocumentPending   DocumentStatus = "pending"
	DocumentCompleted DocumentStatus = "completed"
	DocumentFailed    DocumentStatus = "failed"
)

const (
	PlaceholderContent  = "Pending Translation..."
	ChatUploadContent   = "Auto-uploaded from Chat"
	EmptyExtractionText = "Could not extract text from the document."
	FailedContentPrefix = "Translation failed: "
	DefaultLanguage     = "English"
)

// Document is an uploaded legal file. After creation only the translation job
// writes Status, Content and ErrorKind.
type Document struct {
	ID               uint           `json:"id" gorm:"primarykey"`
	UserID           uint           `json:"user_id" gorm:"not null;index"`
	Filename         string         `json:"filename" gorm:"not null"`
	FilePath         string         `json:"-" gorm:"not null"`
	OriginalLanguage string         `json:"original_language" gorm:"not null;default:'English'"`
	TargetLanguage   string         `json:"target_language"`
	Status           DocumentStatus `json:"status" gorm:"not null;size:16;default:'pending';index"`
	Content          string         `json:"content" gorm:"type:text"`
	ErrorKind        string         `json:"error_kind,omitempty" gorm:"size:32"`
	UploadedAt       time.Time      `json:"uploaded_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (Document) TableName() string { return "documents" }
