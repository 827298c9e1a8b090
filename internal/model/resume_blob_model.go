package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/schema"
)

// ResumeBlob keeps the last uploaded resume file per candidate together
// with the extracted text and the parsed schema.
type ResumeBlob struct {
	ID            uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;index" json:"user_id"`
	FileName      string             `gorm:"type:varchar(255)" json:"file_name"`
	ContentType   string             `gorm:"type:varchar(128)" json:"content_type"`
	FileContent   []byte             `gorm:"type:bytea" json:"-"`
	ExtractedText string             `gorm:"type:text" json:"extracted_text"`
	ParsedSchema  *schema.ResumeRoot `gorm:"type:jsonb;serializer:json" json:"parsed_schema"`
	CreatedAt     time.Time          `json:"created_at"`
}

func (b *ResumeBlob) TableName() string {
	return "resume_blobs"
}
