package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ResumeDocument is one row of the vector index: the serialized resume JSON
// of an indexed candidate plus its embedding.
type ResumeDocument struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID uuid.UUID         `gorm:"type:uuid;uniqueIndex" json:"profile_id"`
	Document  string            `gorm:"type:text" json:"document"`
	Embedding pgvector.Vector   `gorm:"type:vector(3072)" json:"-"`
	Metadata  map[string]string `gorm:"type:jsonb;serializer:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (d *ResumeDocument) TableName() string {
	return "resume_documents"
}
