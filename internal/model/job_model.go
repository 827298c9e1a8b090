package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/schema"
)

const (
	JobStatusDraft     = "draft"
	JobStatusPublished = "published"
	JobStatusClosed    = "closed"
)

type Job struct {
	ID                uuid.UUID                  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EmployerID        uuid.UUID                  `gorm:"type:uuid;index" json:"employer_id"`
	Title             string                     `gorm:"type:varchar(512)" json:"title"`
	DescriptionMD     string                     `gorm:"type:text" json:"description_md"`
	DescriptionSchema *schema.JobDescriptionRoot `gorm:"type:jsonb;serializer:json" json:"description_schema"`
	Status            string                     `gorm:"type:varchar(32);default:draft" json:"status"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

// Content returns the JD as schema JSON when available, else the markdown.
// This is the payload handed to the model for questions, chat, and scoring.
func (j *Job) Content() string {
	if j.DescriptionSchema != nil {
		if raw, err := json.Marshal(j.DescriptionSchema); err == nil {
			return string(raw)
		}
	}
	return j.DescriptionMD
}
