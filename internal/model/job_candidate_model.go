package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	CandidateDecisionInterested = "interested"
	CandidateDecisionRejected   = "rejected"

	CompanyDecisionPlaced   = "placed"
	CompanyDecisionRejected = "rejected"
)

// JobCandidate links a job to a shortlisted candidate profile. The
// candidate_decision field is write-once; selected_top_3 is only ever
// recomputed by finalize.
type JobCandidate struct {
	ID                   uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobID                uuid.UUID  `gorm:"type:uuid;index" json:"job_id"`
	CandidateProfileID   uuid.UUID  `gorm:"type:uuid;index" json:"candidate_profile_id"`
	Rank                 int        `json:"rank"`
	InvitedAt            *time.Time `json:"invited_at"`
	InterviewCompletedAt *time.Time `json:"interview_completed_at"`
	Score                *float64   `json:"score"`
	CandidateDecision    *string    `gorm:"type:varchar(32)" json:"candidate_decision"`
	CompanyDecision      *string    `gorm:"type:varchar(32)" json:"company_decision"`
	SelectedTop3         bool       `gorm:"default:false" json:"selected_top_3"`
}

func (jc *JobCandidate) TableName() string {
	return "job_candidates"
}
