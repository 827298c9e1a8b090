package model

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// InterviewSession is 1:1 with a JobCandidate, addressed by an unguessable
// URL-safe token sent in the interview link email.
type InterviewSession struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobCandidateID uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"job_candidate_id"`
	LinkToken      string     `gorm:"type:varchar(64);uniqueIndex;column:interview_link_token" json:"interview_link_token"`
	Questions      []string   `gorm:"type:jsonb;serializer:json" json:"questions"`
	QuestionVideos []string   `gorm:"type:jsonb;serializer:json" json:"question_videos"`
	StartedAt      *time.Time `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at"`
	Transcript     string     `gorm:"type:text" json:"transcript"`
	Score          *float64   `json:"score"`
	RecordingURL   string     `gorm:"type:varchar(512)" json:"recording_url"`
}

func (s *InterviewSession) TableName() string {
	return "interview_sessions"
}

// NewInterviewToken returns a 32-byte random token in URL-safe base64.
func NewInterviewToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a UUID
		// pair so token uniqueness still holds.
		return uuid.NewString() + uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
