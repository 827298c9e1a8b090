package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/hireflow-ai/hireflow/internal/model"
	"gorm.io/gorm"
)

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

func (r *InterviewRepository) Create(ctx context.Context, session *model.InterviewSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *InterviewRepository) Update(ctx context.Context, session *model.InterviewSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// GetByToken resolves the unguessable interview link token. An unknown
// token is a NotFoundError, indistinguishable from a deleted session.
func (r *InterviewRepository) GetByToken(ctx context.Context, token string) (*model.InterviewSession, error) {
	var session model.InterviewSession
	err := r.db.WithContext(ctx).
		First(&session, "interview_link_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("interview session")
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *InterviewRepository) GetByJobCandidate(ctx context.Context, jobCandidateID uuid.UUID) (*model.InterviewSession, error) {
	var session model.InterviewSession
	err := r.db.WithContext(ctx).
		First(&session, "job_candidate_id = ?", jobCandidateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("interview session")
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}
