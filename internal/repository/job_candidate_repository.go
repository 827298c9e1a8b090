package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/hireflow-ai/hireflow/internal/model"
	"gorm.io/gorm"
)

type JobCandidateRepository struct {
	db *gorm.DB
}

func NewJobCandidateRepository(db *gorm.DB) *JobCandidateRepository {
	return &JobCandidateRepository{db: db}
}

func (r *JobCandidateRepository) Create(ctx context.Context, jc *model.JobCandidate) error {
	return r.db.WithContext(ctx).Create(jc).Error
}

func (r *JobCandidateRepository) Update(ctx context.Context, jc *model.JobCandidate) error {
	return r.db.WithContext(ctx).Save(jc).Error
}

func (r *JobCandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.JobCandidate, error) {
	var jc model.JobCandidate
	err := r.db.WithContext(ctx).First(&jc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("job candidate")
	}
	if err != nil {
		return nil, err
	}
	return &jc, nil
}

func (r *JobCandidateRepository) GetByJobAndProfile(ctx context.Context, jobID, profileID uuid.UUID) (*model.JobCandidate, error) {
	var jc model.JobCandidate
	err := r.db.WithContext(ctx).
		First(&jc, "job_id = ? AND candidate_profile_id = ?", jobID, profileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("job candidate")
	}
	if err != nil {
		return nil, err
	}
	return &jc, nil
}

// ListByJob returns the job's shortlist ordered by rank.
func (r *JobCandidateRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.JobCandidate, error) {
	var jcs []model.JobCandidate
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("rank ASC").
		Find(&jcs).Error
	return jcs, err
}

// ListByProfile returns every shortlist entry for a candidate, newest job
// first.
func (r *JobCandidateRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]model.JobCandidate, error) {
	var jcs []model.JobCandidate
	err := r.db.WithContext(ctx).
		Where("candidate_profile_id = ?", profileID).
		Find(&jcs).Error
	return jcs, err
}

// ClearTop3 resets the finalize selection for a job before recomputing it.
func (r *JobCandidateRepository) ClearTop3(ctx context.Context, jobID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.JobCandidate{}).
		Where("job_id = ?", jobID).
		Update("selected_top_3", false).Error
}
