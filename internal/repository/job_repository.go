package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/hireflow-ai/hireflow/internal/model"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("job")
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Where("employer_id = ?", employerID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}
