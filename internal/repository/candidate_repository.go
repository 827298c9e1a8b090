package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/hireflow-ai/hireflow/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// UpsertProfile writes the profile keyed by user id so re-uploading a
// resume updates the same row.
func (r *CandidateRepository) UpsertProfile(ctx context.Context, profile *model.CandidateProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(profile).Error
}

func (r *CandidateRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (*model.CandidateProfile, error) {
	var profile model.CandidateProfile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("candidate profile")
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CandidateRepository) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*model.CandidateProfile, error) {
	var profile model.CandidateProfile
	err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("candidate profile")
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CandidateRepository) SaveResumeBlob(ctx context.Context, blob *model.ResumeBlob) error {
	return r.db.WithContext(ctx).Create(blob).Error
}

// LastResumeBlob returns the most recent upload for the user.
func (r *CandidateRepository) LastResumeBlob(ctx context.Context, userID uuid.UUID) (*model.ResumeBlob, error) {
	var blob model.ResumeBlob
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("resume")
	}
	if err != nil {
		return nil, err
	}
	return &blob, nil
}
