package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hireflow-ai/hireflow/internal/matching"
	"github.com/hireflow-ai/hireflow/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Embedder turns text into the vector stored alongside each resume
// document.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ResumeIndexRepository is the pgvector-backed resume index. It satisfies
// matching.ResumeIndex.
type ResumeIndexRepository struct {
	db       *gorm.DB
	embedder Embedder
}

func NewResumeIndexRepository(db *gorm.DB, embedder Embedder) *ResumeIndexRepository {
	return &ResumeIndexRepository{db: db, embedder: embedder}
}

// Add indexes (or re-indexes) a candidate's serialized resume document,
// embedding it first. One row per profile.
func (r *ResumeIndexRepository) Add(ctx context.Context, profileID uuid.UUID, document string, metadata map[string]string) error {
	vec, err := r.embedder.GenerateEmbedding(ctx, document)
	if err != nil {
		return err
	}
	doc := model.ResumeDocument{
		ProfileID: profileID,
		Document:  document,
		Embedding: pgvector.NewVector(vec),
		Metadata:  metadata,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}},
			UpdateAll: true,
		}).
		Create(&doc).Error
}

type scoredDocument struct {
	model.ResumeDocument
	Distance float64 `gorm:"column:distance"`
}

// QueryByText embeds the query and returns the k nearest documents by
// cosine-ish L2 distance, closest first. k <= 0 returns the whole index
// ordered by distance.
func (r *ResumeIndexRepository) QueryByText(ctx context.Context, text string, k int) ([]matching.IndexEntry, error) {
	vec, err := r.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	query := pgvector.NewVector(vec)

	var rows []scoredDocument
	tx := r.db.WithContext(ctx).
		Raw(buildNearestSQL(k), argsForNearest(query, k)...).
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toIndexEntries(rows), nil
}

func buildNearestSQL(k int) string {
	sql := "SELECT *, embedding <-> ? AS distance FROM resume_documents ORDER BY embedding <-> ?"
	if k > 0 {
		sql += " LIMIT ?"
	}
	return sql
}

func argsForNearest(query pgvector.Vector, k int) []any {
	args := []any{query, query}
	if k > 0 {
		args = append(args, k)
	}
	return args
}

// GetAll returns every indexed document with a zero distance.
func (r *ResumeIndexRepository) GetAll(ctx context.Context) ([]matching.IndexEntry, error) {
	var docs []model.ResumeDocument
	if err := r.db.WithContext(ctx).Find(&docs).Error; err != nil {
		return nil, err
	}
	out := make([]matching.IndexEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, matching.IndexEntry{ProfileID: d.ProfileID.String(), Document: d.Document})
	}
	return out, nil
}

func toIndexEntries(rows []scoredDocument) []matching.IndexEntry {
	out := make([]matching.IndexEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, matching.IndexEntry{
			ProfileID: row.ProfileID.String(),
			Document:  row.Document,
			Distance:  row.Distance,
		})
	}
	return out
}
