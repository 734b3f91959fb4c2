package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trainops/attendance-api/internal/models"
)

// RemovalRepository persists the write-once removal audit trail.
type RemovalRepository struct {
	db *sqlx.DB
}

// NewRemovalRepository constructs the repository.
func NewRemovalRepository(db *sqlx.DB) *RemovalRepository {
	return &RemovalRepository{db: db}
}

// Create appends one audit row. Audit rows are never updated or deleted.
func (r *RemovalRepository) Create(ctx context.Context, record *models.RemovalRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	query := `INSERT INTO removals (id, training_id, participant_id, reason, removed_at)
VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, record.ID, record.TrainingID, record.ParticipantID, record.Reason, record.RemovedAt); err != nil {
		return fmt.Errorf("create removal record: %w", err)
	}
	return nil
}

// ListByTraining returns the audit trail for one training, oldest first.
func (r *RemovalRepository) ListByTraining(ctx context.Context, trainingID string) ([]models.RemovalRecord, error) {
	query := `SELECT id, training_id, participant_id, reason, removed_at
FROM removals WHERE training_id = $1 ORDER BY removed_at ASC`
	var rows []models.RemovalRecord
	if err := r.db.SelectContext(ctx, &rows, query, trainingID); err != nil {
		return nil, fmt.Errorf("list removals: %w", err)
	}
	return rows, nil
}
