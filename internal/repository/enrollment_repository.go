package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trainops/attendance-api/internal/models"
)

// EnrollmentRepository manages the training ↔ participant roster.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Assign enrolls the participants into the training with set semantics:
// an already-enrolled participant is a no-op. Returns the number of rows
// actually inserted.
func (r *EnrollmentRepository) Assign(ctx context.Context, trainingID string, participantIDs []string) (int, error) {
	if len(participantIDs) == 0 {
		return 0, nil
	}
	query := `INSERT INTO enrollments (id, training_id, participant_id, status, joined_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (training_id, participant_id) DO NOTHING`
	now := time.Now().UTC()
	added := 0
	for _, participantID := range participantIDs {
		result, err := r.db.ExecContext(ctx, query, uuid.NewString(), trainingID, participantID, models.EnrollmentStatusActive, now)
		if err != nil {
			return added, fmt.Errorf("assign participant %s: %w", participantID, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			added += int(n)
		}
	}
	return added, nil
}

// Roster returns all enrollments for a training joined with participant
// identity, removed participants included.
func (r *EnrollmentRepository) Roster(ctx context.Context, trainingID string) ([]models.RosterEntry, error) {
	query := `SELECT e.id, e.training_id, e.participant_id, e.status, e.removal_reason, e.removed_at, e.joined_at,
        p.name AS participant_name, p.email AS participant_email
FROM enrollments e
JOIN participants p ON p.id = e.participant_id
WHERE e.training_id = $1
ORDER BY p.name ASC`
	var rows []models.RosterEntry
	if err := r.db.SelectContext(ctx, &rows, query, trainingID); err != nil {
		return nil, fmt.Errorf("training roster: %w", err)
	}
	return rows, nil
}

// ActiveRoster returns only the currently-enrolled entries.
func (r *EnrollmentRepository) ActiveRoster(ctx context.Context, trainingID string) ([]models.RosterEntry, error) {
	query := `SELECT e.id, e.training_id, e.participant_id, e.status, e.removal_reason, e.removed_at, e.joined_at,
        p.name AS participant_name, p.email AS participant_email
FROM enrollments e
JOIN participants p ON p.id = e.participant_id
WHERE e.training_id = $1 AND e.status = $2
ORDER BY p.name ASC`
	var rows []models.RosterEntry
	if err := r.db.SelectContext(ctx, &rows, query, trainingID, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("active roster: %w", err)
	}
	return rows, nil
}

// MarkRemoved flips an active enrollment to removed, stamping the reason
// and timestamp in place. Returns sql.ErrNoRows when the participant has
// no active enrollment in the training.
func (r *EnrollmentRepository) MarkRemoved(ctx context.Context, trainingID, participantID, reason string, removedAt time.Time) error {
	query := `UPDATE enrollments SET status = $4, removal_reason = $5, removed_at = $6
WHERE training_id = $1 AND participant_id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, trainingID, participantID, models.EnrollmentStatusActive, models.EnrollmentStatusRemoved, reason, removedAt)
	if err != nil {
		return fmt.Errorf("mark removed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark removed rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
