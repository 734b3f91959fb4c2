package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trainops/attendance-api/internal/models"
)

// AttendanceRepository persists attendance events. The collection is
// append-only: re-marking a date inserts a second record for the same
// (training, date) pair and the reporter merges them.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts one attendance event.
func (r *AttendanceRepository) Create(ctx context.Context, event *models.AttendanceEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO attendance (id, training_id, date, topic, present, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, event.ID, event.TrainingID, event.Date, event.Topic, event.Present, event.CreatedAt); err != nil {
		return fmt.Errorf("create attendance event: %w", err)
	}
	return nil
}

// ListByTraining returns attendance events for one training, optionally
// bounded to a date range, ordered by date then insertion time so that
// later duplicates overlay earlier ones deterministically.
func (r *AttendanceRepository) ListByTraining(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceEvent, error) {
	where := []string{"training_id = $1"}
	args := []interface{}{filter.TrainingID}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	query := fmt.Sprintf(`SELECT id, training_id, date, topic, present, created_at
FROM attendance WHERE %s
ORDER BY date ASC, created_at ASC`, strings.Join(where, " AND "))
	var rows []models.AttendanceEvent
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}
