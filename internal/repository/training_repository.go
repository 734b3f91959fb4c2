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

// TrainingRepository handles persistence for training records.
type TrainingRepository struct {
	db *sqlx.DB
}

// NewTrainingRepository constructs the repository.
func NewTrainingRepository(db *sqlx.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// List returns trainings matching the provided filter.
func (r *TrainingRepository) List(ctx context.Context, filter models.TrainingFilter) ([]models.Training, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(t.name ILIKE $%d OR t.trainer_name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"name":       "t.name",
		"start_date": "t.start_date",
		"created_at": "t.created_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "t.name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT t.id, t.name, t.trainer_name, t.description, t.start_date, t.days, t.created_at, t.updated_at
        FROM trainings t WHERE %s
        ORDER BY %s %s
        LIMIT %d OFFSET %d`, whereClause, sortColumn, order, size, offset)

	var rows []models.Training
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list trainings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM trainings t WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count trainings: %w", err)
	}
	return rows, total, nil
}

// FindByID loads one training by ID.
func (r *TrainingRepository) FindByID(ctx context.Context, id string) (*models.Training, error) {
	query := `SELECT id, name, trainer_name, description, start_date, days, created_at, updated_at
FROM trainings WHERE id = $1`
	var training models.Training
	if err := r.db.GetContext(ctx, &training, query, id); err != nil {
		return nil, err
	}
	return &training, nil
}

// ExistsByName reports whether another training already uses the name.
func (r *TrainingRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM trainings WHERE name = $1 AND ($2 = '' OR id <> $2))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, excludeID); err != nil {
		return false, fmt.Errorf("training exists by name: %w", err)
	}
	return exists, nil
}

// Create inserts a training.
func (r *TrainingRepository) Create(ctx context.Context, training *models.Training) error {
	now := time.Now().UTC()
	if training.ID == "" {
		training.ID = uuid.NewString()
	}
	training.CreatedAt = now
	training.UpdatedAt = now
	query := `INSERT INTO trainings (id, name, trainer_name, description, start_date, days, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query, training.ID, training.Name, training.TrainerName, training.Description, training.StartDate, training.Days, training.CreatedAt, training.UpdatedAt); err != nil {
		return fmt.Errorf("create training: %w", err)
	}
	return nil
}

// Update writes back the editable fields of a training.
func (r *TrainingRepository) Update(ctx context.Context, training *models.Training) error {
	training.UpdatedAt = time.Now().UTC()
	query := `UPDATE trainings SET name = $2, trainer_name = $3, description = $4, start_date = $5, days = $6, updated_at = $7
WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, training.ID, training.Name, training.TrainerName, training.Description, training.StartDate, training.Days, training.UpdatedAt); err != nil {
		return fmt.Errorf("update training: %w", err)
	}
	return nil
}

// Delete removes the training row. Referencing attendance and removal rows
// are intentionally left alone.
func (r *TrainingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trainings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete training: %w", err)
	}
	return nil
}
