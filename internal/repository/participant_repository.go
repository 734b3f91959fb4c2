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

// ParticipantRepository handles persistence for participant records.
type ParticipantRepository struct {
	db *sqlx.DB
}

// NewParticipantRepository constructs the repository.
func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// List returns participants matching the provided filter.
func (r *ParticipantRepository) List(ctx context.Context, filter models.ParticipantFilter) ([]models.Participant, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"name":       "p.name",
		"email":      "p.email",
		"created_at": "p.created_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "p.name"
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

	query := fmt.Sprintf(`SELECT p.id, p.name, p.email, p.phone, p.created_at, p.updated_at
        FROM participants p WHERE %s
        ORDER BY %s %s
        LIMIT %d OFFSET %d`, whereClause, sortColumn, order, size, offset)

	var rows []models.Participant
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list participants: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM participants p WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count participants: %w", err)
	}
	return rows, total, nil
}

// FindByID loads one participant by ID.
func (r *ParticipantRepository) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	query := `SELECT id, name, email, phone, created_at, updated_at FROM participants WHERE id = $1`
	var participant models.Participant
	if err := r.db.GetContext(ctx, &participant, query, id); err != nil {
		return nil, err
	}
	return &participant, nil
}

// ExistsByName reports whether another participant already uses the name.
func (r *ParticipantRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM participants WHERE name = $1 AND ($2 = '' OR id <> $2))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, excludeID); err != nil {
		return false, fmt.Errorf("participant exists by name: %w", err)
	}
	return exists, nil
}

// Create inserts a participant.
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	now := time.Now().UTC()
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}
	participant.CreatedAt = now
	participant.UpdatedAt = now
	query := `INSERT INTO participants (id, name, email, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, participant.ID, participant.Name, participant.Email, participant.Phone, participant.CreatedAt, participant.UpdatedAt); err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

// Update writes back the editable fields of a participant.
func (r *ParticipantRepository) Update(ctx context.Context, participant *models.Participant) error {
	participant.UpdatedAt = time.Now().UTC()
	query := `UPDATE participants SET name = $2, email = $3, phone = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, participant.ID, participant.Name, participant.Email, participant.Phone, participant.UpdatedAt); err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	return nil
}

// BulkInsert inserts all rows in one transaction. Any failure rolls the
// whole batch back; imports are all-or-nothing.
func (r *ParticipantRepository) BulkInsert(ctx context.Context, participants []models.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk participants: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()
	query := `INSERT INTO participants (id, name, email, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	now := time.Now().UTC()
	for i := range participants {
		p := &participants[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.CreatedAt = now
		p.UpdatedAt = now
		if _, err := tx.ExecContext(ctx, query, p.ID, p.Name, p.Email, p.Phone, p.CreatedAt, p.UpdatedAt); err != nil {
			return fmt.Errorf("bulk insert participant %q: %w", p.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk participants: %w", err)
	}
	commit = true
	return nil
}
