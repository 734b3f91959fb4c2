package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/trainops/attendance-api/internal/models"
	appErrors "github.com/trainops/attendance-api/pkg/errors"
)

type trainingRepository interface {
	List(ctx context.Context, filter models.TrainingFilter) ([]models.Training, int, error)
	FindByID(ctx context.Context, id string) (*models.Training, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, training *models.Training) error
	Update(ctx context.Context, training *models.Training) error
	Delete(ctx context.Context, id string) error
}

type rosterRepository interface {
	Assign(ctx context.Context, trainingID string, participantIDs []string) (int, error)
	Roster(ctx context.Context, trainingID string) ([]models.RosterEntry, error)
	ActiveRoster(ctx context.Context, trainingID string) ([]models.RosterEntry, error)
	MarkRemoved(ctx context.Context, trainingID, participantID, reason string, removedAt time.Time) error
}

type removalAuditRepository interface {
	Create(ctx context.Context, record *models.RemovalRecord) error
	ListByTraining(ctx context.Context, trainingID string) ([]models.RemovalRecord, error)
}

// CreateTrainingRequest holds payload for creating trainings.
type CreateTrainingRequest struct {
	Name        string    `json:"name" validate:"required"`
	TrainerName string    `json:"trainer_name" validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	Days        []string  `json:"days" validate:"required,min=1"`
}

// UpdateTrainingRequest holds payload for editing trainings. Nil fields
// are left unchanged so the edit writes back only what was submitted.
type UpdateTrainingRequest struct {
	Name        *string    `json:"name"`
	TrainerName *string    `json:"trainer_name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	Days        []string   `json:"days"`
}

// AssignParticipantsRequest lists participants to enroll.
type AssignParticipantsRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1"`
}

// RemoveParticipantsRequest lists participants to remove with a mandatory reason.
type RemoveParticipantsRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1"`
	Reason         string   `json:"reason" validate:"required"`
}

// TrainingService handles training roster use-cases.
type TrainingService struct {
	repo      trainingRepository
	roster    rosterRepository
	removals  removalAuditRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTrainingService constructs the training service.
func NewTrainingService(repo trainingRepository, roster rosterRepository, removals removalAuditRepository, validate *validator.Validate, logger *zap.Logger) *TrainingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainingService{repo: repo, roster: roster, removals: removals, validator: validate, logger: logger}
}

// List returns trainings and pagination metadata.
func (s *TrainingService) List(ctx context.Context, filter models.TrainingFilter) ([]models.Training, *models.Pagination, error) {
	trainings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainings")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return trainings, pagination, nil
}

// Get returns one training with its full roster, removed entries included.
func (s *TrainingService) Get(ctx context.Context, id string) (*models.TrainingDetail, error) {
	training, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "training not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training")
	}
	roster, err := s.roster.Roster(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return &models.TrainingDetail{Training: *training, Roster: roster}, nil
}

// Create registers a new training.
func (s *TrainingService) Create(ctx context.Context, req CreateTrainingRequest) (*models.Training, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid training payload")
	}
	if err := validateDays(req.Days); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate training name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "training name already used")
	}
	training := &models.Training{
		Name:        req.Name,
		TrainerName: req.TrainerName,
		Description: req.Description,
		StartDate:   req.StartDate,
		Days:        req.Days,
	}
	if err := s.repo.Create(ctx, training); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create training")
	}
	return training, nil
}

// Update edits an existing training, touching only the submitted fields.
func (s *TrainingService) Update(ctx context.Context, id string, req UpdateTrainingRequest) (*models.Training, error) {
	training, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "training not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "training name must not be empty")
		}
		exists, err := s.repo.ExistsByName(ctx, name, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate training name")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "training name already used")
		}
		training.Name = name
	}
	if req.TrainerName != nil {
		if strings.TrimSpace(*req.TrainerName) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "trainer name must not be empty")
		}
		training.TrainerName = *req.TrainerName
	}
	if req.Description != nil {
		training.Description = *req.Description
	}
	if req.StartDate != nil {
		training.StartDate = *req.StartDate
	}
	if req.Days != nil {
		if err := validateDays(req.Days); err != nil {
			return nil, err
		}
		training.Days = req.Days
	}
	if err := s.repo.Update(ctx, training); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update training")
	}
	return training, nil
}

// Delete removes a training. Attendance and removal history referencing it
// is left in place, matching the store's lack of cascading deletes.
func (s *TrainingService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "training not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete training")
	}
	return nil
}

// Assign enrolls participants with set semantics; assigning an existing
// member is a no-op. Returns the number of newly enrolled participants.
func (s *TrainingService) Assign(ctx context.Context, trainingID string, req AssignParticipantsRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assign payload")
	}
	if _, err := s.repo.FindByID(ctx, trainingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "training not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training")
	}
	added, err := s.roster.Assign(ctx, trainingID, req.ParticipantIDs)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign participants")
	}
	return added, nil
}

// Remove flips the given enrollments to removed and appends one audit row
// per participant. The two writes are separate store calls; a failure in
// between leaves earlier removals in place.
func (s *TrainingService) Remove(ctx context.Context, trainingID string, req RemoveParticipantsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "removal requires participants and a reason")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "removal reason must not be empty")
	}
	if _, err := s.repo.FindByID(ctx, trainingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "training not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training")
	}

	removedAt := time.Now().UTC()
	for _, participantID := range req.ParticipantIDs {
		if err := s.roster.MarkRemoved(ctx, trainingID, participantID, req.Reason, removedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("participant %s is not actively enrolled", participantID))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove participant")
		}
		record := &models.RemovalRecord{
			TrainingID:    trainingID,
			ParticipantID: participantID,
			Reason:        req.Reason,
			RemovedAt:     removedAt,
		}
		if err := s.removals.Create(ctx, record); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record removal")
		}
	}
	return nil
}

// Removals returns the audit trail for a training.
func (s *TrainingService) Removals(ctx context.Context, trainingID string) ([]models.RemovalRecord, error) {
	records, err := s.removals.ListByTraining(ctx, trainingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list removals")
	}
	return records, nil
}

func validateDays(days []string) error {
	if len(days) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one training day is required")
	}
	for _, day := range days {
		if !models.ValidTrainingDay(day) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown training day %q", day))
		}
	}
	return nil
}
