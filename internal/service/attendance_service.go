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

type attendanceRepository interface {
	Create(ctx context.Context, event *models.AttendanceEvent) error
	ListByTraining(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceEvent, error)
}

// RecordAttendanceRequest marks one training date. Present maps
// participant IDs to their present flag; eligible participants left out
// of the map default to present, matching the marking form.
type RecordAttendanceRequest struct {
	Date    string          `json:"date" validate:"required"`
	Topic   string          `json:"topic" validate:"required"`
	Present map[string]bool `json:"present"`
}

// AttendanceService records dated presence for trainings.
type AttendanceService struct {
	repo      attendanceRepository
	trainings trainingRepository
	roster    rosterRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, trainings trainingRepository, roster rosterRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, trainings: trainings, roster: roster, validator: validate, logger: logger}
}

// Record stores one attendance event. Inserts are unconditional: marking
// the same date twice appends a second record which the status reporter
// merges, so no dedup check happens here.
func (s *AttendanceService) Record(ctx context.Context, trainingID string, req RecordAttendanceRequest) (*models.AttendanceEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "attendance requires a date and a topic")
	}
	if strings.TrimSpace(req.Topic) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "topic must not be empty")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", req.Date))
	}

	if _, err := s.trainings.FindByID(ctx, trainingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "training not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training")
	}

	eligible, err := s.roster.ActiveRoster(ctx, trainingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	if len(eligible) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no participants assigned to this training")
	}

	eligibleSet := make(map[string]struct{}, len(eligible))
	for _, entry := range eligible {
		eligibleSet[entry.ParticipantID] = struct{}{}
	}
	for participantID := range req.Present {
		if _, ok := eligibleSet[participantID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("participant %s is not enrolled in this training", participantID))
		}
	}

	present := make(models.PresenceMap, len(eligible))
	for _, entry := range eligible {
		if marked, ok := req.Present[entry.ParticipantID]; ok {
			present[entry.ParticipantID] = marked
		} else {
			present[entry.ParticipantID] = true
		}
	}

	event := &models.AttendanceEvent{
		TrainingID: trainingID,
		Date:       date,
		Topic:      req.Topic,
		Present:    present,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}
	return event, nil
}

// List returns raw attendance events for one training.
func (s *AttendanceService) List(ctx context.Context, trainingID string, from, to *time.Time) ([]models.AttendanceEvent, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must not be after end date")
	}
	events, err := s.repo.ListByTraining(ctx, models.AttendanceFilter{TrainingID: trainingID, DateFrom: from, DateTo: to})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return events, nil
}
