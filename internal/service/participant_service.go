package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/trainops/attendance-api/internal/models"
	appErrors "github.com/trainops/attendance-api/pkg/errors"
)

// Column headers a roster import file must carry.
var importColumns = []string{"participant_name", "email", "phone"}

type participantRepository interface {
	List(ctx context.Context, filter models.ParticipantFilter) ([]models.Participant, int, error)
	FindByID(ctx context.Context, id string) (*models.Participant, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, participant *models.Participant) error
	Update(ctx context.Context, participant *models.Participant) error
	BulkInsert(ctx context.Context, participants []models.Participant) error
}

// CreateParticipantRequest holds payload for creating participants.
type CreateParticipantRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// UpdateParticipantRequest holds payload for editing participants.
type UpdateParticipantRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// ImportResult reports a completed bulk import.
type ImportResult struct {
	Imported int `json:"imported"`
}

// ParticipantService handles participant use-cases including bulk import.
type ParticipantService struct {
	repo      participantRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewParticipantService constructs the participant service.
func NewParticipantService(repo participantRepository, validate *validator.Validate, logger *zap.Logger) *ParticipantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipantService{repo: repo, validator: validate, logger: logger}
}

// List returns participants and pagination metadata.
func (s *ParticipantService) List(ctx context.Context, filter models.ParticipantFilter) ([]models.Participant, *models.Pagination, error) {
	participants, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list participants")
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
	return participants, pagination, nil
}

// Get returns one participant.
func (s *ParticipantService) Get(ctx context.Context, id string) (*models.Participant, error) {
	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "participant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}
	return participant, nil
}

// Create registers a new participant.
func (s *ParticipantService) Create(ctx context.Context, req CreateParticipantRequest) (*models.Participant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid participant payload")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate participant name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "participant name already used")
	}
	participant := &models.Participant{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := s.repo.Create(ctx, participant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create participant")
	}
	return participant, nil
}

// Update modifies an existing participant record.
func (s *ParticipantService) Update(ctx context.Context, id string, req UpdateParticipantRequest) (*models.Participant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid participant payload")
	}
	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "participant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate participant name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "participant name already used")
	}
	participant.Name = req.Name
	participant.Email = req.Email
	participant.Phone = req.Phone
	if err := s.repo.Update(ctx, participant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update participant")
	}
	return participant, nil
}

// Import parses a CSV or XLSX roster file and inserts every row in one
// transaction. A file missing any required column is rejected wholesale
// with zero records persisted.
func (s *ParticipantService) Import(ctx context.Context, filename string, file io.Reader) (*ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		rows, err = readCSV(file)
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		rows, err = readXLSX(file)
	default:
		return nil, appErrors.Clone(appErrors.ErrImportFailed, "unsupported file type: expected .csv or .xlsx")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrImportFailed.Code, appErrors.ErrImportFailed.Status, fmt.Sprintf("could not parse roster file: %v", err))
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrImportFailed, "roster file is empty")
	}

	columns, err := mapImportColumns(rows[0])
	if err != nil {
		return nil, err
	}

	participants := make([]models.Participant, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cellAt(row, columns["participant_name"])
		email := cellAt(row, columns["email"])
		phone := cellAt(row, columns["phone"])
		if name == "" && email == "" && phone == "" {
			continue
		}
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrImportFailed, "row with empty participant_name")
		}
		participants = append(participants, models.Participant{Name: name, Email: email, Phone: phone})
	}
	if len(participants) == 0 {
		return nil, appErrors.Clone(appErrors.ErrImportFailed, "roster file has no data rows")
	}

	if err := s.repo.BulkInsert(ctx, participants); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrImportFailed.Code, appErrors.ErrImportFailed.Status, fmt.Sprintf("import aborted: %v", err))
	}
	s.logger.Info("roster imported", zap.Int("count", len(participants)))
	return &ImportResult{Imported: len(participants)}, nil
}

func readCSV(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func readXLSX(file io.Reader) ([][]string, error) {
	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// mapImportColumns resolves the index of each required header, rejecting
// the file when any is missing.
func mapImportColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(importColumns))
	for i, cell := range header {
		columns[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	for _, required := range importColumns {
		if _, ok := columns[required]; !ok {
			return nil, appErrors.Clone(appErrors.ErrImportFailed, fmt.Sprintf("missing required column %q", required))
		}
	}
	return columns, nil
}

func cellAt(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
