package service

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/trainops/attendance-api/internal/models"
	appErrors "github.com/trainops/attendance-api/pkg/errors"
)

type mockParticipantRepo struct {
	participants map[string]*models.Participant
	nameExists   bool
	bulkErr      error
	bulkInserted []models.Participant
}

func (m *mockParticipantRepo) List(ctx context.Context, filter models.ParticipantFilter) ([]models.Participant, int, error) {
	out := make([]models.Participant, 0, len(m.participants))
	for _, p := range m.participants {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockParticipantRepo) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	p, ok := m.participants[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockParticipantRepo) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	return m.nameExists, nil
}

func (m *mockParticipantRepo) Create(ctx context.Context, participant *models.Participant) error {
	participant.ID = "p-new"
	if m.participants == nil {
		m.participants = make(map[string]*models.Participant)
	}
	m.participants[participant.ID] = participant
	return nil
}

func (m *mockParticipantRepo) Update(ctx context.Context, participant *models.Participant) error {
	m.participants[participant.ID] = participant
	return nil
}

func (m *mockParticipantRepo) BulkInsert(ctx context.Context, participants []models.Participant) error {
	if m.bulkErr != nil {
		return m.bulkErr
	}
	m.bulkInserted = append(m.bulkInserted, participants...)
	return nil
}

func TestParticipantServiceCreate(t *testing.T) {
	repo := &mockParticipantRepo{}
	svc := NewParticipantService(repo, validator.New(), zap.NewNop())

	participant, err := svc.Create(context.Background(), CreateParticipantRequest{
		Name:  "Alice",
		Email: "alice@example.com",
		Phone: "0800000001",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, participant.ID)
}

func TestParticipantServiceCreateInvalidEmail(t *testing.T) {
	svc := NewParticipantService(&mockParticipantRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateParticipantRequest{
		Name:  "Alice",
		Email: "not-an-email",
		Phone: "0800000001",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParticipantServiceImportCSV(t *testing.T) {
	repo := &mockParticipantRepo{}
	svc := NewParticipantService(repo, validator.New(), zap.NewNop())

	payload := strings.Join([]string{
		"participant_name,email,phone",
		"Alice,alice@example.com,0800000001",
		"Bob,bob@example.com,0800000002",
		",,",
	}, "\n")

	result, err := svc.Import(context.Background(), "roster.csv", strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, repo.bulkInserted, 2)
	assert.Equal(t, "Alice", repo.bulkInserted[0].Name)
	assert.Equal(t, "bob@example.com", repo.bulkInserted[1].Email)
}

func TestParticipantServiceImportMissingColumn(t *testing.T) {
	repo := &mockParticipantRepo{}
	svc := NewParticipantService(repo, validator.New(), zap.NewNop())

	payload := "participant_name,email\nAlice,alice@example.com\n"
	_, err := svc.Import(context.Background(), "roster.csv", strings.NewReader(payload))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrImportFailed.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.bulkInserted)
}

func TestParticipantServiceImportXLSX(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]interface{}{"participant_name", "email", "phone"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]interface{}{"Alice", "alice@example.com", "0800000001"}))
	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))
	require.NoError(t, book.Close())

	repo := &mockParticipantRepo{}
	svc := NewParticipantService(repo, validator.New(), zap.NewNop())

	result, err := svc.Import(context.Background(), "roster.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestParticipantServiceImportUnsupportedExtension(t *testing.T) {
	svc := NewParticipantService(&mockParticipantRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Import(context.Background(), "roster.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrImportFailed.Code, appErrors.FromError(err).Code)
}

func TestParticipantServiceImportEmptyName(t *testing.T) {
	repo := &mockParticipantRepo{}
	svc := NewParticipantService(repo, validator.New(), zap.NewNop())

	payload := "participant_name,email,phone\n,alice@example.com,0800000001\n"
	_, err := svc.Import(context.Background(), "roster.csv", strings.NewReader(payload))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrImportFailed.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.bulkInserted)
}
