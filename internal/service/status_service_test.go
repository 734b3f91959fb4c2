package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/trainops/attendance-api/internal/models"
	appErrors "github.com/trainops/attendance-api/pkg/errors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// statusFixture seeds the two-participant scenario: Alice stays enrolled,
// Bob is removed on Jan 9 between the two recorded sessions.
func statusFixture() *StatusService {
	removedAt := time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC)
	reason := "transferred"
	bob := models.RosterEntry{
		Enrollment: models.Enrollment{
			TrainingID:    "t1",
			ParticipantID: "p-bob",
			Status:        models.EnrollmentStatusRemoved,
			RemovalReason: &reason,
			RemovedAt:     &removedAt,
		},
		ParticipantName: "Bob",
	}
	trainings := &mockTrainingRepo{trainings: map[string]*models.Training{"t1": {ID: "t1", Name: "Onboarding"}}}
	roster := &mockRosterRepo{entries: []models.RosterEntry{activeEntry("p-alice", "Alice"), bob}}
	attendance := &mockAttendanceRepo{events: []models.AttendanceEvent{
		{
			ID:         "a1",
			TrainingID: "t1",
			Date:       day(2024, 1, 8),
			Topic:      "Intro",
			Present:    models.PresenceMap{"p-alice": true, "p-bob": true},
		},
		{
			ID:         "a2",
			TrainingID: "t1",
			Date:       day(2024, 1, 10),
			Topic:      "Tooling",
			Present:    models.PresenceMap{"p-alice": true},
		},
	}}
	return NewStatusService(trainings, roster, attendance, nil, zap.NewNop())
}

func markAt(matrix *models.StatusMatrix, participantID string, date time.Time) models.StatusMark {
	col := -1
	for i, column := range matrix.Columns {
		if column.Date.Equal(date) {
			col = i
			break
		}
	}
	if col < 0 {
		return ""
	}
	for _, row := range matrix.Rows {
		if row.ParticipantID == participantID {
			return row.Marks[col]
		}
	}
	return ""
}

func TestStatusServiceBuildMatrix(t *testing.T) {
	svc := statusFixture()

	matrix, err := svc.Build(context.Background(), "t1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", matrix.TrainingName)
	require.Len(t, matrix.Columns, 2)
	assert.Equal(t, "Intro", matrix.Columns[0].Topic)
	assert.Equal(t, "Tooling", matrix.Columns[1].Topic)

	// Alice attended both sessions.
	assert.Equal(t, models.MarkPresent, markAt(matrix, "p-alice", day(2024, 1, 8)))
	assert.Equal(t, models.MarkPresent, markAt(matrix, "p-alice", day(2024, 1, 10)))

	// Bob keeps his pre-removal record and shows removed afterwards.
	assert.Equal(t, models.MarkPresent, markAt(matrix, "p-bob", day(2024, 1, 8)))
	assert.Equal(t, models.MarkRemoved, markAt(matrix, "p-bob", day(2024, 1, 10)))
}

func TestStatusServiceBuildIsDeterministic(t *testing.T) {
	svc := statusFixture()

	first, err := svc.Build(context.Background(), "t1", nil, nil)
	require.NoError(t, err)
	second, err := svc.Build(context.Background(), "t1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStatusServiceDuplicateRecordsMergeWithOr(t *testing.T) {
	trainings := &mockTrainingRepo{trainings: map[string]*models.Training{"t1": {ID: "t1", Name: "Onboarding"}}}
	roster := &mockRosterRepo{entries: []models.RosterEntry{activeEntry("p1", "Alice")}}
	attendance := &mockAttendanceRepo{events: []models.AttendanceEvent{
		{TrainingID: "t1", Date: day(2024, 1, 8), Topic: "Intro", Present: models.PresenceMap{"p1": false}},
		{TrainingID: "t1", Date: day(2024, 1, 8), Topic: "", Present: models.PresenceMap{"p1": true}},
	}}
	svc := NewStatusService(trainings, roster, attendance, nil, zap.NewNop())

	matrix, err := svc.Build(context.Background(), "t1", nil, nil)
	require.NoError(t, err)
	require.Len(t, matrix.Columns, 1)
	assert.Equal(t, "Intro", matrix.Columns[0].Topic)
	assert.Equal(t, models.MarkPresent, markAt(matrix, "p1", day(2024, 1, 8)))
}

func TestStatusServiceCalendarRangeFillsGaps(t *testing.T) {
	svc := statusFixture()

	from := day(2024, 1, 8)
	to := day(2024, 1, 10)
	matrix, err := svc.Build(context.Background(), "t1", &from, &to)
	require.NoError(t, err)
	require.Len(t, matrix.Columns, 3)

	// Jan 9 has no record: nothing to report for anyone still enrolled.
	assert.Equal(t, models.MarkNone, markAt(matrix, "p-alice", day(2024, 1, 9)))
	// Bob's removal overlay only starts the day after removal.
	assert.Equal(t, models.MarkNone, markAt(matrix, "p-bob", day(2024, 1, 9)))
	assert.Equal(t, models.MarkRemoved, markAt(matrix, "p-bob", day(2024, 1, 10)))
}

func TestStatusServiceUnmentionedParticipantIsAbsent(t *testing.T) {
	trainings := &mockTrainingRepo{trainings: map[string]*models.Training{"t1": {ID: "t1", Name: "Onboarding"}}}
	roster := &mockRosterRepo{entries: []models.RosterEntry{activeEntry("p1", "Alice"), activeEntry("p2", "Bob")}}
	attendance := &mockAttendanceRepo{events: []models.AttendanceEvent{
		{TrainingID: "t1", Date: day(2024, 1, 8), Topic: "Intro", Present: models.PresenceMap{"p1": true}},
	}}
	svc := NewStatusService(trainings, roster, attendance, nil, zap.NewNop())

	matrix, err := svc.Build(context.Background(), "t1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MarkAbsent, markAt(matrix, "p2", day(2024, 1, 8)))
}

func TestStatusServiceNormalizesTimeZones(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	// Same instant as 2024-01-09T01:00Z: the removal day is Jan 9 in UTC.
	removedAt := time.Date(2024, 1, 8, 20, 0, 0, 0, est)
	reason := "transferred"
	bob := models.RosterEntry{
		Enrollment: models.Enrollment{
			TrainingID:    "t1",
			ParticipantID: "p-bob",
			Status:        models.EnrollmentStatusRemoved,
			RemovalReason: &reason,
			RemovedAt:     &removedAt,
		},
		ParticipantName: "Bob",
	}
	trainings := &mockTrainingRepo{trainings: map[string]*models.Training{"t1": {ID: "t1", Name: "Onboarding"}}}
	roster := &mockRosterRepo{entries: []models.RosterEntry{activeEntry("p-alice", "Alice"), bob}}
	attendance := &mockAttendanceRepo{events: []models.AttendanceEvent{{
		TrainingID: "t1",
		// Same instant as 2024-01-08T00:00Z rendered in a -05:00 session zone.
		Date:    time.Date(2024, 1, 7, 19, 0, 0, 0, est),
		Topic:   "Intro",
		Present: models.PresenceMap{"p-alice": true, "p-bob": true},
	}}}
	svc := NewStatusService(trainings, roster, attendance, nil, zap.NewNop())

	from := day(2024, 1, 8)
	to := day(2024, 1, 10)
	matrix, err := svc.Build(context.Background(), "t1", &from, &to)
	require.NoError(t, err)
	require.Len(t, matrix.Columns, 3)

	// The record lands on its UTC day, not the zone-local one.
	assert.Equal(t, models.MarkPresent, markAt(matrix, "p-alice", day(2024, 1, 8)))
	assert.Equal(t, models.MarkPresent, markAt(matrix, "p-bob", day(2024, 1, 8)))

	// Removal overlay starts strictly after the UTC removal day.
	assert.Equal(t, models.MarkNone, markAt(matrix, "p-bob", day(2024, 1, 9)))
	assert.Equal(t, models.MarkRemoved, markAt(matrix, "p-bob", day(2024, 1, 10)))
}

func TestStatusServiceBuildObservesQueryTiming(t *testing.T) {
	metrics := NewMetricsService()
	trainings := &mockTrainingRepo{trainings: map[string]*models.Training{"t1": {ID: "t1", Name: "Onboarding"}}}
	roster := &mockRosterRepo{entries: []models.RosterEntry{activeEntry("p1", "Alice")}}
	attendance := &mockAttendanceRepo{events: []models.AttendanceEvent{
		{TrainingID: "t1", Date: day(2024, 1, 8), Topic: "Intro", Present: models.PresenceMap{"p1": true}},
	}}
	svc := NewStatusService(trainings, roster, attendance, metrics, zap.NewNop())

	_, err := svc.Build(context.Background(), "t1", nil, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `db_query_duration_seconds_count{query="status_roster"} 1`)
	assert.Contains(t, body, `db_query_duration_seconds_count{query="status_attendance"} 1`)
}

func TestStatusServiceRejectsInvertedRange(t *testing.T) {
	svc := statusFixture()

	from := day(2024, 1, 10)
	to := day(2024, 1, 8)
	_, err := svc.Build(context.Background(), "t1", &from, &to)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStatusServiceNoRecords(t *testing.T) {
	trainings := &mockTrainingRepo{trainings: map[string]*models.Training{"t1": {ID: "t1", Name: "Onboarding"}}}
	svc := NewStatusService(trainings, &mockRosterRepo{}, &mockAttendanceRepo{}, nil, zap.NewNop())

	_, err := svc.Build(context.Background(), "t1", nil, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoAttendanceData.Code, appErrors.FromError(err).Code)
}

func TestStatusServiceUnknownTraining(t *testing.T) {
	svc := statusFixture()

	_, err := svc.Build(context.Background(), "missing", nil, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStatusServiceExportCSV(t *testing.T) {
	svc := statusFixture()

	result, err := svc.Export(context.Background(), "t1", nil, nil, StatusFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Contains(t, result.Filename, ".csv")

	records, err := csv.NewReader(bytes.NewReader(result.Payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Participant", records[0][0])
	assert.Equal(t, "2024-01-08 (Intro)", records[0][1])
	assert.Equal(t, []string{"Alice", "P", "P"}, records[1])
	assert.Equal(t, []string{"Bob", "P", "X"}, records[2])
}

func TestStatusServiceExportXLSX(t *testing.T) {
	svc := statusFixture()

	result, err := svc.Export(context.Background(), "t1", nil, nil, StatusFormatXLSX)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(result.Payload))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(StatusSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Bob", "P", "X"}, rows[2])
}

func TestSanitizeFilenameStripsUnsafeCharacters(t *testing.T) {
	assert.Equal(t, "On_boarding", sanitizeFilename("On\"* boarding\r\n"))
	assert.Equal(t, "a-b.cd", sanitizeFilename(`a-b.c/d`))
	assert.Equal(t, "na", sanitizeFilename(`"\`))
}

func TestStatusServiceExportFilenameIsHeaderSafe(t *testing.T) {
	trainings := &mockTrainingRepo{trainings: map[string]*models.Training{"t1": {ID: "t1", Name: "On\"board/ing; 2024"}}}
	roster := &mockRosterRepo{entries: []models.RosterEntry{activeEntry("p1", "Alice")}}
	attendance := &mockAttendanceRepo{events: []models.AttendanceEvent{
		{TrainingID: "t1", Date: day(2024, 1, 8), Topic: "Intro", Present: models.PresenceMap{"p1": true}},
	}}
	svc := NewStatusService(trainings, roster, attendance, nil, zap.NewNop())

	result, err := svc.Export(context.Background(), "t1", nil, nil, StatusFormatCSV)
	require.NoError(t, err)
	assert.NotContains(t, result.Filename, `"`)
	assert.NotContains(t, result.Filename, "/")
	assert.NotContains(t, result.Filename, ";")
	assert.Contains(t, result.Filename, "Onboarding_2024")
}

func TestStatusServiceExportUnknownFormat(t *testing.T) {
	svc := statusFixture()

	_, err := svc.Export(context.Background(), "t1", nil, nil, StatusFormat("docx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
