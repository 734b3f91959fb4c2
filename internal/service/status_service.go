package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/trainops/attendance-api/internal/models"
	appErrors "github.com/trainops/attendance-api/pkg/errors"
	"github.com/trainops/attendance-api/pkg/export"
)

// StatusSheetName is the sheet every XLSX status export is written to.
const StatusSheetName = "Attendance"

// StatusFormat selects the export rendering.
type StatusFormat string

const (
	StatusFormatCSV  StatusFormat = "csv"
	StatusFormatXLSX StatusFormat = "xlsx"
	StatusFormatPDF  StatusFormat = "pdf"
)

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type titledRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// StatusExport carries a rendered status matrix file.
type StatusExport struct {
	Payload     []byte
	Filename    string
	ContentType string
}

// StatusService derives the participant × date presence matrix. It is a
// pure read: the same stored data always yields the same matrix.
type StatusService struct {
	trainings  trainingRepository
	roster     rosterRepository
	attendance attendanceRepository
	metrics    *MetricsService
	csv        datasetRenderer
	xlsx       datasetRenderer
	pdf        titledRenderer
	logger     *zap.Logger
}

// NewStatusService constructs the status reporter. metrics may be nil.
func NewStatusService(trainings trainingRepository, roster rosterRepository, attendance attendanceRepository, metrics *MetricsService, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{
		trainings:  trainings,
		roster:     roster,
		attendance: attendance,
		metrics:    metrics,
		csv:        export.NewCSVExporter(),
		xlsx:       export.NewExcelExporter(StatusSheetName),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// dayRecord is the merged view of every attendance event for one date.
type dayRecord struct {
	topic   string
	present map[string]bool
}

// Build assembles the status matrix for a training.
//
// With an explicit range the date axis is every calendar day in [from, to];
// without one it is the distinct set of recorded dates. Cells default to
// absent, flip to present when any record for the date marks the
// participant present (duplicates merge with logical OR), render "-" for
// axis days that have no record at all, and are overwritten with the
// removed marker for every day strictly after the participant's removal —
// that overlay runs last and wins over anything a record says.
func (s *StatusService) Build(ctx context.Context, trainingID string, from, to *time.Time) (*models.StatusMatrix, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must not be after end date")
	}

	training, err := s.trainings.FindByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "training not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training")
	}

	// Active and removed enrollments both report; removed participants keep
	// their pre-removal history.
	queryStart := time.Now()
	roster, err := s.roster.Roster(ctx, trainingID)
	s.metrics.ObserveDBQuery("status_roster", time.Since(queryStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	queryStart = time.Now()
	events, err := s.attendance.ListByTraining(ctx, models.AttendanceFilter{TrainingID: trainingID, DateFrom: from, DateTo: to})
	s.metrics.ObserveDBQuery("status_attendance", time.Since(queryStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if len(events) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoAttendanceData, "no attendance records for this training")
	}

	days := mergeEvents(events)
	axis := buildDateAxis(events, from, to)

	columns := make([]models.StatusColumn, 0, len(axis))
	for _, day := range axis {
		column := models.StatusColumn{Date: day}
		if record, ok := days[dayKey(day)]; ok {
			column.Topic = record.topic
		}
		columns = append(columns, column)
	}

	rows := make([]models.StatusRow, 0, len(roster))
	for _, entry := range roster {
		row := models.StatusRow{
			ParticipantID:   entry.ParticipantID,
			ParticipantName: entry.ParticipantName,
			Removed:         entry.Status == models.EnrollmentStatusRemoved,
			RemovedAt:       entry.RemovedAt,
			Marks:           make([]models.StatusMark, len(axis)),
		}
		for i, day := range axis {
			mark := models.MarkNone
			if record, ok := days[dayKey(day)]; ok {
				if record.present[entry.ParticipantID] {
					mark = models.MarkPresent
				} else {
					mark = models.MarkAbsent
				}
			}
			if entry.RemovedAt != nil && truncateDay(day).After(truncateDay(*entry.RemovedAt)) {
				mark = models.MarkRemoved
			}
			row.Marks[i] = mark
		}
		rows = append(rows, row)
	}

	return &models.StatusMatrix{
		TrainingID:   training.ID,
		TrainingName: training.Name,
		Columns:      columns,
		Rows:         rows,
	}, nil
}

// Export renders the matrix in the requested format.
func (s *StatusService) Export(ctx context.Context, trainingID string, from, to *time.Time, format StatusFormat) (*StatusExport, error) {
	matrix, err := s.Build(ctx, trainingID, from, to)
	if err != nil {
		return nil, err
	}

	dataset := BuildStatusDataset(matrix)
	base := fmt.Sprintf("status_%s_%s", sanitizeFilename(matrix.TrainingName), time.Now().UTC().Format("20060102_150405"))

	switch format {
	case StatusFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &StatusExport{Payload: payload, Filename: base + ".csv", ContentType: "text/csv"}, nil
	case StatusFormatXLSX:
		payload, err := s.xlsx.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render xlsx")
		}
		return &StatusExport{Payload: payload, Filename: base + ".xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}, nil
	case StatusFormatPDF:
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("Attendance %s", matrix.TrainingName))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &StatusExport{Payload: payload, Filename: base + ".pdf", ContentType: "application/pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// BuildStatusDataset flattens a matrix into tabular export content.
func BuildStatusDataset(matrix *models.StatusMatrix) export.Dataset {
	headers := make([]string, 0, len(matrix.Columns)+1)
	headers = append(headers, "Participant")
	for _, column := range matrix.Columns {
		headers = append(headers, column.Label())
	}

	rows := make([]map[string]string, 0, len(matrix.Rows))
	for _, row := range matrix.Rows {
		record := make(map[string]string, len(headers))
		record["Participant"] = row.ParticipantName
		for i, column := range matrix.Columns {
			record[column.Label()] = string(row.Marks[i])
		}
		rows = append(rows, record)
	}

	return export.Dataset{Headers: headers, Rows: rows}
}

// mergeEvents folds duplicate records for the same date: presence merges
// with logical OR and the latest non-empty topic wins. Events arrive
// ordered by date then insertion time.
func mergeEvents(events []models.AttendanceEvent) map[string]*dayRecord {
	days := make(map[string]*dayRecord)
	for _, event := range events {
		key := dayKey(event.Date)
		record, ok := days[key]
		if !ok {
			record = &dayRecord{present: make(map[string]bool)}
			days[key] = record
		}
		if topic := strings.TrimSpace(event.Topic); topic != "" {
			record.topic = topic
		}
		for participantID, present := range event.Present {
			if present {
				record.present[participantID] = true
			} else if _, seen := record.present[participantID]; !seen {
				record.present[participantID] = false
			}
		}
	}
	return days
}

func buildDateAxis(events []models.AttendanceEvent, from, to *time.Time) []time.Time {
	if from != nil && to != nil {
		axis := make([]time.Time, 0)
		for day := truncateDay(*from); !day.After(truncateDay(*to)); day = day.AddDate(0, 0, 1) {
			axis = append(axis, day)
		}
		return axis
	}

	seen := make(map[string]struct{})
	axis := make([]time.Time, 0, len(events))
	for _, event := range events {
		key := dayKey(event.Date)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		axis = append(axis, truncateDay(event.Date))
	}
	return axis
}

// dayKey and truncateDay normalize to UTC first: the store hands back
// timestamptz values rendered in the session zone, and a zone-local format
// would shift a record onto the wrong calendar day.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// sanitizeFilename keeps only characters safe inside a quoted
// Content-Disposition filename.
func sanitizeFilename(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result == "" {
		return "na"
	}
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
