package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainops/attendance-api/internal/models"
)

func TestAttendanceRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance").
		WithArgs(sqlmock.AnyArg(), "t1", sqlmock.AnyArg(), "intro", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.AttendanceEvent{
		TrainingID: "t1",
		Date:       time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		Topic:      "intro",
		Present:    models.PresenceMap{"p1": true, "p2": false},
	}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListByTraining(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "training_id", "date", "topic", "present", "created_at"}).
		AddRow("a1", "t1", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), "intro", []byte(`{"p1":true,"p2":false}`), time.Now())
	mock.ExpectQuery("SELECT id, training_id, date, topic, present, created_at").
		WithArgs("t1").
		WillReturnRows(rows)

	events, err := repo.ListByTraining(context.Background(), models.AttendanceFilter{TrainingID: "t1"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Present["p1"])
	assert.False(t, events[0].Present["p2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListByTrainingRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, training_id, date, topic, present, created_at").
		WithArgs("t1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "training_id", "date", "topic", "present", "created_at"}))

	events, err := repo.ListByTraining(context.Background(), models.AttendanceFilter{TrainingID: "t1", DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
