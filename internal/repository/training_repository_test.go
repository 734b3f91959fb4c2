package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainops/attendance-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTrainingRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainingRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "trainer_name", "description", "start_date", "days", "created_at", "updated_at"}).
		AddRow("1", "Onboarding", "Jamie", "intro", time.Now(), pq.StringArray{"Monday", "Wednesday"}, time.Now(), time.Now())
	mock.ExpectQuery("SELECT t.id, t.name, t.trainer_name").WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	trainings, total, err := repo.List(context.Background(), models.TrainingFilter{})
	require.NoError(t, err)
	assert.Len(t, trainings, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Onboarding", trainings[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainingRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainingRepository(db)

	mock.ExpectExec("INSERT INTO trainings").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	training := &models.Training{Name: "Onboarding", TrainerName: "Jamie", StartDate: time.Now(), Days: pq.StringArray{"Monday"}}
	err := repo.Create(context.Background(), training)
	require.NoError(t, err)
	assert.NotEmpty(t, training.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainingRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainingRepository(db)

	mock.ExpectExec("DELETE FROM trainings").WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
