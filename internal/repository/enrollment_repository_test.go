package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainops/attendance-api/internal/models"
)

func TestEnrollmentRepositoryAssignSkipsDuplicates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), "t1", "p1", models.EnrollmentStatusActive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), "t1", "p2", models.EnrollmentStatusActive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	added, err := repo.Assign(context.Background(), "t1", []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryMarkRemoved(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	removedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE enrollments SET status").
		WithArgs("t1", "p1", models.EnrollmentStatusActive, models.EnrollmentStatusRemoved, "left program", removedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkRemoved(context.Background(), "t1", "p1", "left program", removedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryMarkRemovedMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	removedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE enrollments SET status").
		WithArgs("t1", "p9", models.EnrollmentStatusActive, models.EnrollmentStatusRemoved, "gone", removedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRemoved(context.Background(), "t1", "p9", "gone", removedAt)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
