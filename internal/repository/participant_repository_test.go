package repository

import (
	"context"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainops/attendance-api/internal/models"
)

func TestParticipantRepositoryBulkInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	mock.ExpectBegin()
	for i := 0; i < 3; i++ {
		mock.ExpectExec("INSERT INTO participants").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	participants := []models.Participant{
		{Name: "Alice", Email: "alice@example.com", Phone: "111"},
		{Name: "Bob", Email: "bob@example.com", Phone: "222"},
		{Name: "Cara", Email: "cara@example.com", Phone: "333"},
	}
	require.NoError(t, repo.BulkInsert(context.Background(), participants))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepositoryBulkInsertRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO participants").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO participants").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("duplicate key"))
	mock.ExpectRollback()

	participants := []models.Participant{
		{Name: "Alice", Email: "alice@example.com", Phone: "111"},
		{Name: "Alice", Email: "alice@example.com", Phone: "111"},
	}
	require.Error(t, repo.BulkInsert(context.Background(), participants))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepositoryExistsByName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Alice", "").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByName(context.Background(), "Alice", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
