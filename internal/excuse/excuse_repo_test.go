package excuse

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockedGorm(t *testing.T) (*gorm.DB, *sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)

	mock.ExpectQuery(`select sqlite_version`).
		WillReturnRows(sqlmock.NewRows([]string{"sqlite_version()"}).AddRow("3.30.1"))
	gdb, err := gorm.Open(sqlite.Dialector{Conn: db}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	return gdb, db, mock
}

func TestRepository_WithTx_RunsOnCallerTx(t *testing.T) {
	gdb, db, mock := newMockedGorm(t)
	defer db.Close()

	repo := NewRepository(gdb)

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	// the insert rides the transaction that is already open; a nested Begin
	// here would fail the ordered expectations
	mock.ExpectExec("INSERT INTO `excuses`").WillReturnResult(sqlmock.NewResult(1, 1))
	row := &Excuse{
		ID:           uuid.New(),
		AttendanceID: uuid.New(),
		UserID:       uuid.New(),
		UserName:     "Jordan Avery",
		Date:         "2026-08-31",
		Reason:       "medical appointment",
		Status:       StatusPending,
	}
	assert.NoError(t, repo.WithTx(tx).Create(context.Background(), row))

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	gdb, db, mock := newMockedGorm(t)
	defer db.Close()

	repo := NewRepository(gdb)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `excuses`").
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
