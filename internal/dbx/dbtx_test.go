package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func insert(ctx context.Context, tx DBTX) error {
	_, err := tx.ExecContext(ctx, "INSERT INTO metadata(key, value) VALUES (?, ?)", "k", "v")
	return err
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO metadata").WithArgs("k", "v").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, InTx(context.Background(), db, insert))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO metadata").WillReturnError(boom)
	mock.ExpectRollback()

	err := InTx(context.Background(), db, insert)
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_JoinsRollbackFailure(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("boom")
	lost := errors.New("connection lost")
	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(lost)

	err := InTx(context.Background(), db, func(context.Context, DBTX) error { return boom })
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, lost)
}

func TestInTx_CommitFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	err := InTx(context.Background(), db, func(context.Context, DBTX) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit tx")
}

func TestInTx_BeginFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	called := false
	err := InTx(context.Background(), db, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
	assert.False(t, called)
}

func TestInTx_RollsBackOnPanic(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT)`)
	require.NoError(t, err)

	require.Panics(t, func() {
		_ = InTx(context.Background(), db, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, insert(ctx, tx))
			panic("kaput")
		})
	})

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&n))
	assert.Zero(t, n, "panic must roll back")
}
