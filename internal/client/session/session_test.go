package session

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vid2blog/internal/client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	db, err := storage.InitDatabase(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func reopen(t *testing.T, path string) *Store {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := NewStore(db)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestStore_SaveSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	db, path := openDB(t)

	s := NewStore(db)
	require.NoError(t, s.Load(ctx))
	require.Empty(t, s.Token())

	require.NoError(t, s.Save(ctx, "T1", Flags{HasHashnode: true}))
	require.NoError(t, db.Close())

	restored := reopen(t, path)
	assert.Equal(t, "T1", restored.Token())
	assert.Equal(t, Flags{HasHashnode: true}, restored.Flags())
}

func TestStore_ClearKeepsRememberedEmail(t *testing.T) {
	ctx := context.Background()
	db, path := openDB(t)

	s := NewStore(db)
	require.NoError(t, s.SetRememberedEmail(ctx, "a@b.com", true))
	require.NoError(t, s.Save(ctx, "T1", Flags{HasHashnode: true, HasGroqAPIKey: true}))
	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Token())
	assert.Equal(t, Flags{}, s.Flags())
	assert.Equal(t, "a@b.com", s.RememberedEmail())

	require.NoError(t, db.Close())
	restored := reopen(t, path)
	assert.Empty(t, restored.Token())
	assert.Equal(t, "a@b.com", restored.RememberedEmail())
}

func TestStore_ForgetEmail(t *testing.T) {
	ctx := context.Background()
	db, _ := openDB(t)

	s := NewStore(db)
	require.NoError(t, s.SetRememberedEmail(ctx, "a@b.com", true))
	require.NoError(t, s.SetRememberedEmail(ctx, "a@b.com", false))
	assert.Empty(t, s.RememberedEmail())
}

func TestStore_SetFlags(t *testing.T) {
	ctx := context.Background()
	db, path := openDB(t)

	s := NewStore(db)
	require.NoError(t, s.Save(ctx, "T1", Flags{}))
	require.NoError(t, s.SetFlags(ctx, Flags{HasGroqAPIKey: true}))
	require.NoError(t, db.Close())

	restored := reopen(t, path)
	assert.Equal(t, "T1", restored.Token())
	assert.Equal(t, Flags{HasGroqAPIKey: true}, restored.Flags())
}

func TestStore_MemoryOnly(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.Save(ctx, "T1", Flags{}))
	assert.Equal(t, "T1", s.Token())
	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Token())
}

func TestStore_SaveFailureLeavesMemoryUntouched(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO metadata`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := NewStore(db)
	err = s.Save(context.Background(), "T1", Flags{HasHashnode: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
	assert.Empty(t, s.Token())
	assert.Equal(t, Flags{}, s.Flags())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ClearFailureStillClearsMemory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO metadata`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO metadata`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO metadata`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM metadata`).WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	s := NewStore(db)
	require.NoError(t, s.Save(context.Background(), "T1", Flags{}))
	require.Error(t, s.Clear(context.Background()))
	assert.Empty(t, s.Token())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	db, _ := openDB(t)
	s := NewStore(db)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Save(ctx, "T", Flags{HasHashnode: true})
		}()
		go func() {
			defer wg.Done()
			_ = s.Token()
			_ = s.Flags()
		}()
	}
	wg.Wait()
	assert.Equal(t, "T", s.Token())
}
