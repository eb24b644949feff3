// Package session holds the authenticated session of the client: the bearer
// token, the credential-presence flags reported by the backend and the
// optionally remembered login email.
//
// The Store is created once at startup, loaded from durable storage and then
// mutated only through its methods. It is safe for concurrent use.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/vid2blog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vid2blog/internal/dbx"
)

const (
	keyToken         = "token"
	keyHasHashnode   = "has_hashnode"
	keyHasGroqAPIKey = "has_groq_api_key"
	keyEmail         = "remembered_email"
)

// Flags reports which third-party credentials the backend holds for the user.
type Flags struct {
	HasHashnode   bool
	HasGroqAPIKey bool
}

type Store struct {
	mu    sync.RWMutex
	db    *sql.DB
	token string
	flags Flags
	email string

	newRepo func(dbx.DBTX) metadata.Repository
}

// NewStore returns a Store persisting into db. A nil db keeps the session in
// memory only.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
		newRepo: func(tx dbx.DBTX) metadata.Repository {
			return metadata.NewSQLiteRepository(tx)
		},
	}
}

// Load reads the persisted session. Missing keys leave the zero value.
func (s *Store) Load(ctx context.Context) error {
	if s.db == nil {
		return nil
	}

	values, err := s.newRepo(s.db).All(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = values[keyToken]
	s.email = values[keyEmail]
	s.flags = Flags{
		HasHashnode:   parseBool(values[keyHasHashnode]),
		HasGroqAPIKey: parseBool(values[keyHasGroqAPIKey]),
	}
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Flags() Flags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags
}

func (s *Store) RememberedEmail() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Save persists a freshly issued token together with the credential flags.
// Memory is only updated once the write has committed.
func (s *Store) Save(ctx context.Context, token string, flags Flags) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.inTx(ctx, func(ctx context.Context, r metadata.Repository) error {
		values := flagValues(flags)
		values[keyToken] = token
		return r.Put(ctx, values)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.token = token
	s.flags = flags
	return nil
}

// SetFlags records updated credential flags, e.g. after a profile refresh.
func (s *Store) SetFlags(ctx context.Context, flags Flags) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inTx(ctx, func(ctx context.Context, r metadata.Repository) error {
		return r.Put(ctx, flagValues(flags))
	}); err != nil {
		return fmt.Errorf("save session flags: %w", err)
	}

	s.flags = flags
	return nil
}

// Clear drops the token and flags. The remembered email survives a logout.
// The in-memory session is cleared even if the durable write fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.flags = Flags{}

	err := s.inTx(ctx, func(ctx context.Context, r metadata.Repository) error {
		return r.Remove(ctx, keyToken, keyHasHashnode, keyHasGroqAPIKey)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SetRememberedEmail stores email when remember is true and forgets any
// remembered email otherwise.
func (s *Store) SetRememberedEmail(ctx context.Context, email string, remember bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.inTx(ctx, func(ctx context.Context, r metadata.Repository) error {
		if remember {
			return r.Put(ctx, map[string]string{keyEmail: email})
		}
		return r.Remove(ctx, keyEmail)
	})
	if err != nil {
		return fmt.Errorf("remember email: %w", err)
	}

	if remember {
		s.email = email
	} else {
		s.email = ""
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(ctx context.Context, r metadata.Repository) error) error {
	if s.db == nil {
		return nil
	}
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.newRepo(tx))
	})
}

func flagValues(f Flags) map[string]string {
	return map[string]string{
		keyHasHashnode:   strconv.FormatBool(f.HasHashnode),
		keyHasGroqAPIKey: strconv.FormatBool(f.HasGroqAPIKey),
	}
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
