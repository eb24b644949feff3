package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/dashboard"
	"github.com/dmitrijs2005/vid2blog/internal/client/session"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
)

// AccountService covers the signed-in user's profile, stored credentials and
// conversion history.
type AccountService interface {
	Profile(ctx context.Context) (api.Profile, error)
	SaveCredential(ctx context.Context, kind dashboard.Credential, value string) error
	History(ctx context.Context) ([]api.HistoryEntry, error)
}

type accountService struct {
	client api.Client
	store  *session.Store
	log    logging.Logger
}

func NewAccountService(client api.Client, store *session.Store, log logging.Logger) AccountService {
	return &accountService{client: client, store: store, log: log}
}

// Profile fetches /user/me. Failures are only logged here; callers keep the
// previous snapshot. Credential flags reported by the backend are stored.
func (s *accountService) Profile(ctx context.Context) (api.Profile, error) {
	p, err := s.client.Me(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to fetch user info", "error", err)
		return api.Profile{}, err
	}

	cur := s.store.Flags()
	next := session.Flags{
		HasHashnode:   cur.HasHashnode || p.HasHashnode,
		HasGroqAPIKey: cur.HasGroqAPIKey || p.HasGroqAPIKey,
	}
	if next != cur && s.store.Token() != "" {
		if err := s.store.SetFlags(ctx, next); err != nil {
			s.log.Warn(ctx, "could not store credential flags", "error", err)
		}
	}
	return p, nil
}

func (s *accountService) SaveCredential(ctx context.Context, kind dashboard.Credential, value string) error {
	var err error
	switch kind {
	case dashboard.Hashnode:
		err = s.client.SaveHashnodeToken(ctx, value)
	case dashboard.Groq:
		err = s.client.SaveGroqAPIKey(ctx, value)
	default:
		return errors.New("unknown credential")
	}
	if err != nil {
		s.log.Info(ctx, "credential save failed", "kind", kind.String(), "error", err)
		return err
	}

	flags := s.store.Flags()
	if kind == dashboard.Hashnode {
		flags.HasHashnode = true
	} else {
		flags.HasGroqAPIKey = true
	}
	if err := s.store.SetFlags(ctx, flags); err != nil {
		s.log.Warn(ctx, "could not store credential flags", "error", err)
	}
	s.log.Info(ctx, "credential saved", "kind", kind.String())
	return nil
}

func (s *accountService) History(ctx context.Context) ([]api.HistoryEntry, error) {
	entries, err := s.client.History(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to load history", "error", err)
		return nil, err
	}
	return entries, nil
}
