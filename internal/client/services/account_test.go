package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/dashboard"
	"github.com/dmitrijs2005/vid2blog/internal/client/session"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(t *testing.T, fc *fakeClient) (AccountService, *session.Store) {
	t.Helper()
	r := newRouter(t)
	require.NoError(t, r.Login(context.Background(), "T1", session.Flags{}))
	return NewAccountService(fc, r.Session(), logging.Nop()), r.Session()
}

func TestSaveCredential_RoutesByKind(t *testing.T) {
	fc := &fakeClient{}
	svc, store := signedIn(t, fc)
	ctx := context.Background()

	require.NoError(t, svc.SaveCredential(ctx, dashboard.Hashnode, "pat"))
	require.NoError(t, svc.SaveCredential(ctx, dashboard.Groq, "key"))

	assert.Equal(t, "pat", fc.LastHashnodeSave)
	assert.Equal(t, "key", fc.LastGroqSave)
	assert.Equal(t, session.Flags{HasHashnode: true, HasGroqAPIKey: true}, store.Flags())
}

func TestSaveCredential_ErrorLeavesFlags(t *testing.T) {
	fc := &fakeClient{SaveGroqErr: &api.Error{Status: 400, Message: "bad key"}}
	svc, store := signedIn(t, fc)

	err := svc.SaveCredential(context.Background(), dashboard.Groq, "k")
	require.Error(t, err)
	assert.Equal(t, "bad key", api.Message(err, ""))
	assert.False(t, store.Flags().HasGroqAPIKey)
}

func TestProfile_MergesFlags(t *testing.T) {
	fc := &fakeClient{MeRet: api.Profile{HasHashnode: true, MonthlyMinutesUsed: 12}}
	svc, store := signedIn(t, fc)

	p, err := svc.Profile(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 12.0, p.MonthlyMinutesUsed, 1e-9)
	assert.True(t, store.Flags().HasHashnode)
}

func TestProfile_Error(t *testing.T) {
	fc := &fakeClient{MeErr: errors.New("x")}
	svc, _ := signedIn(t, fc)
	_, err := svc.Profile(context.Background())
	require.Error(t, err)
}

func TestHistory(t *testing.T) {
	fc := &fakeClient{HistoryRet: []api.HistoryEntry{{ID: "1"}}}
	svc, _ := signedIn(t, fc)

	got, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	fc.HistoryErr = errors.New("x")
	_, err = svc.History(context.Background())
	require.Error(t, err)
}
