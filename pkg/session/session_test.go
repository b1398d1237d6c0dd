package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, appErrors.ErrStoreMiss
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user": "op", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestTokenSignedOutWhenEmpty(t *testing.T) {
	s := New(newMemoryStore(), Options{})
	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, s.Authenticated(context.Background()))
}

func TestTokenReadAtCallTime(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	s := New(store, Options{})

	require.NoError(t, s.SetToken(ctx, "opaque-1"))
	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-1", token)

	require.NoError(t, store.Set(ctx, TokenKey, []byte("opaque-2")))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-2", token)
}

func TestExpiredJWTSignsOut(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(newMemoryStore(), Options{LoginPath: "/signin", Now: func() time.Time { return now }})

	var redirected string
	s.OnSignOut(func(loginPath string) { redirected = loginPath })

	require.NoError(t, s.SetToken(ctx, signedToken(t, now.Add(-time.Minute))))
	token, err := s.Token(ctx)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
	assert.Empty(t, token)
	assert.Equal(t, "/signin", redirected)

	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestValidJWTPassesThrough(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(newMemoryStore(), Options{Now: func() time.Time { return now }})

	tok := signedToken(t, now.Add(time.Hour))
	require.NoError(t, s.SetToken(ctx, tok))
	got, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, tok, got)
}

func TestClearTokenDoesNotFireHooks(t *testing.T) {
	ctx := context.Background()
	s := New(newMemoryStore(), Options{})
	fired := false
	s.OnSignOut(func(string) { fired = true })

	require.NoError(t, s.SetToken(ctx, "abc"))
	require.NoError(t, s.ClearToken(ctx))
	assert.False(t, fired)
	assert.False(t, s.Authenticated(ctx))
}

func TestSetTokenRejectsBlank(t *testing.T) {
	s := New(newMemoryStore(), Options{})
	err := s.SetToken(context.Background(), "  ")
	require.ErrorIs(t, err, appErrors.ErrValidation)
}
