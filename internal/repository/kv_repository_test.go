package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, "permits:", ttl, nil)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	ctx := context.Background()

	_, err := store.Get(ctx, "token")
	require.ErrorIs(t, err, appErrors.ErrStoreMiss)

	require.NoError(t, store.Set(ctx, "token", []byte("abc")))
	assert.True(t, mr.Exists("permits:token"))

	got, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	require.NoError(t, store.Delete(ctx, "token"))
	_, err = store.Get(ctx, "token")
	require.ErrorIs(t, err, appErrors.ErrStoreMiss)
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, DraftKey, []byte("{}")))
	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, DraftKey)
	require.ErrorIs(t, err, appErrors.ErrStoreMiss)
}

func TestRedisStoreWithoutClient(t *testing.T) {
	store := NewRedisStore(nil, "", 0, nil)
	_, err := store.Get(context.Background(), "x")
	require.ErrorIs(t, err, appErrors.ErrStoreMiss)
	require.NoError(t, store.Set(context.Background(), "x", []byte("y")))
}

func TestDraftRepositoryRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	drafts := NewDraftRepository(store)
	ctx := context.Background()

	var form models.PermitForm
	require.ErrorIs(t, drafts.Load(ctx, &form), appErrors.ErrStoreMiss)

	saved := models.NewPermitForm()
	saved.FirstName = "Jane"
	require.NoError(t, drafts.Save(ctx, saved))
	require.NoError(t, drafts.Load(ctx, &form))
	assert.Equal(t, saved, form)

	require.NoError(t, drafts.Clear(ctx))
	require.ErrorIs(t, drafts.Load(ctx, &form), appErrors.ErrStoreMiss)
}
