package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewStore(rdb)
}

func TestStore_Aside(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "ghazal", Count: calls}
			return nil
		}
	}

	var first payload
	hit, err := store.Aside(ctx, "k", &first, time.Minute, fetch(&first))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, first.Count)

	var second payload
	hit, err = store.Aside(ctx, "k", &second, time.Minute, fetch(&second))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	mr.FastForward(2 * time.Minute)
	var third payload
	hit, err = store.Aside(ctx, "k", &third, time.Minute, fetch(&third))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, third.Count)
}

func TestStore_AsidePropagatesFetchError(t *testing.T) {
	_, store := newStore(t)
	var dest payload
	_, err := store.Aside(context.Background(), "k", &dest, time.Minute, func() error {
		return errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
}

func TestStore_AsideDegradesWhenRedisFails(t *testing.T) {
	mr, store := newStore(t)
	mr.Close()

	var dest payload
	hit, err := store.Aside(context.Background(), "k", &dest, time.Minute, func() error {
		dest.Name = "direct"
		return nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "direct", dest.Name)
}

func TestStore_Invalidate(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, AdminStatsKey, payload{Name: "x"}, time.Minute))
	require.NoError(t, store.SetJSON(ctx, UserStatsKey(3), payload{Name: "y"}, time.Minute))
	store.Invalidate(ctx, AdminStatsKey, UserStatsKey(3))

	assert.False(t, mr.Exists(AdminStatsKey))
	assert.False(t, mr.Exists("stats:user:3"))
}

func TestStore_NilClientIsNoop(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	found, err := store.GetJSON(ctx, "k", &payload{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, store.SetJSON(ctx, "k", payload{}, time.Minute))
	store.Invalidate(ctx, "k")

	exists, err := store.Exists(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, store.Client())
}

func TestStore_Markers(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.MarkWithTTL(ctx, RevokedTokenKey("abc"), time.Hour))
	exists, err := store.Exists(ctx, RevokedTokenKey("abc"))
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, mr.TTL("revoked:abc") > 0)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb := Connect(mr.Addr())
	require.NotNil(t, rdb)
	assert.Equal(t, dialTimeout, rdb.Options().DialTimeout)
	assert.Equal(t, ioTimeout, rdb.Options().ReadTimeout)
	assert.Equal(t, 1, rdb.Options().MaxRetries)
	_ = rdb.Close()

	rdb = Connect("redis://" + mr.Addr() + "/0?dial_timeout=3s")
	require.NotNil(t, rdb)
	assert.Equal(t, 3*time.Second, rdb.Options().DialTimeout)
	assert.Equal(t, ioTimeout, rdb.Options().WriteTimeout)
	_ = rdb.Close()

	assert.Nil(t, Connect(""))
	assert.Nil(t, Connect("redis://%zz"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "typeahead:all:gha", TypeaheadKey("all", "GHA"))
	assert.Equal(t, "stats:user:9", UserStatsKey(9))
}
