package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"estate-admin/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Page  int      `json:"page"`
	Names []string `json:"names"`
}

func newSnapshots(t *testing.T) (*RedisSnapshots, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSnapshots(client, "estate-admin", time.Hour), mr
}

func TestRedisSnapshots_SaveLoad(t *testing.T) {
	s, mr := newSnapshots(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "franchisee", snapshot{Page: 2, Names: []string{"a", "b"}}))
	assert.True(t, mr.Exists("estate-admin:snapshot:franchisee"))
	assert.Equal(t, time.Hour, mr.TTL("estate-admin:snapshot:franchisee"))

	var got snapshot
	found, err := s.Load(ctx, "franchisee", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, snapshot{Page: 2, Names: []string{"a", "b"}}, got)
}

func TestRedisSnapshots_Missing(t *testing.T) {
	s, _ := newSnapshots(t)

	var got snapshot
	found, err := s.Load(context.Background(), "nothing", &got)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisSnapshots_Delete(t *testing.T) {
	s, mr := newSnapshots(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "coupons", snapshot{Page: 1}))
	require.NoError(t, s.Delete(ctx, "coupons"))
	assert.False(t, mr.Exists("estate-admin:snapshot:coupons"))
}

func TestRedisSnapshots_SaveFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisSnapshots(&RedisClient{Client: db}, "estate-admin", time.Minute)

	mock.ExpectSet("estate-admin:snapshot:coupons", []byte(`{"page":1,"names":null}`), time.Minute).
		SetErr(errors.New("READONLY You can't write against a read only replica"))

	err := s.Save(context.Background(), "coupons", snapshot{Page: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save snapshot coupons")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSnapshots_LoadFailureIsNotMissing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisSnapshots(&RedisClient{Client: db}, "estate-admin", time.Minute)

	mock.ExpectGet("estate-admin:snapshot:franchisee").SetErr(errors.New("connection reset by peer"))
	mock.ExpectGet("estate-admin:snapshot:franchisee").SetVal("not json")

	var got snapshot
	found, err := s.Load(context.Background(), "franchisee", &got)
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "load snapshot franchisee")

	found, err = s.Load(context.Background(), "franchisee", &got)
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "decode snapshot franchisee")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestLocal_SetGet(t *testing.T) {
	l, err := NewLocal(1 << 20)
	require.NoError(t, err)
	defer l.Close()
	ctx := context.Background()

	require.NoError(t, l.Set(ctx, "districts", []string{"Pune", "Nashik"}, time.Minute))

	var got []string
	found, err := l.Get(ctx, "districts", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Pune", "Nashik"}, got)

	l.Delete(ctx, "districts")
	found, err = l.Get(ctx, "districts", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
