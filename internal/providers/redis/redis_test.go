package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProvider(t *testing.T) (*RedisProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	p := NewRedisProvider(mr.Addr(), zap.NewNop(), time.Minute)
	t.Cleanup(func() { _ = p.Close() })
	return p, mr
}

func TestRedisProvider_JSONRoundTrip(t *testing.T) {
	p, mr := newTestProvider(t)
	ctx := context.Background()

	stored, err := p.SetJSONIfGeneration(ctx, "plans:board:a", []string{"x", "y"}, "plans:gen:a", "")
	require.NoError(t, err)
	require.True(t, stored)

	var got []string
	require.NoError(t, p.GetJSON(ctx, "plans:board:a", &got))
	assert.Equal(t, []string{"x", "y"}, got)

	mr.FastForward(2 * time.Minute)
	err = p.GetJSON(ctx, "plans:board:a", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisProvider_Del(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	_, err := p.SetJSONIfGeneration(ctx, "k", 1, "k:gen", "")
	require.NoError(t, err)
	require.NoError(t, p.Del(ctx, "k").Err())

	var v int
	assert.ErrorIs(t, p.GetJSON(ctx, "k", &v), ErrCacheMiss)
}

func TestRedisProvider_SetJSONIfGeneration(t *testing.T) {
	p, mr := newTestProvider(t)
	ctx := context.Background()

	gen, err := p.Generation(ctx, "plans:gen:a")
	require.NoError(t, err)
	assert.Equal(t, "", gen)

	require.NoError(t, p.Incr(ctx, "plans:gen:a").Err())

	stored, err := p.SetJSONIfGeneration(ctx, "plans:board:a", []string{"old"}, "plans:gen:a", gen)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("plans:board:a"))

	gen, err = p.Generation(ctx, "plans:gen:a")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	stored, err = p.SetJSONIfGeneration(ctx, "plans:board:a", []string{"new"}, "plans:gen:a", gen)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists("plans:board:a"))
}

func TestRedisProvider_PublishSubscribe(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 1)
	ready := p.Subscribe(ctx, "plans:changes", func(payload []byte) {
		got <- string(payload)
	})
	<-ready

	require.NoError(t, p.Publish(ctx, "plans:changes", []byte(`{"type":"INSERT"}`)))

	select {
	case msg := <-got:
		assert.JSONEq(t, `{"type":"INSERT"}`, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no message relayed")
	}
}
