package plan

import (
	"context"
	"testing"
	"time"

	"wishboard/internal/providers/redis"
	"wishboard/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testChannel = "plans:changes"

func newRelay(t *testing.T) (*miniredis.Miniredis, *redis.RedisProvider, <-chan utils.Event) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisP := redis.NewRedisProvider(mr.Addr(), zap.NewNop(), time.Minute)
	t.Cleanup(func() { _ = redisP.Close() })

	bus := utils.NewEventBus()
	events, cancelSub := bus.SubscribeCh()
	t.Cleanup(cancelSub)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	<-RelayChanges(ctx, redisP, testChannel, bus, zap.NewNop())

	return mr, redisP, events
}

func nextChange(t *testing.T, events <-chan utils.Event) Change {
	t.Helper()
	select {
	case e := <-events:
		assert.Equal(t, EventPlansChanged, e.Event)
		change, ok := e.Data.(Change)
		require.True(t, ok, "unexpected payload %T", e.Data)
		return change
	case <-time.After(2 * time.Second):
		t.Fatal("no change relayed")
	}
	return Change{}
}

func TestRedisNotifier_RelaysToBus(t *testing.T) {
	_, redisP, events := newRelay(t)
	fallback := &recordingNotifier{}
	n := NewRedisNotifier(redisP, testChannel, fallback, zap.NewNop())

	n.Notify(context.Background(), Change{
		Type:      ChangeInsert,
		Table:     TableName,
		BoardSlug: "itxi",
		ID:        "p1",
		Timestamp: 1700000000,
	})

	got := nextChange(t, events)
	assert.Equal(t, ChangeInsert, got.Type)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "itxi", got.BoardSlug)
	assert.Empty(t, fallback.all())
}

func TestRedisNotifier_FallsBackWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	redisP := redis.NewRedisProvider(mr.Addr(), zap.NewNop(), time.Minute)
	t.Cleanup(func() { _ = redisP.Close() })
	mr.Close()

	fallback := &recordingNotifier{}
	n := NewRedisNotifier(redisP, testChannel, fallback, zap.NewNop())
	n.Notify(context.Background(), Change{Type: ChangeDelete, Table: TableName, BoardSlug: "itxi", ID: "p2"})

	changes := fallback.all()
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeDelete, changes[0].Type)
	assert.Equal(t, "p2", changes[0].ID)
}

func TestRelayChanges_DropsMalformedPayload(t *testing.T) {
	mr, _, events := newRelay(t)

	mr.Publish(testChannel, "not json")
	mr.Publish(testChannel, `{"type":"UPDATE","table":"plans","board_slug":"itxi","id":"p3","timestamp":1}`)

	got := nextChange(t, events)
	assert.Equal(t, ChangeUpdate, got.Type)
	assert.Equal(t, "p3", got.ID)

	select {
	case e := <-events:
		t.Fatalf("unexpected extra event %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}
