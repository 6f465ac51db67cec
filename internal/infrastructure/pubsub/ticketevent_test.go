package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

func setupBus(t *testing.T) (*RedisTicketEventBus, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTicketEventBus(client, logger.NewNop()), mr
}

func TestRedisTicketEventBus_PublishSubscribe(t *testing.T) {
	bus, mr := setupBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan TicketEventMessage, 4)
	done := make(chan error, 1)
	go func() {
		done <- bus.SubscribeTicketEvents(ctx, func(msg TicketEventMessage) {
			received <- msg
		})
	}()

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(ticketEventChannel)[ticketEventChannel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []ticket.FlowEvent{
		{TicketSID: "tkt_1", ItemSID: "itm_1", StepSID: "step_form", ActorID: "usr_a", Kind: ticket.EventSubmitted, OccurredAt: at},
		{TicketSID: "tkt_1", ItemSID: "itm_2", StepSID: "step_review", ActorID: "usr_b", Kind: ticket.EventRejected,
			Comment: "missing team", Value: ticket.ReviewValue{Approved: false, Comment: "missing team"}, OccurredAt: at},
	}
	require.NoError(t, bus.PublishTicketEvents(ctx, "tkt_1", events))

	first := <-received
	second := <-received
	assert.Equal(t, "submitted", first.Kind)
	assert.Equal(t, "step_form", first.StepSID)
	assert.Empty(t, first.Value)
	assert.Equal(t, at.UnixMilli(), first.OccurredAt)
	assert.Equal(t, bus.InstanceID(), first.InstanceID)

	assert.Equal(t, "rejected", second.Kind)
	assert.Equal(t, "missing team", second.Comment)
	assert.Contains(t, string(second.Value), `"comment":"missing team"`)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestRedisTicketEventBus_PublishFailsWhenRedisDown(t *testing.T) {
	bus, mr := setupBus(t)
	mr.Close()

	err := bus.PublishTicketEvents(context.Background(), "tkt_1", []ticket.FlowEvent{
		{TicketSID: "tkt_1", Kind: ticket.EventCreated, OccurredAt: time.Now()},
	})
	assert.Error(t, err)
}
