package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketflow/internal/shared/goroutine"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

const ticketEventChannel = "ticketflow:ticket:events"

// TicketEventMessage is the wire form of one committed flow event.
type TicketEventMessage struct {
	TicketSID  string          `json:"ticket_sid"`
	ItemSID    string          `json:"item_sid,omitempty"`
	StepSID    string          `json:"step_sid,omitempty"`
	ActorID    string          `json:"actor_id"`
	Kind       string          `json:"kind"`
	Comment    string          `json:"comment,omitempty"`
	Value      json.RawMessage `json:"value,omitempty"`
	OccurredAt int64           `json:"occurred_at"`
	InstanceID string          `json:"instance_id,omitempty"`
}

// RedisTicketEventBus publishes and subscribes to ticket events using Redis Pub/Sub.
type RedisTicketEventBus struct {
	client     *redis.Client
	logger     logger.Interface
	instanceID string
}

func NewRedisTicketEventBus(client *redis.Client, logger logger.Interface) *RedisTicketEventBus {
	return &RedisTicketEventBus{
		client:     client,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// InstanceID identifies messages published by this process.
func (b *RedisTicketEventBus) InstanceID() string {
	return b.instanceID
}

// PublishTicketEvents sends each event as its own message, in order.
func (b *RedisTicketEventBus) PublishTicketEvents(ctx context.Context, ticketSID string, events []ticket.FlowEvent) error {
	for _, e := range events {
		msg, err := b.toMessage(e)
		if err != nil {
			return err
		}
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal ticket event: %w", err)
		}

		if err := b.client.Publish(ctx, ticketEventChannel, data).Err(); err != nil {
			b.logger.Errorw("failed to publish ticket event",
				"ticket_sid", ticketSID,
				"kind", e.Kind,
				"error", err,
			)
			return fmt.Errorf("failed to publish ticket event: %w", err)
		}
	}

	b.logger.Debugw("ticket events published to Redis",
		"ticket_sid", ticketSID,
		"count", len(events),
	)
	return nil
}

func (b *RedisTicketEventBus) toMessage(e ticket.FlowEvent) (*TicketEventMessage, error) {
	value, err := mappers.EncodeFlowValue(e.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event value: %w", err)
	}
	return &TicketEventMessage{
		TicketSID:  e.TicketSID,
		ItemSID:    e.ItemSID,
		StepSID:    e.StepSID,
		ActorID:    e.ActorID,
		Kind:       string(e.Kind),
		Comment:    e.Comment,
		Value:      json.RawMessage(value),
		OccurredAt: e.OccurredAt.UnixMilli(),
		InstanceID: b.instanceID,
	}, nil
}

// SubscribeTicketEvents blocks until ctx is done, reconnecting on failures.
// Handlers run one at a time in arrival order.
func (b *RedisTicketEventBus) SubscribeTicketEvents(ctx context.Context, handler func(msg TicketEventMessage)) error {
	return b.subscribeWithReconnect(ctx, ticketEventChannel, func(payload string) {
		var msg TicketEventMessage
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			b.logger.Warnw("failed to unmarshal ticket event",
				"payload", payload,
				"error", err,
			)
			return
		}
		handler(msg)
	})
}

func (b *RedisTicketEventBus) subscribeWithReconnect(ctx context.Context, channel string, handler func(payload string)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, channel, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("ticket event subscription disconnected, reconnecting",
			"channel", channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisTicketEventBus) subscribe(ctx context.Context, channel string, handler func(payload string)) error {
	sub := b.client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	b.logger.Infow("subscribed to ticket event channel", "channel", channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("ticket event subscriber stopped",
				"channel", channel,
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("ticket event channel closed", "channel", channel)
				return nil
			}

			// A panicking handler must not take the subscriber down.
			if err := <-goroutine.Go(b.logger, "ticket-event-handler", func() error {
				handler(msg.Payload)
				return nil
			}); err != nil {
				b.logger.Warnw("ticket event handler failed", "error", err)
			}
		}
	}
}
