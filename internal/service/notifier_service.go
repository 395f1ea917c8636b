package service

import (
	"context"
	"encoding/json"

	"routine-advisor-be/internal/pkg/logger"
	"routine-advisor-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// ChangeDelivery pushes a serialized event to a profile's live connections.
type ChangeDelivery interface {
	Send(profileID uuid.UUID, payload []byte)
}

// EventExporter forwards events outside the process (NATS).
type EventExporter interface {
	Publish(ctx context.Context, event events.Event) error
}

type INotifierService interface {
	Consume(ctx context.Context) error
}

type notifierService struct {
	subscriber message.Subscriber
	topicName  string
	delivery   ChangeDelivery
	exporter   EventExporter
	logger     logger.ILogger
}

// NewNotifierService fans bus events out to websocket clients and, when exporter is non-nil,
// to the external event stream.
func NewNotifierService(
	subscriber message.Subscriber,
	topicName string,
	delivery ChangeDelivery,
	exporter EventExporter,
	log logger.ILogger,
) INotifierService {
	return &notifierService{
		subscriber: subscriber,
		topicName:  topicName,
		delivery:   delivery,
		exporter:   exporter,
		logger:     log,
	}
}

func (ns *notifierService) Consume(ctx context.Context) error {
	messages, err := ns.subscriber.Subscribe(ctx, ns.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ns.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ns *notifierService) processMessage(ctx context.Context, msg *message.Message) {
	// Notifications are best effort: every message is acked, even malformed ones
	defer msg.Ack()

	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		ns.logger.Warn("Notifier", "Dropping malformed change event", map[string]interface{}{"error": err.Error()})
		return
	}

	profileID, err := uuid.Parse(event.ProfileID)
	if err != nil {
		ns.logger.Warn("Notifier", "Dropping change event without profile", map[string]interface{}{"type": event.Type})
		return
	}

	if ns.delivery != nil {
		ns.delivery.Send(profileID, msg.Payload)
	}

	if ns.exporter != nil {
		if err := ns.exporter.Publish(ctx, event); err != nil {
			ns.logger.Error("Notifier", "Failed to export change event", map[string]interface{}{
				"error": err,
				"type":  event.Type,
			})
		}
	}
}
