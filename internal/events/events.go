package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"fmt"

	"innkeep/config"
	"innkeep/infras/kafka"
	"innkeep/infras/otel"
	"innkeep/infras/rabbitmq"
	"innkeep/shared/background"
	"innkeep/shared/constant"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
)

const (
	ReservationCreated         = "reservation.created"
	ReservationRoomAssigned    = "reservation.room_assigned"
	ReservationPaymentRecorded = "reservation.payment_recorded"
	ReservationCancelled       = "reservation.cancelled"
	ReservationStatusUpdated   = "reservation.status_updated"
	ReservationConverted       = "reservation.converted"
	CheckInCreated             = "checkin.created"
	CheckInPaymentRecorded     = "checkin.payment_recorded"
	CheckInRoomChanged         = "checkin.room_changed"
	CheckInCheckedOut          = "checkin.checked_out"
)

// Event describes a committed claim transition.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	ClaimID    string         `json:"claim_id"`
	RoomID     string         `json:"room_id,omitempty"`
	Actor      string         `json:"actor"`
	OccurredAt string         `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

func New(ctx context.Context, eventType, claimID, roomID string, data map[string]any) Event {
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		actor = constant.ContextSystem
	}

	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ClaimID:    claimID,
		RoomID:     roomID,
		Actor:      actor,
		OccurredAt: timezone.Format(timezone.Now(), constant.DateFormat),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

type publisherImpl struct {
	cfg      *config.Config
	kafka    kafka.Client
	rabbitmq rabbitmq.Client
	otel     otel.Otel
}

func NewPublisher(cfg *config.Config, kafka kafka.Client, rabbitmq rabbitmq.Client, otel otel.Otel) Publisher {
	return &publisherImpl{
		cfg:      cfg,
		kafka:    kafka,
		rabbitmq: rabbitmq,
		otel:     otel,
	}
}

// Publish sends events to the configured broker. Without a broker the events are only logged.
func (p *publisherImpl) Publish(ctx context.Context, events ...Event) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if len(events) == 0 {
		return nil
	}

	topic := p.cfg.Events.Topic

	switch p.cfg.Events.Broker {
	case BrokerKafka:
		messages := make([]kafka.Message, len(events))
		for i, event := range events {
			messages[i] = kafka.Message{Key: event.ClaimID, Type: event.Type, Value: event}
		}

		err = p.kafka.SendMessages(ctx, topic, messages...)
	case BrokerRabbitMQ:
		messages := make([]rabbitmq.Message, len(events))
		for i, event := range events {
			messages[i] = rabbitmq.Message{Key: event.ID, Type: event.Type, Value: event}
		}

		err = p.rabbitmq.Publish(ctx, topic, messages...)
	default:
		for _, event := range events {
			log.Info().Str("type", event.Type).Str("claim_id", event.ClaimID).Str("room_id", event.RoomID).Msg("claim event")
		}
	}

	if err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}

	return nil
}

// Dispatch publishes in the background. Call it only after the transaction has committed.
func Dispatch(ctx context.Context, publisher Publisher, events ...Event) {
	background.Go(ctx, "claim events", func(ctx context.Context) {
		if err := publisher.Publish(ctx, events...); err != nil {
			log.Error().Err(err).Msg("failed to publish claim events")
		}
	})
}
