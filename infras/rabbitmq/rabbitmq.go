package rabbitmq

//go:generate go run go.uber.org/mock/mockgen -source=./rabbitmq.go -destination=./mocks/rabbitmq_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/shared/constant"
	"innkeep/shared/timezone"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Message is delivered persistently. Key becomes the AMQP message id and Type the AMQP type.
type Message struct {
	Key   string
	Type  string
	Value any
}

func (m *Message) ToPublishing() (amqp.Publishing, error) {
	body, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return amqp.Publishing{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return amqp.Publishing{
		ContentType:  constant.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    m.Key,
		Type:         m.Type,
		Timestamp:    timezone.Now(),
		Body:         body,
	}, nil
}

type Client interface {
	Publish(ctx context.Context, queue string, messages ...Message) error
}

type rabbitmqImpl struct {
	config *config.Config
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) Client {
	log.Info().Msg("RabbitMQ client initialized")

	return &rabbitmqImpl{
		config: config,
		otel:   otel,
	}
}

// Publish opens a connection per call and declares the queue durable, so messages survive
// broker restarts.
func (r *rabbitmqImpl) Publish(ctx context.Context, queue string, messages ...Message) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelBrokerScopeName, constant.OtelBrokerScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("queue", queue)

	conn, err := amqp.Dial(r.config.RabbitMQ.URL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to dial RabbitMQ")

		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open RabbitMQ channel")

		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	defer channel.Close()

	if _, err = channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("Failed to declare RabbitMQ queue")

		return fmt.Errorf("failed to declare RabbitMQ queue: %w", err)
	}

	for _, message := range messages {
		publishing, err := message.ToPublishing()
		if err != nil {
			return err
		}

		if err = channel.PublishWithContext(ctx, "", queue, false, false, publishing); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("Failed to publish message to RabbitMQ")

			return fmt.Errorf("failed to publish message to RabbitMQ: %w", err)
		}
	}

	log.Info().Str("queue", queue).Int("count", len(messages)).Msg("Published messages successfully.")

	return nil
}
