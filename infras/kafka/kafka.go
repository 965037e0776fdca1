package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	HeaderEventType = "event-type"
	writeTimeout    = 10 * time.Second
)

// Message is keyed by claim id, so one claim's events land on one partition in order.
type Message struct {
	Key   string
	Type  string
	Value any
}

func (m *Message) ToKafkaMessage(topic string) (kafkaGo.Message, error) {
	body, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode kafka message %s: %w", m.Key, err)
	}

	msg := kafkaGo.Message{
		Topic: topic,
		Key:   []byte(m.Key),
		Value: body,
	}

	if m.Type != constant.Empty {
		msg.Headers = []kafkaGo.Header{{Key: HeaderEventType, Value: []byte(m.Type)}}
	}

	return msg, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
}

type kafkaClientImpl struct {
	writer *kafkaGo.Writer
	otel   otel.Otel
}

// newTransport enables SASL/PLAIN only when credentials are configured.
func newTransport(cfg *config.Config) *kafkaGo.Transport {
	transport := &kafkaGo.Transport{}

	if sasl := cfg.Kafka.SASL; sasl.Username != constant.Empty {
		transport.SASL = plain.Mechanism{Username: sasl.Username, Password: sasl.Password}
	}

	return transport
}

func New(cfg *config.Config, otel otel.Otel) Client {
	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(cfg.Kafka.Brokers...),
		Transport:              newTransport(cfg),
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireAll,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Kafka writer initialized")

	return &kafkaClientImpl{writer: writer, otel: otel}
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelBrokerScopeName, constant.OtelBrokerScopeName+".kafka.SendMessages")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{"messaging.destination": topic, "messaging.batch_size": len(messages)})

	batch := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage(topic)
		if err != nil {
			return err
		}

		batch = append(batch, msg)
	}

	if err = k.writer.WriteMessages(ctx, batch...); err != nil {
		log.Error().Err(err).Str("topic", topic).Int("messages", len(batch)).Msg("Failed to write kafka messages")

		return fmt.Errorf("failed to write kafka messages: %w", err)
	}

	log.Debug().Str("topic", topic).Int("messages", len(batch)).Msg("Kafka messages written")

	return nil
}
