package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/logger"
	"storefront/pkg/otel"
)

// DefaultTopic receives OrderPlaced events unless configured otherwise.
const DefaultTopic = "storefront.orders"

// Kafka publishes events through a synchronous sarama producer.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafka wraps an existing producer. The producer must be configured with
// Producer.Return.Successes.
func NewKafka(producer sarama.SyncProducer, topic string, log *logger.Logger) *Kafka {
	if topic == "" {
		topic = DefaultTopic
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Kafka{producer: producer, topic: topic, log: log}
}

// DialKafka connects a producer to brokers.
func DialKafka(brokers []string, topic string, log *logger.Logger) (*Kafka, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafka(producer, topic, log), nil
}

// PublishOrderPlaced sends e keyed by its order id, so events of one order
// land on one partition.
func (k *Kafka) PublishOrderPlaced(ctx context.Context, e OrderPlaced) error {
	ctx, span := otel.AddSpan(ctx, "events.PublishOrderPlaced", attribute.Int("order_id", e.OrderID))
	defer span.End()

	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode order placed: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(strconv.Itoa(e.OrderID)),
		Value: sarama.ByteEncoder(value),
	}
	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send order placed: %w", err)
	}

	k.log.Debug(ctx, "order event published", "order_id", e.OrderID, "partition", partition, "offset", offset)
	return nil
}

func (k *Kafka) Close() error {
	return k.producer.Close()
}
