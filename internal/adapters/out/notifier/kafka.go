package notifier

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"laundry/internal/core/ports"
)

const eventHeader = "event"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaNotifier writes notifications to a single topic. Messages are keyed by order
// number so the hash balancer keeps one order's events in one partition.
type KafkaNotifier struct {
	writer messageWriter
	logger *zap.Logger
}

var _ ports.Notifier = (*KafkaNotifier)(nil)

func NewKafkaNotifier(writer messageWriter, logger *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, logger: logger.Named("kafka_notifier")}
}

// KafkaConfig configures the writer and the relay reader.
type KafkaConfig struct {
	Brokers        []string
	Topic          string
	ConsumerGroup  string
	ConnectTimeout time.Duration
}

// NewKafkaWriter builds a synchronous writer with a hash balancer.
func NewKafkaWriter(cfg KafkaConfig, logger *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		Logger:       kafkaLogger{logger: logger},
		ErrorLogger:  kafkaLogger{logger: logger},
	}
}

// NewKafkaReader builds the consumer-group reader used by the relay.
func NewKafkaReader(cfg KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.ConsumerGroup,
		Topic:   cfg.Topic,
		Dialer: &kafka.Dialer{
			Timeout:  cfg.ConnectTimeout,
			ClientID: "laundry-relay",
		},
	})
}

func (k *KafkaNotifier) Publish(ctx context.Context, n ports.Notification) error {
	_, value, err := envelopeOf(n)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(n.Key),
		Value:   value,
		Headers: []kafka.Header{{Key: eventHeader, Value: []byte(n.Event)}},
	})
}

type kafkaLogger struct {
	logger *zap.Logger
}

func (k kafkaLogger) Printf(msg string, args ...any) {
	k.logger.Sugar().Debugf(msg, args...)
}
