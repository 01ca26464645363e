package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Kafka producer and consumer utilities for the results topic.

// HeaderKind carries the record type of a results message.
const HeaderKind = "kind"

const (
	KindRound = "round"
	KindGame  = "game"
)

// publishBatchTimeout bounds how long a synchronous Publish waits for a
// batch to fill; each game round writes a single record.
const publishBatchTimeout = 10 * time.Millisecond

// NewResultsWriter returns a writer for the results topic. Records are
// hashed by game id so every game stays on one partition, in round order.
func NewResultsWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: publishBatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}
}

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher JSON-encodes game records and writes them keyed by game id.
type Publisher struct {
	writer messageWriter
	log    zerolog.Logger
}

func NewPublisher(brokers []string, topic string, log zerolog.Logger) *Publisher {
	return &Publisher{
		writer: NewResultsWriter(brokers, topic),
		log:    log.With().Str("topic", topic).Logger(),
	}
}

// Publish writes one record. kind is KindRound or KindGame.
func (p *Publisher) Publish(ctx context.Context, key, kind string, v any) error {
	msg, err := NewMessage(key, kind, v)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s record for %s: %w", kind, key, err)
	}
	p.log.Debug().Str("game_id", key).Str("kind", kind).Msg("published record")
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NewMessage builds the Kafka message for a record.
func NewMessage(key, kind string, v any) (kafka.Message, error) {
	value, err := json.Marshal(v)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s record: %w", kind, err)
	}
	return kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: HeaderKind, Value: []byte(kind)}},
	}, nil
}

// Kind returns the record type header of msg, or "" if absent.
func Kind(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == HeaderKind {
			return string(h.Value)
		}
	}
	return ""
}

// NewKafkaReader creates a new Kafka reader
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
		MaxWait:  time.Second,
	})
}

// MessageReader is the part of *kafka.Reader the consumers need.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// ReadMessages reads messages until ctx is done or handleMessage fails.
// A cancelled context ends the loop without error.
func ReadMessages(ctx context.Context, reader MessageReader, handleMessage func(msg kafka.Message) error) error {
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := handleMessage(msg); err != nil {
			return err
		}
	}
}

// CreateKafkaTopic ensures the Kafka topic exists
func CreateKafkaTopic(ctx context.Context, broker, topic string, partitions, replicationFactor int) error {
	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Topic creation must go through the controller broker.
	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: replicationFactor,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return err
	}
	return nil
}

// WaitForKafka retries topic creation with exponential backoff until every
// topic is available or ctx is done.
func WaitForKafka(ctx context.Context, broker string, topics []string, interval time.Duration, log zerolog.Logger) error {
	backoff := interval

	for {
		err := ensureTopics(ctx, broker, topics)
		if err == nil {
			log.Info().Str("broker", broker).Strs("topics", topics).Msg("kafka is available")
			return nil
		}
		log.Warn().Err(err).Str("broker", broker).Dur("retry_in", backoff).Msg("kafka not available")

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for kafka at %s: %w", broker, ctx.Err())
		case <-time.After(backoff):
		}

		if backoff < 2*time.Minute {
			backoff *= 2
		}
	}
}

func ensureTopics(ctx context.Context, broker string, topics []string) error {
	for _, topic := range topics {
		if err := CreateKafkaTopic(ctx, broker, topic, 1, 1); err != nil {
			return fmt.Errorf("create topic %s: %w", topic, err)
		}
	}
	return nil
}
