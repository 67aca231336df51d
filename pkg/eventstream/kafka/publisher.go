// Package kafka publishes execution events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/turnexec/pkg/eventstream"
)

// DefaultTopic is the topic execution events are written to when none is set.
const DefaultTopic = "turnexec.executions"

// messageWriter is the subset of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Config configures a Kafka publisher.
type Config struct {
	Brokers []string
	Topic   string

	// WriteTimeout bounds each synchronous write. Zero uses the kafka-go default.
	WriteTimeout time.Duration
}

// Publisher writes CommandExecutedEvents as JSON messages keyed by run ID,
// so all events of one run land on the same partition in order.
type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher creates a publisher writing to the configured brokers.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}

	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}

	return newPublisher(writer, cfg.Topic), nil
}

func newPublisher(writer messageWriter, topic string) *Publisher {
	return &Publisher{writer: writer, topic: topic}
}

// Topic returns the topic events are written to.
func (p *Publisher) Topic() string {
	return p.topic
}

// PublishExecution implements eventstream.Publisher.
func (p *Publisher) PublishExecution(ctx context.Context, event *eventstream.CommandExecutedEvent) error {
	if event == nil {
		return eventstream.ErrNilExecutionEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.Source.RunID),
		Value: payload,
		Time:  event.EmittedAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "schema_version", Value: []byte(fmt.Sprint(event.SchemaVersion))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
