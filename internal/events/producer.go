package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicCart    = "cart_events"
	TopicOrder   = "order_events"
	TopicProduct = "product_events"
	TopicUser    = "user_events"
)

// Producer publishes JSON domain events. With no brokers configured it is
// disabled and every publish is a cheap no-op, which keeps single-binary
// and test setups free of a Kafka dependency.
type Producer struct {
	writers map[string]*kafka.Writer
}

func NewProducer(brokers []string, topics ...string) *Producer {
	if len(brokers) == 0 {
		return &Producer{}
	}

	writers := make(map[string]*kafka.Writer, len(topics))
	for _, topic := range topics {
		writers[topic] = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		}
	}
	return &Producer{writers: writers}
}

func (p *Producer) Enabled() bool {
	return len(p.writers) > 0
}

func (p *Producer) Publish(ctx context.Context, topic, key string, event any) error {
	if !p.Enabled() {
		return nil
	}
	w, ok := p.writers[topic]
	if !ok {
		return fmt.Errorf("kafka: unknown topic %q", topic)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}

	return w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

func (p *Producer) Close() error {
	var firstErr error
	for _, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
