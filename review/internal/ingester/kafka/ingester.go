package kafka

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/review/pkg/model"
)

// Ingester defines a Kafka ingester of review events.
type Ingester struct {
	consumer *kafka.Consumer
	topic    string
	logger   *zap.Logger
}

// NewIngester creates a new Kafka ingester.
func NewIngester(addr string, groupID string, topic string, logger *zap.Logger) (*Ingester, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": addr,
		"group.id":          groupID,
	})
	if err != nil {
		return nil, err
	}
	return &Ingester{consumer: consumer, topic: topic, logger: logger}, nil
}

// Ingest subscribes to the review event topic and streams decoded events
// until the context is cancelled.
func (i *Ingester) Ingest(ctx context.Context) (chan model.ReviewEvent, error) {
	if err := i.consumer.SubscribeTopics([]string{i.topic}, nil); err != nil {
		return nil, err
	}
	ch := make(chan model.ReviewEvent, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			msg, err := i.consumer.ReadMessage(-1)
			if err != nil {
				i.logger.Error("Consumer error", zap.Error(err))
				continue
			}
			var event model.ReviewEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				i.logger.Error("Failed to unmarshal review event", zap.Error(err))
				continue
			}
			ch <- event
		}
	}()
	return ch, nil
}
