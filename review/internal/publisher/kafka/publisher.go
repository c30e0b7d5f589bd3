package kafka

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/review/pkg/model"
)

// Publisher defines a Kafka publisher of review events.
type Publisher struct {
	producer *kafka.Producer
	topic    string
}

// NewPublisher creates a new Kafka publisher for the given topic. Delivery
// reports are drained in the background; failed deliveries are logged.
func NewPublisher(addr string, topic string, logger *zap.Logger) (*Publisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": addr})
	if err != nil {
		return nil, err
	}
	go func() {
		for e := range producer.Events() {
			if msg, ok := e.(*kafka.Message); ok && msg.TopicPartition.Error != nil {
				logger.Error("Delivery failed", zap.Any("partition", msg.TopicPartition))
			}
		}
	}()
	return &Publisher{producer: producer, topic: topic}, nil
}

// Publish produces a review event to the topic.
func (p *Publisher) Publish(_ context.Context, event model.ReviewEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Value:          payload,
	}, nil)
}

// Close flushes outstanding messages and closes the producer.
func (p *Publisher) Close() {
	p.producer.Flush(10_000)
	p.producer.Close()
}
