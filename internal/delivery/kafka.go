package delivery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// kafkaWriteTimeout bounds one delivery attempt so a slow broker cannot
// back the emitter worker up indefinitely.
const kafkaWriteTimeout = 2 * time.Second

// KafkaSink publishes records to a Kafka topic, keyed by session so one
// session's events stay ordered within a partition.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink creates a sink writing to the given brokers and topic.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Deliver(rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), kafkaWriteTimeout)
	defer cancel()

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.SessionID),
		Value: payload,
		Time:  rec.Timestamp,
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
