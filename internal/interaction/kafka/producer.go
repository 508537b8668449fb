package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"coffeerange/internal/model"
	"coffeerange/internal/usecases"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes price and range events.
type Producer struct {
	logger      *slog.Logger
	writer      messageWriter
	pricesTopic string
	rangesTopic string
}

func NewProducer(logger *slog.Logger, brokers []string, pricesTopic, rangesTopic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return newProducer(logger, writer, pricesTopic, rangesTopic)
}

func newProducer(logger *slog.Logger, writer messageWriter, pricesTopic, rangesTopic string) *Producer {
	return &Producer{
		logger:      logger.With("component", "kafka_producer"),
		writer:      writer,
		pricesTopic: pricesTopic,
		rangesTopic: rangesTopic,
	}
}

// PublishPriceRecorded is keyed by grade so the events of a grade stay ordered.
func (that *Producer) PublishPriceRecorded(ctx context.Context, price *model.ClosingPrice) error {
	return that.publish(ctx, that.pricesTopic, price.Grade, newPriceEvent(EventClosingPriceRecorded, price))
}

func (that *Producer) PublishRangesSnapshot(ctx context.Context, report *usecases.RangeReport) error {
	return that.publish(ctx, that.rangesTopic, report.AsOf.Format(time.DateOnly), newSnapshotEvent(report))
}

func (that *Producer) publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{Topic: topic, Key: []byte(key), Value: data}
	if err = that.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message to kafka: %w", err)
	}

	that.logger.Debug("event published", "topic", topic, "key", key)
	return nil
}

func (that *Producer) Close() error {
	return that.writer.Close()
}
