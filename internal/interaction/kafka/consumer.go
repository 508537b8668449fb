package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/model"
	"coffeerange/internal/usecases"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type PriceRecorder interface {
	RecordPrice(ctx context.Context, grade string, date time.Time, price decimal.Decimal, recordedBy uuid.UUID) (*model.ClosingPrice, error)
}

// Consumer ingests closing prices submitted by other systems.
type Consumer struct {
	logger   *slog.Logger
	reader   messageReader
	recorder PriceRecorder
}

func NewConsumer(logger *slog.Logger, brokers []string, topic, groupID string, recorder PriceRecorder) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return newConsumer(logger, reader, recorder)
}

func newConsumer(logger *slog.Logger, reader messageReader, recorder PriceRecorder) *Consumer {
	return &Consumer{logger: logger.With("component", "kafka_consumer"), reader: reader, recorder: recorder}
}

// Start reads messages until ctx is done. Bad messages are logged and skipped.
func (that *Consumer) Start(ctx context.Context) error {
	log := that.logger.With("method", "Start")
	log.Info("starting kafka consumer")

	for {
		msg, err := that.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("kafka consumer shutting down")
				return that.reader.Close()
			}
			log.Error("failed to read message", "error", err)
			continue
		}

		if err = that.processMessage(ctx, msg); err != nil {
			log.Error("failed to process message", "partition", msg.Partition, "offset", msg.Offset, "error", err)
		}
	}
}

func (that *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event PriceEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("unmarshal price event: %w", err)
	}

	if event.EventType != EventClosingPriceSubmitted {
		that.logger.Debug("ignoring event", "event_type", event.EventType)
		return nil
	}

	date, err := time.Parse(time.DateOnly, event.Date)
	if err != nil {
		return fmt.Errorf("date %q: %w", event.Date, apperrors.ErrInvalidDate)
	}

	price, err := usecases.ParsePrice(event.Price)
	if err != nil {
		return err
	}

	if _, err = that.recorder.RecordPrice(ctx, event.Grade, date, price, event.RecordedBy); err != nil {
		return fmt.Errorf("record submitted price: %w", err)
	}

	return nil
}
