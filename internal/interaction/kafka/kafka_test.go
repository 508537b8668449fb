package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/grades"
	"coffeerange/internal/model"
	"coffeerange/internal/usecases"
	"coffeerange/testing/fakes"
	"coffeerange/testing/suite"
)

type captureWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

// queueReader serves queued messages, then blocks until the context is done.
type queueReader struct {
	messages chan kafka.Message
	closed   bool
}

func (r *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-r.messages:
		return msg, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *queueReader) Close() error {
	r.closed = true
	return nil
}

func Test_Producer(t *testing.T) {
	t.Run("should publish a recorded price keyed by grade", func(t *testing.T) {
		ctx, st := suite.New(t)

		writer := &captureWriter{}
		producer := newProducer(st.Logger, writer, "closing-prices", "ranges")
		operator := uuid.New()

		err := producer.PublishPriceRecorded(ctx, &model.ClosingPrice{
			Grade:      "LWSD2",
			Date:       suite.GetDateTime(t, "2024-03-01"),
			Price:      decimal.NewFromInt(4000),
			RecordedBy: operator,
		})
		require.NoError(t, err)
		require.Len(t, writer.messages, 1)

		msg := writer.messages[0]
		assert.Equal(t, "closing-prices", msg.Topic)
		assert.Equal(t, "LWSD2", string(msg.Key))

		var event PriceEvent
		require.NoError(t, json.Unmarshal(msg.Value, &event))
		assert.Equal(t, EventClosingPriceRecorded, event.EventType)
		assert.Equal(t, "2024-03-01", event.Date)
		assert.Equal(t, "4000.00", event.Price)
		assert.Equal(t, operator, event.RecordedBy)
	})

	t.Run("should publish a ranges snapshot", func(t *testing.T) {
		ctx, st := suite.New(t)

		writer := &captureWriter{}
		producer := newProducer(st.Logger, writer, "closing-prices", "ranges")

		report := &usecases.RangeReport{
			AsOf: suite.GetDateTime(t, "2024-03-11"),
			Ranges: []*usecases.GradeRange{
				{Grade: "LWSD2", Source: usecases.SourceDynamic, Dynamic: &model.DerivedRange{
					Grade: "LWSD2", LowerBound: decimal.NewFromInt(3400), UpperBound: decimal.NewFromInt(4600),
					DaysWithoutSales: 10, Tier: model.TierExtended,
				}},
				{Grade: "LWYC1", Source: usecases.SourceFixed, Fixed: &model.GradeBand{
					Grade: "LWYC1", LowerBound: decimal.NewFromInt(5000), UpperBound: decimal.NewFromInt(5500),
				}},
			},
			Gaps: []*usecases.RangeGap{{Grade: "LWSD3", Reason: "no price data"}},
		}

		require.NoError(t, producer.PublishRangesSnapshot(ctx, report))
		require.Len(t, writer.messages, 1)
		assert.Equal(t, "ranges", writer.messages[0].Topic)
		assert.Equal(t, "2024-03-11", string(writer.messages[0].Key))

		var event SnapshotEvent
		require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
		assert.Equal(t, EventRangesSnapshot, event.EventType)
		assert.Equal(t, []RangeEntry{
			{Grade: "LWSD2", Source: "dynamic", LowerBound: "3400.00", UpperBound: "4600.00", Tier: "extended", DaysWithoutSales: 10},
			{Grade: "LWYC1", Source: "fixed", LowerBound: "5000.00", UpperBound: "5500.00"},
		}, event.Ranges)
		require.Len(t, event.Gaps, 1)
		assert.Equal(t, "LWSD3", event.Gaps[0].Grade)
	})

	t.Run("should return write errors", func(t *testing.T) {
		ctx, st := suite.New(t)

		producer := newProducer(st.Logger, &captureWriter{err: errors.New("no brokers")}, "p", "r")
		err := producer.PublishPriceRecorded(ctx, &model.ClosingPrice{Grade: "LWSD2", Price: decimal.NewFromInt(1)})
		require.Error(t, err)
	})
}

func Test_Consumer_processMessage(t *testing.T) {
	newEvent := func(t *testing.T, event PriceEvent) kafka.Message {
		data, err := json.Marshal(event)
		require.NoError(t, err)
		return kafka.Message{Value: data}
	}

	t.Run("should record a submitted price", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := fakes.NewLedger()
		recorder := usecases.NewRecordPricesUseCase(st.Logger, ledger, grades.NewSet(nil, true), nil)
		consumer := newConsumer(st.Logger, &queueReader{}, recorder)

		err := consumer.processMessage(ctx, newEvent(t, PriceEvent{
			EventType: EventClosingPriceSubmitted, Grade: "LWBP1", Date: "2024-04-01", Price: "1050.00", RecordedBy: uuid.New(),
		}))
		require.NoError(t, err)

		found, err := ledger.MostRecentBefore(ctx, "LWBP1", suite.GetDateTime(t, "2024-04-01"))
		require.NoError(t, err)
		assert.Equal(t, "1050", found.Price.String())
	})

	t.Run("should ignore other event types", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := fakes.NewLedger()
		recorder := usecases.NewRecordPricesUseCase(st.Logger, ledger, grades.NewSet(nil, true), nil)
		consumer := newConsumer(st.Logger, &queueReader{}, recorder)

		err := consumer.processMessage(ctx, newEvent(t, PriceEvent{EventType: EventClosingPriceRecorded, Grade: "LWBP1", Date: "2024-04-01", Price: "1"}))
		require.NoError(t, err)
		assert.Equal(t, 0, ledger.Count("LWBP1"))
	})

	t.Run("should reject malformed events", func(t *testing.T) {
		ctx, st := suite.New(t)

		recorder := usecases.NewRecordPricesUseCase(st.Logger, fakes.NewLedger(), grades.NewSet(nil, true), nil)
		consumer := newConsumer(st.Logger, &queueReader{}, recorder)

		require.Error(t, consumer.processMessage(ctx, kafka.Message{Value: []byte("{")}))

		err := consumer.processMessage(ctx, newEvent(t, PriceEvent{EventType: EventClosingPriceSubmitted, Grade: "LWBP1", Date: "01.04.2024", Price: "1"}))
		require.ErrorIs(t, err, apperrors.ErrInvalidDate)

		err = consumer.processMessage(ctx, newEvent(t, PriceEvent{EventType: EventClosingPriceSubmitted, Grade: "LWBP1", Date: "2024-04-01", Price: "-1"}))
		require.ErrorIs(t, err, apperrors.ErrInvalidPrice)
	})
}

func Test_Consumer_Start(t *testing.T) {
	ctx, st := suite.New(t)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ledger := fakes.NewLedger()
	recorder := usecases.NewRecordPricesUseCase(st.Logger, ledger, grades.NewSet(nil, true), nil)

	reader := &queueReader{messages: make(chan kafka.Message, 2)}
	reader.messages <- kafka.Message{Value: []byte("not json")}

	data, err := json.Marshal(PriceEvent{EventType: EventClosingPriceSubmitted, Grade: "LWSD1", Date: "2024-04-01", Price: "4100"})
	require.NoError(t, err)
	reader.messages <- kafka.Message{Value: data}

	done := make(chan error, 1)
	go func() { done <- newConsumer(st.Logger, reader, recorder).Start(ctx) }()

	require.Eventually(t, func() bool { return ledger.Count("LWSD1") == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.True(t, reader.closed)
}
