package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/order"
)

func newProducer(t *testing.T) *mocks.SyncProducer {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	return mocks.NewSyncProducer(t, cfg)
}

func TestKafkaPublishOrderPlaced(t *testing.T) {
	producer := newProducer(t)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got map[string]any
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got["order_id"] != float64(42) {
			return errors.New("unexpected order_id")
		}
		if got["total"] != "25.5" {
			return errors.New("unexpected total")
		}
		return nil
	})

	k := NewKafka(producer, "", nil)
	err := k.PublishOrderPlaced(context.Background(), OrderPlaced{
		OrderID:  42,
		UserID:   7,
		Total:    decimal.RequireFromString("25.50"),
		Items:    []order.Line{{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(10)}},
		PlacedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, k.Close())
}

func TestKafkaPublishFailure(t *testing.T) {
	producer := newProducer(t)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := NewKafka(producer, "orders", nil)
	err := k.PublishOrderPlaced(context.Background(), OrderPlaced{OrderID: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	require.NoError(t, k.Close())
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.PublishOrderPlaced(context.Background(), OrderPlaced{}))
	assert.NoError(t, p.Close())
}
