package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventStockReceived = "StockReceived"

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

// StockReceivedEvent is published by purchasing when a supplier delivery is
// checked in.
type StockReceivedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   StockReceivedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type StockReceivedPayload struct {
	DeliveryID string             `json:"delivery_id"`
	ReceivedBy *int64             `json:"received_by"`
	Items      []StockItemPayload `json:"items"`
}

type StockItemPayload struct {
	PartID   int64 `json:"part_id"`
	Quantity int   `json:"quantity"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event StockReceivedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventStockReceived {
		return
	}

	l.logger.Info("Processing StockReceived event", zap.String("delivery_id", event.Payload.DeliveryID))

	for _, item := range event.Payload.Items {
		input := &dto.RestockInput{
			PartID:      item.PartID,
			Quantity:    item.Quantity,
			Notes:       "Supplier delivery",
			ReferenceID: event.Payload.DeliveryID,
			UserID:      event.Payload.ReceivedBy,
		}

		if _, err := l.uc.Restock(ctx, input); err != nil {
			l.logger.Error("Failed to restock part for delivery item",
				zap.String("delivery_id", event.Payload.DeliveryID),
				zap.Int64("part_id", item.PartID),
				zap.Error(err),
			)
		}
	}
}
