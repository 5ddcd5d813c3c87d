package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// DefaultTopic is consumed by the external mail-dispatch service.
const DefaultTopic = "email-queue"

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaEmitter publishes trade lifecycle events to the mail queue. The channel
// is at-least-once and fire-and-forget: delivery failures are logged here and
// never surfaced to the trade caller.
type KafkaEmitter struct {
	writer writer
	logger *zap.Logger
}

// NewWriter builds the kafka writer the emitter expects.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
}

func NewKafkaEmitter(w *kafka.Writer, logger *zap.Logger) *KafkaEmitter {
	return &KafkaEmitter{writer: w, logger: logger}
}

func (e *KafkaEmitter) Publish(ctx context.Context, n domain.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		e.logger.Error("encode notification", zap.String("trade_id", n.TradeID), zap.Error(err))
		return
	}

	// Detach from the request context so a finished request does not cancel
	// the delivery attempt.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(string(n.Kind)),
		Value: payload,
	}
	if err := e.writer.WriteMessages(ctx, msg); err != nil {
		e.logger.Error("publish notification",
			zap.String("kind", string(n.Kind)),
			zap.String("trade_id", n.TradeID),
			zap.Error(err),
		)
		return
	}
	e.logger.Info("notification published",
		zap.String("kind", string(n.Kind)),
		zap.String("trade_id", n.TradeID),
		zap.Int("recipients", len(n.Recipients)),
	)
}
