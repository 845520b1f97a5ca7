package handler

import (
	"context"
	"time"

	"github.com/Astemirdum/lending-service/lending/internal/notifier"
	"github.com/Astemirdum/lending-service/lending/internal/service"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const deliverTimeout = 30 * time.Second

// Consumer delivers queued notifications to the chat transport.
type Consumer struct {
	notifier service.Notifier
	log      *zap.Logger
	ready    chan bool
}

func NewConsumer(n service.Notifier, log *zap.Logger) *Consumer {
	return &Consumer{
		notifier: n,
		log:      log.Named("consumer"),
		ready:    make(chan bool),
	}
}

// Ready is closed once the first session is set up.
func (consumer *Consumer) Ready() <-chan bool {
	return consumer.ready
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-consumer.ready:
	default:
		close(consumer.ready)
	}
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			consumer.handle(session.Context(), message)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle never blocks the partition: undecodable or undeliverable messages
// are logged and skipped.
func (consumer *Consumer) handle(ctx context.Context, message *sarama.ConsumerMessage) {
	msg, err := notifier.DecodeMessage(message.Value)
	if err != nil {
		consumer.log.Error("notifier.DecodeMessage", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, deliverTimeout)
	defer cancel()
	if err := consumer.notifier.Notify(ctx, msg.Text); err != nil {
		consumer.log.Error("notifier.Notify", zap.String("id", msg.ID), zap.Error(err))
		return
	}
	consumer.log.Debug("Message claimed:", zap.String("id", msg.ID), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
}
