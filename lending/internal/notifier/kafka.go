package notifier

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Message is the notification record carried on the notifications topic.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func DecodeMessage(b []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, err
	}
	if m.Text == "" {
		return Message{}, errors.New("empty notification text")
	}
	return m, nil
}

// Publisher hands notifications to Kafka; a consumer delivers them.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
}

func NewPublisher(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		now:      time.Now,
	}
}

func (p *Publisher) Notify(_ context.Context, text string) error {
	msg := Message{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: p.now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.ID),
		Value: sarama.ByteEncoder(data),
	}); err != nil {
		return errors.Wrap(err, "producer.SendMessage")
	}
	return nil
}
