package mail

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// Envelope is the queued form of a message, consumed by a separate mail
// delivery service.
type Envelope struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	QueuedAt time.Time `json:"queuedAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMailer hands messages to a Kafka topic. Send returns once the
// brokers acknowledged the write; actual delivery happens downstream.
type KafkaMailer struct {
	from   Address
	writer messageWriter
	now    func() time.Time
}

// NewKafkaMailer builds a synchronous writer. SASL/PLAIN over TLS is enabled
// when a username is given.
func NewKafkaMailer(brokers []string, topic, username, password string, from Address) (*KafkaMailer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	if username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: username, Password: password},
			TLS:  &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}

	return &KafkaMailer{from: from, writer: w, now: time.Now}, nil
}

func (m *KafkaMailer) Send(ctx context.Context, to, subject, html string) error {
	now := m.now()
	value, err := json.Marshal(Envelope{
		From:     m.from.String(),
		To:       to,
		Subject:  subject,
		HTML:     html,
		QueuedAt: now,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	if err := m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(to),
		Value: value,
		Time:  now,
	}); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (m *KafkaMailer) Close() error {
	return m.writer.Close()
}
