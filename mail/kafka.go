package mail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/metrics"
)

// KafkaSender publishes messages to a topic instead of delivering them.
type KafkaSender struct {
	writer *kafka.Writer
}

func NewKafkaSender(broker, topic string) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (k *KafkaSender) Send(ctx context.Context, m Message) error {
	value, err := json.Marshal(m)
	if err != nil {
		return errs.Internal("encode mail message", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(m.To),
		Value: value,
		Time:  time.Now(),
	})
	metrics.MailSent.WithLabelValues("kafka", metrics.Outcome(err)).Inc()
	if err != nil {
		slog.Error("Mail publish failed", slog.String("to", m.To), slog.String("error", err.Error()))
		return errs.Upstream("Failed to queue email", err)
	}
	return nil
}

func (k *KafkaSender) Close() error {
	return k.writer.Close()
}

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer drains the mail topic and hands each message to a Sender.
type Consumer struct {
	reader MessageReader
	sender Sender

	retryBase time.Duration
	retryMax  time.Duration
}

func NewKafkaReader(broker, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

func NewConsumer(reader MessageReader, sender Sender) *Consumer {
	return &Consumer{
		reader:    reader,
		sender:    sender,
		retryBase: time.Second,
		retryMax:  time.Minute,
	}
}

// Listen blocks until ctx is cancelled or the reader is closed. A message
// is retried with backoff until it is delivered, so commits never move past
// an undelivered message. Undecodable messages are committed and dropped.
func (c *Consumer) Listen(ctx context.Context) error {
	defer c.reader.Close()

	fetchFailures := 0
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				slog.Info("Mail consumer reader closed")
				return nil
			}
			slog.Error("Mail consumer read error", slog.String("error", err.Error()))
			if !c.sleep(ctx, fetchFailures) {
				return nil
			}
			fetchFailures++
			continue
		}
		fetchFailures = 0

		if !c.deliver(ctx, msg) {
			return nil
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			slog.Error("Mail consumer commit error", slog.String("error", err.Error()))
		}
	}
}

// deliver retries msg until it is handled. It returns false when ctx ends
// first.
func (c *Consumer) deliver(ctx context.Context, msg kafka.Message) bool {
	for attempt := 0; ; attempt++ {
		err := c.handle(ctx, msg)
		if err == nil {
			return true
		}
		slog.Error("Mail delivery failed, retrying",
			slog.Int64("offset", msg.Offset),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))
		if !c.sleep(ctx, attempt) {
			return false
		}
	}
}

// sleep waits retryBase doubled per attempt, capped at retryMax.
func (c *Consumer) sleep(ctx context.Context, attempt int) bool {
	d := c.retryBase
	for i := 0; i < attempt && d < c.retryMax; i++ {
		d *= 2
	}
	if d > c.retryMax {
		d = c.retryMax
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var m Message
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		slog.Warn("Dropping undecodable mail message", slog.Int64("offset", msg.Offset))
		return nil
	}
	return c.sender.Send(ctx, m)
}
