package kafka

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/pkg/log"
)

// MessageReader is the part of kafka.Reader the consumer needs
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer dispatches messages to the handler registered for their key
type Consumer struct {
	Config   *cfg.Config
	Logger   log.Logger
	topic    string
	reader   MessageReader
	handlers map[string]func([]byte) error
}

func NewConsumer(config *cfg.Config, logger log.Logger, topic, groupID string) (*Consumer, error) {
	if len(config.Kafka.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Kafka.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3,        // 10KB
		MaxBytes:       10e6,        // 10MB
		MaxWait:        time.Second, // Maximum amount of time to wait for new data
		StartOffset:    kafka.FirstOffset,
		RetentionTime:  7 * 24 * time.Hour,
		CommitInterval: time.Second,
	})

	return NewConsumerWithReader(config, logger, topic, reader), nil
}

func NewConsumerWithReader(config *cfg.Config, logger log.Logger, topic string, reader MessageReader) *Consumer {
	return &Consumer{
		Config:   config,
		Logger:   logger,
		topic:    topic,
		reader:   reader,
		handlers: make(map[string]func([]byte) error),
	}
}

func (c *Consumer) RegisterHandler(key string, handler func([]byte) error) {
	c.handlers[key] = handler
}

// Start reads until ctx is done or the reader is closed
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info(ctx, "Starting Kafka consumer for topic: %s", c.topic)

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return c.reader.Close()
			}
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			c.Logger.Error(ctx, "Error reading message: %v", err)
			continue
		}

		key := string(message.Key)
		handler, exists := c.handlers[key]
		if !exists {
			c.Logger.Warn(ctx, "No handler registered for message with key: %s", key)
			continue
		}
		if err := handler(message.Value); err != nil {
			c.Logger.Error(ctx, "Error handling message with key %s: %v", key, err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
