package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/internal/model"
	"github.com/thep200/repo-profiler/internal/sink"
	"github.com/thep200/repo-profiler/pkg/db"
	"github.com/thep200/repo-profiler/pkg/kafka"
	"github.com/thep200/repo-profiler/pkg/log"
)

const (
	batchSize    = 100
	batchTimeout = 5 * time.Second
)

// saver stores a batch of profiles, *model.ProfileRecord in production
type saver interface {
	Save(ctx context.Context, profiles ...*model.Profile) error
}

func main() {
	configPath := flag.String("config-path", "cfg/yaml", "directory holding the config file")
	flag.Parse()

	loader, _ := cfg.NewViperLoader(*configPath, "mode")
	config, err := loader.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, _ := log.NewCslLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mysql, err := db.NewMysql(config)
	if err != nil {
		logger.Error(ctx, "Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer mysql.Close()

	record, _ := model.NewProfileRecord(config, logger, mysql)
	if err := mysql.Migrate(record); err != nil {
		logger.Error(ctx, "Failed to migrate profiles table: %v", err)
		os.Exit(1)
	}

	consumer, err := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicProfile, config.Kafka.Consumer.GroupId)
	if err != nil {
		logger.Error(ctx, "Failed to create consumer: %v", err)
		os.Exit(1)
	}
	defer consumer.Close()

	messages := make(chan model.ProfileMessage, batchSize*2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		processBatchedProfiles(ctx, messages, batchSize, batchTimeout, logger, record)
	}()

	consumer.RegisterHandler(sink.KeyProfile, profileHandler(ctx, messages))

	logger.Info(ctx, "Profile consumer started on topic %s", config.Kafka.Producer.TopicProfile)
	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error(ctx, "Profile consumer error: %v", err)
	}

	stop()
	<-done
	logger.Info(ctx, "Profile consumer stopped")
}

// profileHandler decodes a message and queues it for the batch writer
func profileHandler(ctx context.Context, messages chan<- model.ProfileMessage) func([]byte) error {
	return func(data []byte) error {
		var msg model.ProfileMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal profile message: %w", err)
		}

		select {
		case messages <- msg:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// processBatchedProfiles saves queued profiles once batchSize is reached or
// batchTimeout passes, and flushes what is left when ctx ends
func processBatchedProfiles(ctx context.Context, messages <-chan model.ProfileMessage, batchSize int,
	batchTimeout time.Duration, logger log.Logger, store saver) {

	var batch []*model.Profile
	timer := time.NewTimer(batchTimeout)
	defer timer.Stop()

	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := store.Save(ctx, batch...); err != nil {
			logger.Error(ctx, "Failed to save batch of %d profiles: %v", len(batch), err)
		}
		batch = nil
	}

	for {
		select {
		case <-ctx.Done():
			for drained := false; !drained; {
				select {
				case msg := <-messages:
					batch = append(batch, msg.ToProfile())
				default:
					drained = true
				}
			}
			flush(context.WithoutCancel(ctx))
			return

		case msg := <-messages:
			batch = append(batch, msg.ToProfile())
			if len(batch) >= batchSize {
				flush(ctx)
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			flush(ctx)
			timer.Reset(batchTimeout)
		}
	}
}
