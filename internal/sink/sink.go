// Package sink fans a finished profile out to the CSV log and the optional
// MySQL and Kafka stores.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/internal/model"
	"github.com/thep200/repo-profiler/internal/output"
	"github.com/thep200/repo-profiler/pkg/db"
	"github.com/thep200/repo-profiler/pkg/kafka"
	"github.com/thep200/repo-profiler/pkg/log"
)

// KeyProfile is the kafka message key of a published profile
const KeyProfile = "profile"

type Sink interface {
	Name() string
	Write(ctx context.Context, p *model.Profile) error
}

// CSV appends to the resumability log
type CSV struct {
	Log *output.CSVLog
}

func (s *CSV) Name() string { return "csv" }

func (s *CSV) Write(ctx context.Context, p *model.Profile) error {
	return s.Log.Append(p)
}

// MySQL upserts the profile on its url
type MySQL struct {
	Record *model.ProfileRecord
}

func (s *MySQL) Name() string { return "mysql" }

func (s *MySQL) Write(ctx context.Context, p *model.Profile) error {
	return s.Record.Save(ctx, p)
}

// Publisher is the part of kafka.Producer the sink needs
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// Kafka publishes the profile as a JSON ProfileMessage
type Kafka struct {
	Producer Publisher
}

func (s *Kafka) Name() string { return "kafka" }

func (s *Kafka) Write(ctx context.Context, p *model.Profile) error {
	return s.Producer.Publish(ctx, KeyProfile, model.NewProfileMessage(p))
}

// Multi writes to Primary first, its failure fails the write. Optional sinks
// are tried afterwards and only logged when they fail.
type Multi struct {
	Logger   log.Logger
	Primary  Sink
	Optional []Sink

	closers []func() error
}

func (m *Multi) Write(ctx context.Context, p *model.Profile) error {
	if err := m.Primary.Write(ctx, p); err != nil {
		return fmt.Errorf("%s sink: %w", m.Primary.Name(), err)
	}
	for _, s := range m.Optional {
		if err := s.Write(ctx, p); err != nil {
			m.Logger.Error(ctx, "Cannot write %s to %s: %v", p.URL, s.Name(), err)
		}
	}
	return nil
}

// Close releases the connections opened by New
func (m *Multi) Close() error {
	var errs []error
	for _, closeFn := range m.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the sinks enabled in config around the CSV log at outputPath
func New(ctx context.Context, logger log.Logger, config *cfg.Config, outputPath string) (*Multi, error) {
	csvLog, err := output.NewCSVLog(outputPath)
	if err != nil {
		return nil, err
	}
	m := &Multi{Logger: logger, Primary: &CSV{Log: csvLog}}

	if config.Mysql.Enabled {
		mysql, err := db.NewMysql(config)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.closers = append(m.closers, mysql.Close)
		if err := mysql.Migrate(&model.ProfileRecord{}); err != nil {
			m.Close()
			return nil, fmt.Errorf("cannot migrate profiles table: %w", err)
		}
		record, err := model.NewProfileRecord(config, logger, mysql)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.Optional = append(m.Optional, &MySQL{Record: record})
		logger.Info(ctx, "Writing profiles to mysql %s:%s/%s", config.Mysql.Host, config.Mysql.Port, config.Mysql.Database)
	}

	if config.Kafka.Enabled {
		producer, err := kafka.NewProducer(config, logger, config.Kafka.Producer.TopicProfile)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.closers = append(m.closers, producer.Close)
		m.Optional = append(m.Optional, &Kafka{Producer: producer})
		logger.Info(ctx, "Publishing profiles to kafka topic %s", config.Kafka.Producer.TopicProfile)
	}

	return m, nil
}
