package events

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Writer is the subset of *kafka.Writer the relay needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type RelayConfig struct {
	Topic     string
	PollEvery time.Duration
	BatchSize int
}

// Relay copies appointment events from the database to Kafka, keyed by
// appointment id so one appointment's events stay ordered on a partition.
type Relay struct {
	store     Store
	writer    Writer
	logger    *slog.Logger
	topic     string
	pollEvery time.Duration
	batchSize int
}

func NewRelay(store Store, writer Writer, logger *slog.Logger, cfg RelayConfig) *Relay {
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		store:     store,
		writer:    writer,
		logger:    logger,
		topic:     cfg.Topic,
		pollEvery: cfg.PollEvery,
		batchSize: cfg.BatchSize,
	}
}

// NewKafkaWriter builds the writer used in production.
func NewKafkaWriter(brokers string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(SplitBrokers(brokers)...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Run publishes once immediately and then on every tick until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	r.runOnce(ctx)

	ticker := time.NewTicker(r.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Relay) runOnce(ctx context.Context) {
	start := time.Now()
	n, err := r.PublishBatch(ctx)
	if err != nil {
		r.logger.Error("event relay batch failed", "err", err)
		return
	}
	if n > 0 {
		r.logger.Info("event relay batch published", "count", n, "duration_ms", time.Since(start).Milliseconds())
	}
}

// PublishBatch sends at most one batch and returns how many events went out.
func (r *Relay) PublishBatch(ctx context.Context) (int, error) {
	return r.store.ProcessUnpublished(ctx, r.batchSize, func(ctx context.Context, batch []Record) error {
		msgs := make([]kafka.Message, 0, len(batch))
		for _, rec := range batch {
			msgs = append(msgs, toMessage(r.topic, rec))
		}
		return r.writer.WriteMessages(ctx, msgs...)
	})
}

func toMessage(topic string, rec Record) kafka.Message {
	key := strconv.FormatInt(rec.ID, 10)
	if rec.AppointmentID != nil {
		key = rec.AppointmentID.String()
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: rec.Payload,
		Time:  rec.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(strconv.FormatInt(rec.ID, 10))},
			{Key: "event_type", Value: []byte(rec.EventType)},
		},
	}
}
