package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/azizikri/course-commerce/internal/config"
	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Client is the part of *kgo.Client the consumers use.
type Client interface {
	Producer
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
}

type Consumer struct {
	client     Client
	cfg        *config.Config
	reconciler Reconciler
	logger     *zap.Logger
	now        func() time.Time
	backoff    time.Duration
}

func NewConsumer(cfg *config.Config, client Client, reconciler Reconciler, logger *zap.Logger) *Consumer {
	return &Consumer{
		client:     client,
		cfg:        cfg,
		reconciler: reconciler,
		logger:     logger,
		now:        time.Now,
		backoff:    time.Second,
	}
}

// Start consumes the request topic. A batch is committed only after every
// record in it was reconciled or handed to the retry or DLQ topic.
func (c *Consumer) Start(ctx context.Context) {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Warn("consumer poll error", zap.String("topic", topic), zap.Int32("partition", partition), zap.Error(err))
		})

		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			if err := c.processRecord(ctx, record); err != nil {
				c.logger.Warn("consumer stopped before batch commit", zap.String("order_id", string(record.Key)), zap.Error(err))
				return
			}
		}

		if err := c.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			c.logger.Error("failed to commit records", zap.Error(err))
		}
	}
}

// StartRetry waits out each retry record's x-next-at and moves it back onto
// the request topic.
func (c *Consumer) StartRetry(ctx context.Context) {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()

			if nextAt, ok := retryNextAt(record); ok {
				if wait := nextAt.Sub(c.now()); wait > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(wait):
					}
				}
			}

			if err := c.handoff(ctx, c.requeueRecord(record)); err != nil {
				c.logger.Warn("retry consumer stopped before batch commit", zap.String("order_id", string(record.Key)), zap.Error(err))
				return
			}
		}
		if err := c.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			c.logger.Error("failed to commit retry records", zap.Error(err))
		}
	}
}

func (c *Consumer) requeueRecord(record *kgo.Record) *kgo.Record {
	return &kgo.Record{
		Topic:   strings.TrimSuffix(record.Topic, TopicRetrySuffix) + TopicRequestSuffix,
		Key:     record.Key,
		Value:   record.Value,
		Headers: record.Headers,
	}
}

// handoff produces record until the broker accepts it. It only gives up
// when ctx is done, leaving the source record uncommitted.
func (c *Consumer) handoff(ctx context.Context, record *kgo.Record) error {
	for {
		err := c.client.ProduceSync(ctx, record).FirstErr()
		if err == nil {
			return nil
		}
		c.logger.Error("failed to produce record",
			zap.String("topic", record.Topic),
			zap.String("order_id", string(record.Key)),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff):
		}
	}
}

// processRecord returns an error only when the record could not be settled
// anywhere and must not be committed.
func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) error {
	var msg NotificationMessage
	if err := json.Unmarshal(record.Value, &msg); err != nil {
		return c.deadLetter(ctx, record, "INVALID_PAYLOAD")
	}

	result, err := c.reconciler.Process(ctx, msg.Notification)
	if err == nil {
		c.logger.Info("notification processed",
			zap.String("order_id", result.OrderID),
			zap.String("payment_status", string(result.Status)),
			zap.Bool("changed", result.Changed),
		)
		return nil
	}

	if domain.KindOf(err) == domain.KindReconciliation {
		return c.deadLetter(ctx, record, domain.CodeOf(err))
	}

	attempt := retryAttempt(record) + 1
	if attempt >= c.cfg.RetryAttempts() {
		c.logger.Error("notification retries exhausted",
			zap.String("order_id", msg.Notification.OrderID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return c.deadLetter(ctx, record, err.Error())
	}
	return c.retry(ctx, record, attempt, err)
}

func (c *Consumer) retry(ctx context.Context, record *kgo.Record, attempt int, cause error) error {
	nextAt := c.now().Add(time.Duration(attempt) * c.cfg.RetryDelay()).UTC()
	retryRecord := &kgo.Record{
		Topic: strings.TrimSuffix(record.Topic, TopicRequestSuffix) + TopicRetrySuffix,
		Key:   record.Key,
		Value: record.Value,
		Headers: []kgo.RecordHeader{
			{Key: RetryHeaderAttempt, Value: []byte(strconv.Itoa(attempt))},
			{Key: RetryHeaderNextAt, Value: []byte(nextAt.Format(time.RFC3339))},
			{Key: ErrorHeaderKey, Value: []byte(cause.Error())},
		},
	}
	if err := c.handoff(ctx, retryRecord); err != nil {
		return err
	}
	c.logger.Warn("notification scheduled for retry",
		zap.String("order_id", string(record.Key)),
		zap.Int("attempt", attempt),
		zap.Time("next_at", nextAt),
		zap.Error(cause),
	)
	return nil
}

func (c *Consumer) deadLetter(ctx context.Context, record *kgo.Record, reason string) error {
	dlqRecord := &kgo.Record{
		Topic: record.Topic + TopicDLQSuffix,
		Key:   record.Key,
		Value: record.Value,
		Headers: []kgo.RecordHeader{
			{Key: ErrorHeaderKey, Value: []byte(reason)},
		},
	}
	if err := c.handoff(ctx, dlqRecord); err != nil {
		return err
	}
	c.logger.Warn("notification dead-lettered", zap.String("order_id", string(record.Key)), zap.String("reason", reason))
	return nil
}

func header(record *kgo.Record, key string) (string, bool) {
	for _, h := range record.Headers {
		if h.Key == key {
			return string(h.Value), true
		}
	}
	return "", false
}

func retryNextAt(record *kgo.Record) (time.Time, bool) {
	value, ok := header(record, RetryHeaderNextAt)
	if !ok {
		return time.Time{}, false
	}
	nextAt, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return nextAt, true
}

func retryAttempt(record *kgo.Record) int {
	value, ok := header(record, RetryHeaderAttempt)
	if !ok {
		return 0
	}
	attempt, err := strconv.Atoi(value)
	if err != nil || attempt < 0 {
		return 0
	}
	return attempt
}
