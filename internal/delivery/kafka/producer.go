package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/azizikri/course-commerce/internal/usecase"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Producer is the part of *kgo.Client used to publish records.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// NotificationQueue hands gateway notifications to the consumer group instead
// of reconciling them in the request.
type NotificationQueue struct {
	client Producer
	logger *zap.Logger
	now    func() time.Time
}

func NewNotificationQueue(client Producer, logger *zap.Logger) *NotificationQueue {
	return &NotificationQueue{client: client, logger: logger, now: time.Now}
}

// Submit produces n keyed by order id so deliveries of one order stay on one
// partition. The result is nil; reconciliation happens in the consumer.
func (q *NotificationQueue) Submit(ctx context.Context, n domain.Notification) (*domain.ReconcileResult, error) {
	if n.OrderID == "" {
		return nil, domain.ErrOrderIDMissing
	}

	payload, err := json.Marshal(NotificationMessage{
		SchemaVersion: SchemaVersion,
		ReceivedAt:    q.now().UTC(),
		Notification:  n,
	})
	if err != nil {
		return nil, fmt.Errorf("encode notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, ProduceTimeout)
	defer cancel()

	record := &kgo.Record{
		Topic: TopicNotificationRequest,
		Key:   []byte(n.OrderID),
		Value: payload,
	}
	if err := q.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return nil, fmt.Errorf("enqueue notification %s: %w", n.OrderID, err)
	}

	q.logger.Info("notification queued", zap.String("order_id", n.OrderID))
	return nil, nil
}

// SettledPublisher publishes PaymentSettled events after commit.
type SettledPublisher struct {
	client Producer
}

func NewSettledPublisher(client Producer) *SettledPublisher {
	return &SettledPublisher{client: client}
}

func (p *SettledPublisher) PublishPaymentSettled(ctx context.Context, evt domain.PaymentSettled) error {
	payload, err := json.Marshal(SettledMessage{SchemaVersion: SchemaVersion, PaymentSettled: evt})
	if err != nil {
		return fmt.Errorf("encode settled event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, ProduceTimeout)
	defer cancel()

	record := &kgo.Record{
		Topic: TopicPaymentSettled,
		Key:   []byte(evt.UserID.String()),
		Value: payload,
	}
	return p.client.ProduceSync(ctx, record).FirstErr()
}

var (
	_ usecase.NotificationSink = (*NotificationQueue)(nil)
	_ usecase.EventPublisher   = (*SettledPublisher)(nil)
)
