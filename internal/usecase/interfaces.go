package usecase

import (
	"context"

	"github.com/azizikri/course-commerce/internal/domain"
)

// PaymentGateway opens a hosted payment for an order.
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error)
}

// Locker serializes work per key. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type EventPublisher interface {
	PublishPaymentSettled(ctx context.Context, evt domain.PaymentSettled) error
}

// NotificationSink accepts gateway notifications. Synchronous sinks return
// the reconcile result; queueing sinks return nil after the hand-off.
type NotificationSink interface {
	Submit(ctx context.Context, n domain.Notification) (*domain.ReconcileResult, error)
}

type nopPublisher struct{}

func (nopPublisher) PublishPaymentSettled(context.Context, domain.PaymentSettled) error {
	return nil
}
