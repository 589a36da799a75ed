package kafka

import (
	"context"

	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/azizikri/course-commerce/internal/usecase"
)

// Reconciler processes one notification.
type Reconciler interface {
	Process(ctx context.Context, n domain.Notification) (*domain.ReconcileResult, error)
}

// DirectSink reconciles notifications inside the HTTP request.
type DirectSink struct {
	reconciler Reconciler
}

func NewDirectSink(reconciler Reconciler) usecase.NotificationSink {
	return &DirectSink{reconciler: reconciler}
}

func (s *DirectSink) Submit(ctx context.Context, n domain.Notification) (*domain.ReconcileResult, error) {
	return s.reconciler.Process(ctx, n)
}
