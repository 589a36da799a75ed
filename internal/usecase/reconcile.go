package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	db "github.com/azizikri/course-commerce/db/gen"
	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/azizikri/course-commerce/internal/repository"
	"go.uber.org/zap"
)

// Notification outcomes reported to a ReconcileObserver.
const (
	OutcomeSettled   = "settled"
	OutcomeExpired   = "expired"
	OutcomePending   = "pending"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

type ReconcileObserver interface {
	NotificationProcessed(outcome string)
}

// PaymentReconciler applies gateway notifications to checkout sessions.
// Each notification is handled in one transaction holding the session row
// lock, so replays and concurrent deliveries converge on one transition.
type PaymentReconciler struct {
	store    repository.Store
	ledger   *CouponLedger
	events   EventPublisher
	observer ReconcileObserver
	logger   *zap.Logger
	now      func() time.Time
}

func NewPaymentReconciler(store repository.Store, ledger *CouponLedger, events EventPublisher, observer ReconcileObserver, logger *zap.Logger) *PaymentReconciler {
	if events == nil {
		events = nopPublisher{}
	}
	return &PaymentReconciler{
		store:    store,
		ledger:   ledger,
		events:   events,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *PaymentReconciler) Process(ctx context.Context, n domain.Notification) (*domain.ReconcileResult, error) {
	result, err := r.process(ctx, n)
	r.observe(result, err)
	return result, err
}

func (r *PaymentReconciler) process(ctx context.Context, n domain.Notification) (*domain.ReconcileResult, error) {
	orderID := strings.TrimSpace(n.OrderID)
	if orderID == "" {
		return nil, domain.ErrOrderIDMissing
	}
	status := domain.ParseTransactionStatus(n.TransactionStatus)
	now := r.now()

	result := &domain.ReconcileResult{OrderID: orderID}
	var settled *domain.PaymentSettled

	err := r.store.ExecTx(ctx, func(q repository.Querier) error {
		row, err := q.GetSessionByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			if repository.IsNotFound(err) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("lock session for order %s: %w", orderID, err)
		}
		session := toSession(row)
		result.SessionID = session.ID
		result.Status = session.PaymentStatus

		if session.PaymentStatus.Terminal() {
			return nil
		}

		if err := q.UpdateSessionAudit(ctx, db.UpdateSessionAuditParams{
			ID:            session.ID,
			TransactionID: text(n.TransactionID),
			FraudStatus:   text(n.FraudStatus),
		}); err != nil {
			return fmt.Errorf("record gateway audit: %w", err)
		}

		switch status {
		case domain.TransactionSettlement:
			paid, err := q.MarkSessionPaid(ctx, db.MarkSessionPaidParams{
				ID:          session.ID,
				PaymentType: row.PaymentType,
				PaidAt:      timestamptz(now),
			})
			if err != nil {
				return fmt.Errorf("mark session paid: %w", err)
			}

			// Courses the user came to own through another session stay
			// inactive; the rest of the order still activates.
			activated, err := q.ActivateUnownedSessionEnrollments(ctx, session.ID)
			if err != nil {
				return fmt.Errorf("activate enrollments for order %s: %w", orderID, err)
			}
			skipped, err := q.ListSessionEnrollments(ctx, session.ID)
			if err != nil {
				return fmt.Errorf("list enrollments for order %s: %w", orderID, err)
			}
			for _, e := range skipped {
				if e.AccessStatus != string(domain.AccessInactive) {
					continue
				}
				result.AlreadyOwned = append(result.AlreadyOwned, e.CourseID)
				r.logger.Error("paid course already owned, refund required",
					zap.String("order_id", orderID),
					zap.String("course_id", e.CourseID.String()),
					zap.Int64("price", e.Price),
				)
			}

			for _, e := range activated {
				if !e.CouponID.Valid {
					continue
				}
				recorded, err := r.ledger.RecordUsage(ctx, q, e.UserID, e.CourseID, e.CouponID.UUID, now)
				if errors.Is(err, domain.ErrCouponExhausted) {
					r.logger.Warn("coupon exhausted at settlement, usage not recorded",
						zap.String("order_id", orderID),
						zap.String("coupon_id", e.CouponID.UUID.String()),
						zap.String("course_id", e.CourseID.String()),
					)
					continue
				}
				if err != nil {
					return err
				}
				if recorded {
					result.CouponsUsed++
				}
			}

			result.Status = domain.PaymentPaid
			result.Changed = true
			result.EnrollmentIDs = enrollmentIDs(activated)
			settled = &domain.PaymentSettled{
				SessionID:     session.ID,
				UserID:        session.UserID,
				OrderID:       orderID,
				EnrollmentIDs: result.EnrollmentIDs,
				PaidAt:        paid.PaidAt.Time,
			}
		case domain.TransactionExpire:
			if _, err := q.MarkSessionExpired(ctx, session.ID); err != nil {
				return fmt.Errorf("mark session expired: %w", err)
			}
			result.Status = domain.PaymentExpired
			result.Changed = true
		}
		return nil
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindReconciliation {
			r.logger.Warn("notification rejected", zap.String("order_id", orderID), zap.Error(err))
		}
		return nil, err
	}

	if settled != nil {
		if err := r.events.PublishPaymentSettled(ctx, *settled); err != nil {
			r.logger.Warn("publish payment settled", zap.String("order_id", orderID), zap.Error(err))
		}
	}

	r.logger.Info("notification reconciled",
		zap.String("order_id", orderID),
		zap.String("transaction_status", status.String()),
		zap.String("payment_status", string(result.Status)),
		zap.Bool("changed", result.Changed),
	)
	return result, nil
}

func (r *PaymentReconciler) observe(result *domain.ReconcileResult, err error) {
	if r.observer == nil {
		return
	}
	r.observer.NotificationProcessed(outcomeOf(result, err))
}

func outcomeOf(result *domain.ReconcileResult, err error) string {
	switch {
	case err != nil && domain.KindOf(err) == domain.KindReconciliation:
		return OutcomeRejected
	case err != nil:
		return OutcomeFailed
	case !result.Changed && result.Status.Terminal():
		return OutcomeDuplicate
	case result.Status == domain.PaymentPaid:
		return OutcomeSettled
	case result.Status == domain.PaymentExpired:
		return OutcomeExpired
	default:
		return OutcomePending
	}
}
