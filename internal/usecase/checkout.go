package usecase

import (
	"context"
	"fmt"
	"time"

	db "github.com/azizikri/course-commerce/db/gen"
	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/azizikri/course-commerce/internal/pricing"
	"github.com/azizikri/course-commerce/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutObserver is told about every completed purchase.
type CheckoutObserver interface {
	CheckoutCompleted(flow string, free bool)
}

const (
	FlowBuyNow = "buy_now"
	FlowCart   = "cart"
)

type CheckoutOrchestrator struct {
	store       repository.Store
	ledger      *CouponLedger
	gateway     PaymentGateway
	locker      Locker
	observer    CheckoutObserver
	orderPrefix string
	logger      *zap.Logger
	now         func() time.Time
}

type CheckoutConfig struct {
	OrderPrefix string
	Observer    CheckoutObserver
}

func NewCheckoutOrchestrator(store repository.Store, ledger *CouponLedger, gateway PaymentGateway, locker Locker, cfg CheckoutConfig, logger *zap.Logger) *CheckoutOrchestrator {
	prefix := cfg.OrderPrefix
	if prefix == "" {
		prefix = "ORD"
	}
	return &CheckoutOrchestrator{
		store:       store,
		ledger:      ledger,
		gateway:     gateway,
		locker:      locker,
		observer:    cfg.Observer,
		orderPrefix: prefix,
		logger:      logger,
		now:         time.Now,
	}
}

type BuyNowInput struct {
	UserID     uuid.UUID
	CourseID   uuid.UUID
	CouponCode string
}

// Quote prices a course for a user, validating the coupon when one is given.
func (o *CheckoutOrchestrator) Quote(ctx context.Context, userID, courseID uuid.UUID, couponCode string) (*domain.Quote, error) {
	course, err := loadCourse(ctx, o.store, courseID)
	if err != nil {
		return nil, err
	}
	now := o.now()

	coupon, err := o.resolveCoupon(ctx, o.store, couponCode, userID, courseID, now)
	if err != nil {
		return nil, err
	}
	quote := pricing.Quote(course, coupon, now)
	return &quote, nil
}

// BuyNow purchases a single course. Free purchases complete at once; paid
// ones reuse any pending direct session for the same course and hand back
// the gateway redirect.
func (o *CheckoutOrchestrator) BuyNow(ctx context.Context, in BuyNowInput) (*domain.PurchaseResult, error) {
	user, err := loadUser(ctx, o.store, in.UserID)
	if err != nil {
		return nil, err
	}
	course, err := loadCourse(ctx, o.store, in.CourseID)
	if err != nil {
		return nil, err
	}

	if err := o.ensureNotOwned(ctx, o.store, user.ID, course.ID); err != nil {
		return nil, err
	}

	unlock, err := o.locker.Lock(ctx, cartLockKey(user.ID))
	if err != nil {
		return nil, fmt.Errorf("lock purchase: %w", err)
	}
	defer unlock()

	now := o.now()
	coupon, err := o.resolveCoupon(ctx, o.store, in.CouponCode, user.ID, course.ID, now)
	if err != nil {
		return nil, err
	}
	quote := pricing.Quote(course, coupon, now)

	var result *domain.PurchaseResult
	if quote.Final <= 0 {
		result, err = o.buyFree(ctx, user, course, coupon, now)
	} else {
		result, err = o.buyPaid(ctx, user, course, coupon, quote.Final)
	}
	if err != nil {
		return nil, err
	}

	o.completed(FlowBuyNow, result)
	return result, nil
}

func (o *CheckoutOrchestrator) buyFree(ctx context.Context, user domain.User, course domain.Course, coupon *domain.Coupon, now time.Time) (*domain.PurchaseResult, error) {
	var couponID *uuid.UUID
	if coupon != nil {
		couponID = &coupon.ID
	}

	result := &domain.PurchaseResult{Free: true}
	err := o.store.ExecTx(ctx, func(q repository.Querier) error {
		if err := o.ensureNotOwned(ctx, q, user.ID, course.ID); err != nil {
			return err
		}

		if err := ensureNoOpenOrder(ctx, q, user.ID, course.ID, domain.SessionCart); err != nil {
			return err
		}

		session, err := q.GetPendingDirectSession(ctx, db.GetPendingDirectSessionParams{UserID: user.ID, CourseID: course.ID})
		switch {
		case err == nil:
			// The hosted payment page of a bound order can still be paid.
			if session.GatewayOrderID.Valid {
				return domain.ErrPurchasePending
			}
			if err := repriceSession(ctx, q, session.ID, course.ID, 0, couponID); err != nil {
				return err
			}
			if err := q.UpdateSessionPaymentType(ctx, db.UpdateSessionPaymentTypeParams{
				ID:          session.ID,
				PaymentType: string(domain.PaymentFree),
				GrossAmount: 0,
			}); err != nil {
				return fmt.Errorf("reset session amount: %w", err)
			}
		case repository.IsNotFound(err):
			session, err = q.CreateCheckoutSession(ctx, db.CreateCheckoutSessionParams{
				UserID:        user.ID,
				Kind:          string(domain.SessionDirect),
				PaymentStatus: string(domain.PaymentPending),
				PaymentType:   string(domain.PaymentFree),
			})
			if err != nil {
				return fmt.Errorf("create direct session: %w", err)
			}
			if _, err := q.CreateEnrollment(ctx, db.CreateEnrollmentParams{
				SessionID:    session.ID,
				UserID:       user.ID,
				CourseID:     course.ID,
				CouponID:     nullUUID(couponID),
				Price:        0,
				AccessStatus: string(domain.AccessInactive),
			}); err != nil {
				return fmt.Errorf("create enrollment: %w", err)
			}
		default:
			return fmt.Errorf("get pending direct session: %w", err)
		}

		if coupon != nil {
			if _, err := o.ledger.RecordUsage(ctx, q, user.ID, course.ID, coupon.ID, now); err != nil {
				return err
			}
		}

		ids, err := settleFree(ctx, q, session.ID, now)
		if err != nil {
			return err
		}
		result.SessionID = session.ID
		result.EnrollmentIDs = ids
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.logger.Info("free purchase completed",
		zap.String("user_id", user.ID.String()),
		zap.String("course_id", course.ID.String()),
		zap.String("session_id", result.SessionID.String()),
	)
	return result, nil
}

func (o *CheckoutOrchestrator) buyPaid(ctx context.Context, user domain.User, course domain.Course, coupon *domain.Coupon, amount int64) (*domain.PurchaseResult, error) {
	var couponID *uuid.UUID
	if coupon != nil {
		couponID = &coupon.ID
	}

	result := &domain.PurchaseResult{Amount: amount}
	err := o.store.ExecTx(ctx, func(q repository.Querier) error {
		if err := o.ensureNotOwned(ctx, q, user.ID, course.ID); err != nil {
			return err
		}

		if err := ensureNoOpenOrder(ctx, q, user.ID, course.ID, domain.SessionCart); err != nil {
			return err
		}

		session, err := q.GetPendingDirectSession(ctx, db.GetPendingDirectSessionParams{UserID: user.ID, CourseID: course.ID})
		switch {
		case err == nil:
			if err := repriceSession(ctx, q, session.ID, course.ID, amount, couponID); err != nil {
				return err
			}
			orderID := session.GatewayOrderID.String
			if !session.GatewayOrderID.Valid {
				orderID = NewOrderID(o.orderPrefix, o.now())
			}
			if _, err := q.BindSessionOrder(ctx, db.BindSessionOrderParams{
				ID:             session.ID,
				GatewayOrderID: text(orderID),
				GrossAmount:    amount,
			}); err != nil {
				return fmt.Errorf("bind order %s: %w", orderID, err)
			}
			result.SessionID = session.ID
			result.OrderID = orderID
		case repository.IsNotFound(err):
			orderID := NewOrderID(o.orderPrefix, o.now())
			session, err = q.CreateCheckoutSession(ctx, db.CreateCheckoutSessionParams{
				UserID:         user.ID,
				Kind:           string(domain.SessionDirect),
				PaymentStatus:  string(domain.PaymentPending),
				PaymentType:    string(domain.PaymentGateway),
				GatewayOrderID: text(orderID),
				GrossAmount:    amount,
			})
			if err != nil {
				return fmt.Errorf("create direct session: %w", err)
			}
			if _, err := q.CreateEnrollment(ctx, db.CreateEnrollmentParams{
				SessionID:    session.ID,
				UserID:       user.ID,
				CourseID:     course.ID,
				CouponID:     nullUUID(couponID),
				Price:        amount,
				AccessStatus: string(domain.AccessInactive),
			}); err != nil {
				return fmt.Errorf("create enrollment: %w", err)
			}
			result.SessionID = session.ID
			result.OrderID = orderID
		default:
			return fmt.Errorf("get pending direct session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	req := domain.TransactionRequest{
		OrderID:  result.OrderID,
		Amount:   amount,
		Customer: user,
		Items:    []domain.TransactionItem{{ID: course.ID.String(), Name: course.Title, Price: amount}},
	}
	if err := o.openPayment(ctx, result, req); err != nil {
		return nil, err
	}
	return result, nil
}

// CheckoutCart checks out the user's pending cart. Items are repriced until
// a gateway order is bound; after that the bound snapshot is charged again.
func (o *CheckoutOrchestrator) CheckoutCart(ctx context.Context, userID uuid.UUID) (*domain.PurchaseResult, error) {
	user, err := loadUser(ctx, o.store, userID)
	if err != nil {
		return nil, err
	}

	unlock, err := o.locker.Lock(ctx, cartLockKey(userID))
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	defer unlock()

	now := o.now()
	result := &domain.PurchaseResult{}
	var req *domain.TransactionRequest

	err = o.store.ExecTx(ctx, func(q repository.Querier) error {
		session, err := q.LockPendingCartSession(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return domain.ErrCartEmpty
			}
			return fmt.Errorf("lock cart session: %w", err)
		}

		rows, err := q.ListCartItems(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("list cart items: %w", err)
		}
		if len(rows) == 0 {
			return domain.ErrCartEmpty
		}

		bound := session.GatewayOrderID.Valid
		items := make([]domain.TransactionItem, 0, len(rows))
		var total int64
		for _, row := range rows {
			if err := o.ensureNotOwned(ctx, q, userID, row.CourseID); err != nil {
				return err
			}
			if err := ensureNoOpenOrder(ctx, q, userID, row.CourseID, domain.SessionDirect); err != nil {
				return err
			}

			price := row.Price
			if !bound {
				price = pricing.EffectivePrice(courseFromCartRow(row), now)
				if price != row.Price {
					if err := q.UpdateEnrollmentPricing(ctx, db.UpdateEnrollmentPricingParams{
						ID:       row.ID,
						Price:    price,
						CouponID: row.CouponID,
					}); err != nil {
						return fmt.Errorf("reprice cart item: %w", err)
					}
				}
			}
			total += price
			items = append(items, domain.TransactionItem{ID: row.CourseID.String(), Name: row.Title, Price: price})
		}

		result.SessionID = session.ID
		if total <= 0 {
			ids, err := settleFree(ctx, q, session.ID, now)
			if err != nil {
				return err
			}
			result.Free = true
			result.EnrollmentIDs = ids
			return nil
		}

		orderID := session.GatewayOrderID.String
		if !bound {
			orderID = NewOrderID(o.orderPrefix, now)
			if _, err := q.BindSessionOrder(ctx, db.BindSessionOrderParams{
				ID:             session.ID,
				GatewayOrderID: text(orderID),
				GrossAmount:    total,
			}); err != nil {
				return fmt.Errorf("bind order %s: %w", orderID, err)
			}
		}

		result.OrderID = orderID
		result.Amount = total
		req = &domain.TransactionRequest{OrderID: orderID, Amount: total, Customer: user, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req != nil {
		if err := o.openPayment(ctx, result, *req); err != nil {
			return nil, err
		}
	} else {
		o.logger.Info("free cart checkout completed",
			zap.String("user_id", userID.String()),
			zap.Int("items", len(result.EnrollmentIDs)),
		)
	}

	o.completed(FlowCart, result)
	return result, nil
}

// openPayment asks the gateway for a hosted payment after the session has
// been committed, then stores the redirect on a best-effort basis.
func (o *CheckoutOrchestrator) openPayment(ctx context.Context, result *domain.PurchaseResult, req domain.TransactionRequest) error {
	txn, err := o.gateway.CreateTransaction(ctx, req)
	if err != nil {
		o.logger.Error("gateway transaction failed",
			zap.String("order_id", req.OrderID),
			zap.Int64("amount", req.Amount),
			zap.Error(err),
		)
		if domain.KindOf(err) == domain.KindExternal {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	result.Token = txn.Token
	result.RedirectURL = txn.RedirectURL

	if err := o.store.UpdateSessionRedirect(ctx, db.UpdateSessionRedirectParams{
		ID:          result.SessionID,
		RedirectUrl: text(txn.RedirectURL),
	}); err != nil {
		o.logger.Warn("store redirect url", zap.String("order_id", req.OrderID), zap.Error(err))
	}

	o.logger.Info("gateway transaction opened",
		zap.String("order_id", req.OrderID),
		zap.Int64("amount", req.Amount),
	)
	return nil
}

func (o *CheckoutOrchestrator) resolveCoupon(ctx context.Context, q repository.Querier, code string, userID, courseID uuid.UUID, now time.Time) (*domain.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	coupon, err := o.ledger.Lookup(ctx, q, code)
	if err != nil {
		return nil, err
	}
	if err := o.ledger.Validate(ctx, q, coupon, userID, courseID, now); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (o *CheckoutOrchestrator) ensureNotOwned(ctx context.Context, q repository.Querier, userID, courseID uuid.UUID) error {
	owned, err := q.HasOwnedEnrollment(ctx, db.HasOwnedEnrollmentParams{UserID: userID, CourseID: courseID})
	if err != nil {
		return fmt.Errorf("check ownership: %w", err)
	}
	if owned {
		return domain.ErrAlreadyEnrolled
	}
	return nil
}

// ensureNoOpenOrder fails when course is already held by a pending session
// of the given kind whose gateway order may still be paid.
func ensureNoOpenOrder(ctx context.Context, q repository.Querier, userID, courseID uuid.UUID, kind domain.SessionKind) error {
	open, err := q.HasOpenOrder(ctx, db.HasOpenOrderParams{UserID: userID, CourseID: courseID, Kind: string(kind)})
	if err != nil {
		return fmt.Errorf("check open orders: %w", err)
	}
	if open {
		return domain.ErrPurchasePending
	}
	return nil
}

func (o *CheckoutOrchestrator) completed(flow string, result *domain.PurchaseResult) {
	if o.observer != nil {
		o.observer.CheckoutCompleted(flow, result.Free)
	}
}

// repriceSession updates the pending line item for course in session.
func repriceSession(ctx context.Context, q repository.Querier, sessionID, courseID uuid.UUID, price int64, couponID *uuid.UUID) error {
	rows, err := q.ListSessionEnrollments(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("list session enrollments: %w", err)
	}
	for _, e := range rows {
		if e.CourseID != courseID || e.AccessStatus != string(domain.AccessInactive) {
			continue
		}
		if err := q.UpdateEnrollmentPricing(ctx, db.UpdateEnrollmentPricingParams{
			ID:       e.ID,
			Price:    price,
			CouponID: nullUUID(couponID),
		}); err != nil {
			return fmt.Errorf("reprice enrollment: %w", err)
		}
	}
	return nil
}

// settleFree marks a pending session paid as free and activates its items.
func settleFree(ctx context.Context, q repository.Querier, sessionID uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	if _, err := q.MarkSessionPaid(ctx, db.MarkSessionPaidParams{
		ID:          sessionID,
		PaymentType: string(domain.PaymentFree),
		PaidAt:      timestamptz(now),
	}); err != nil {
		return nil, fmt.Errorf("mark session paid: %w", err)
	}

	rows, err := q.ActivateSessionEnrollments(ctx, sessionID)
	if err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintOwnedCourse) {
			return nil, domain.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("activate enrollments: %w", err)
	}
	return enrollmentIDs(rows), nil
}
