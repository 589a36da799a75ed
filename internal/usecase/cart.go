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

// CartService manages the single pending cart session a user may hold.
type CartService struct {
	store  repository.Store
	locker Locker
	logger *zap.Logger
	now    func() time.Time
}

func NewCartService(store repository.Store, locker Locker, logger *zap.Logger) *CartService {
	return &CartService{store: store, locker: locker, logger: logger, now: time.Now}
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	if _, err := loadUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	session, err := s.store.GetPendingCartSession(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return &domain.Cart{Items: []domain.CartItem{}}, nil
		}
		return nil, fmt.Errorf("get cart session: %w", err)
	}

	rows, err := s.store.ListCartItems(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	cart := &domain.Cart{
		SessionID:      &session.ID,
		GatewayOrderID: session.GatewayOrderID.String,
		Items:          make([]domain.CartItem, 0, len(rows)),
	}
	for _, row := range rows {
		cart.Items = append(cart.Items, domain.CartItem{
			EnrollmentID: row.ID,
			CourseID:     row.CourseID,
			Title:        row.Title,
			BasePrice:    row.BasePrice,
			Price:        row.Price,
		})
		cart.Total += row.Price
	}
	return cart, nil
}

// AddToCart puts course into the user's pending cart, creating the cart on
// first use. The line item is priced at the course's effective price now.
func (s *CartService) AddToCart(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	if _, err := loadUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	course, err := loadCourse(ctx, s.store, courseID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, cartLockKey(userID))
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	defer unlock()

	var enrollment domain.Enrollment
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		owned, err := q.HasOwnedEnrollment(ctx, db.HasOwnedEnrollmentParams{UserID: userID, CourseID: courseID})
		if err != nil {
			return fmt.Errorf("check ownership: %w", err)
		}
		if owned {
			return domain.ErrAlreadyEnrolled
		}

		_, err = q.GetCartItem(ctx, db.GetCartItemParams{UserID: userID, CourseID: courseID})
		if err == nil {
			return domain.ErrAlreadyInCart
		}
		if !repository.IsNotFound(err) {
			return fmt.Errorf("get cart item: %w", err)
		}
		if err := ensureNoOpenOrder(ctx, q, userID, courseID, domain.SessionDirect); err != nil {
			return err
		}

		session, err := q.UpsertPendingCartSession(ctx, userID)
		if err != nil {
			return fmt.Errorf("upsert cart session: %w", err)
		}
		if session.GatewayOrderID.Valid {
			return domain.ErrCartCheckoutPending
		}

		row, err := q.CreateEnrollment(ctx, db.CreateEnrollmentParams{
			SessionID:    session.ID,
			UserID:       userID,
			CourseID:     courseID,
			Price:        pricing.EffectivePrice(course, s.now()),
			AccessStatus: string(domain.AccessInactive),
		})
		if err != nil {
			if repository.IsUniqueViolation(err, repository.ConstraintSessionCourse) {
				return domain.ErrAlreadyInCart
			}
			return fmt.Errorf("create cart item: %w", err)
		}
		enrollment = toEnrollment(row)

		return refreshCartTotals(ctx, q, session.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("course added to cart",
		zap.String("user_id", userID.String()),
		zap.String("course_id", courseID.String()),
		zap.Int64("price", enrollment.Price),
	)
	return &enrollment, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, courseID uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, cartLockKey(userID))
	if err != nil {
		return fmt.Errorf("lock cart: %w", err)
	}
	defer unlock()

	return s.store.ExecTx(ctx, func(q repository.Querier) error {
		session, err := q.LockPendingCartSession(ctx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return domain.ErrCartEmpty
			}
			return fmt.Errorf("lock cart session: %w", err)
		}
		if session.GatewayOrderID.Valid {
			return domain.ErrCartCheckoutPending
		}

		deleted, err := q.DeleteCartItem(ctx, db.DeleteCartItemParams{SessionID: session.ID, CourseID: courseID})
		if err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
		if deleted == 0 {
			return domain.ErrCourseNotInCart
		}

		return refreshCartTotals(ctx, q, session.ID)
	})
}

// refreshCartTotals keeps the session's gross amount and payment type in
// line with its current items.
func refreshCartTotals(ctx context.Context, q repository.Querier, sessionID uuid.UUID) error {
	rows, err := q.ListCartItems(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("list cart items: %w", err)
	}

	var total int64
	for _, row := range rows {
		total += row.Price
	}
	paymentType := domain.PaymentGateway
	if total <= 0 {
		paymentType = domain.PaymentFree
	}

	if err := q.UpdateSessionPaymentType(ctx, db.UpdateSessionPaymentTypeParams{
		ID:          sessionID,
		PaymentType: string(paymentType),
		GrossAmount: total,
	}); err != nil {
		return fmt.Errorf("update cart totals: %w", err)
	}
	return nil
}
