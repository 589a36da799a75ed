package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	db "github.com/azizikri/course-commerce/db/gen"
	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/azizikri/course-commerce/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

// CouponLedger owns coupon definitions and the exactly-once usage record.
type CouponLedger struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewCouponLedger(store repository.Store, logger *zap.Logger) *CouponLedger {
	return &CouponLedger{store: store, logger: logger, now: time.Now}
}

type CreateCouponInput struct {
	Code     string
	Type     domain.DiscountType
	Value    int64
	StartAt  time.Time
	EndAt    time.Time
	Active   bool
	MaxUsage *int
}

func (in CreateCouponInput) validate() error {
	switch {
	case strings.TrimSpace(in.Code) == "":
		return domain.ErrInvalidCoupon
	case !in.Type.Valid():
		return domain.ErrInvalidCoupon
	case in.Value < 0:
		return domain.ErrInvalidCoupon
	case in.Type == domain.DiscountPercent && in.Value > 100:
		return domain.ErrInvalidCoupon
	case in.StartAt.IsZero() || in.EndAt.IsZero() || in.EndAt.Before(in.StartAt):
		return domain.ErrInvalidCoupon
	case in.MaxUsage != nil && *in.MaxUsage < 0:
		return domain.ErrInvalidCoupon
	}
	return nil
}

func (l *CouponLedger) CreateCoupon(ctx context.Context, in CreateCouponInput) (*domain.Coupon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	params := db.CreateCouponParams{
		Code:     strings.TrimSpace(in.Code),
		Type:     string(in.Type),
		Value:    in.Value,
		StartAt:  timestamptz(in.StartAt),
		EndAt:    timestamptz(in.EndAt),
		IsActive: in.Active,
	}
	if in.MaxUsage != nil {
		params.MaxUsage = pgtype.Int4{Int32: int32(*in.MaxUsage), Valid: true}
	}

	row, err := l.store.CreateCoupon(ctx, params)
	if err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintCouponCode) {
			return nil, domain.ErrDuplicateCoupon
		}
		return nil, fmt.Errorf("create coupon %q: %w", params.Code, err)
	}

	coupon := toCoupon(row)
	l.logger.Info("coupon created", zap.String("code", coupon.Code), zap.String("type", string(coupon.Type)))
	return &coupon, nil
}

func (l *CouponLedger) GetCouponDetails(ctx context.Context, code string) (*domain.CouponDetails, error) {
	coupon, err := l.Lookup(ctx, l.store, code)
	if err != nil {
		return nil, err
	}

	rows, err := l.store.ListCouponUsages(ctx, coupon.ID)
	if err != nil {
		return nil, fmt.Errorf("list usages of %q: %w", coupon.Code, err)
	}

	usages := make([]domain.CouponUsage, 0, len(rows))
	for _, u := range rows {
		usages = append(usages, toCouponUsage(u))
	}
	return &domain.CouponDetails{Coupon: *coupon, Usages: usages}, nil
}

// Lookup resolves a coupon code through q, which may be the store or an
// open transaction.
func (l *CouponLedger) Lookup(ctx context.Context, q repository.Querier, code string) (*domain.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrCouponNotFound
	}
	row, err := q.GetCouponByCode(ctx, code)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon %q: %w", code, err)
	}
	coupon := toCoupon(row)
	return &coupon, nil
}

// Validate checks that coupon may be applied by user to course at now.
// A coupon past its cap fails regardless of its window.
func (l *CouponLedger) Validate(ctx context.Context, q repository.Querier, coupon *domain.Coupon, userID, courseID uuid.UUID, now time.Time) error {
	if coupon == nil {
		return domain.ErrCouponNotFound
	}
	if !coupon.Active {
		return domain.ErrCouponInactive
	}
	if coupon.Exhausted() {
		return domain.ErrCouponExhausted
	}
	if now.Before(coupon.StartAt) || now.After(coupon.EndAt) {
		return domain.ErrCouponOutOfWindow
	}

	used, err := q.HasCouponUsage(ctx, db.HasCouponUsageParams{UserID: userID, CourseID: courseID})
	if err != nil {
		return fmt.Errorf("check coupon usage: %w", err)
	}
	if used {
		return domain.ErrCouponAlreadyUsed
	}
	return nil
}

// RecordUsage writes the (user, course) usage row and bumps the coupon
// counter, both inside the caller's transaction q. It reports whether a new
// usage was recorded; an existing usage for the pair is a no-op. A capped
// coupon returns ErrCouponExhausted before anything is written.
func (l *CouponLedger) RecordUsage(ctx context.Context, q repository.Querier, userID, courseID, couponID uuid.UUID, now time.Time) (bool, error) {
	row, err := q.GetCouponForUpdate(ctx, couponID)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, domain.ErrCouponNotFound
		}
		return false, fmt.Errorf("lock coupon %s: %w", couponID, err)
	}

	used, err := q.HasCouponUsage(ctx, db.HasCouponUsageParams{UserID: userID, CourseID: courseID})
	if err != nil {
		return false, fmt.Errorf("check coupon usage: %w", err)
	}
	if used {
		return false, nil
	}

	coupon := toCoupon(row)
	if coupon.Exhausted() {
		return false, domain.ErrCouponExhausted
	}

	inserted, err := q.InsertCouponUsage(ctx, db.InsertCouponUsageParams{
		UserID:   userID,
		CourseID: courseID,
		CouponID: couponID,
		UsedAt:   timestamptz(now),
	})
	if err != nil {
		return false, fmt.Errorf("insert coupon usage: %w", err)
	}
	if inserted == 0 {
		return false, nil
	}

	if _, err := q.IncrementCouponUsage(ctx, couponID); err != nil {
		// Counter drifted from the usage rows; abort the transaction.
		return false, fmt.Errorf("increment coupon %s usage: %w", coupon.Code, err)
	}

	l.logger.Info("coupon usage recorded",
		zap.String("code", coupon.Code),
		zap.String("user_id", userID.String()),
		zap.String("course_id", courseID.String()),
	)
	return true, nil
}
