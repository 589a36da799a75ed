package usecase

import (
	"context"
	"fmt"
	"time"

	db "github.com/azizikri/course-commerce/db/gen"
	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/azizikri/course-commerce/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func loadUser(ctx context.Context, q repository.Querier, id uuid.UUID) (domain.User, error) {
	row, err := q.GetUser(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return domain.User{ID: row.ID, Name: row.Name, Email: row.Email}, nil
}

func loadCourse(ctx context.Context, q repository.Querier, id uuid.UUID) (domain.Course, error) {
	row, err := q.GetCourse(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return domain.Course{}, domain.ErrCourseNotFound
		}
		return domain.Course{}, fmt.Errorf("get course %s: %w", id, err)
	}
	return toCourse(row), nil
}

func toCourse(c db.Course) domain.Course {
	return domain.Course{
		ID:              c.ID,
		Title:           c.Title,
		Price:           c.Price,
		DiscountType:    domain.DiscountType(c.DiscountType.String),
		DiscountValue:   c.DiscountValue,
		DiscountStartAt: timePtr(c.DiscountStartAt),
		DiscountEndAt:   timePtr(c.DiscountEndAt),
		DiscountActive:  c.IsDiscountActive,
	}
}

func courseFromCartRow(r db.ListCartItemsRow) domain.Course {
	return domain.Course{
		ID:              r.CourseID,
		Title:           r.Title,
		Price:           r.BasePrice,
		DiscountType:    domain.DiscountType(r.DiscountType.String),
		DiscountValue:   r.DiscountValue,
		DiscountStartAt: timePtr(r.DiscountStartAt),
		DiscountEndAt:   timePtr(r.DiscountEndAt),
		DiscountActive:  r.IsDiscountActive,
	}
}

func toCoupon(c db.Coupon) domain.Coupon {
	coupon := domain.Coupon{
		ID:        c.ID,
		Code:      c.Code,
		Type:      domain.DiscountType(c.Type),
		Value:     c.Value,
		StartAt:   c.StartAt.Time,
		EndAt:     c.EndAt.Time,
		Active:    c.IsActive,
		UsedCount: int(c.UsedCount),
		CreatedAt: c.CreatedAt.Time,
	}
	if c.MaxUsage.Valid {
		max := int(c.MaxUsage.Int32)
		coupon.MaxUsage = &max
	}
	return coupon
}

func toCouponUsage(u db.CouponUsage) domain.CouponUsage {
	return domain.CouponUsage{
		UserID:   u.UserID,
		CourseID: u.CourseID,
		CouponID: u.CouponID,
		UsedAt:   u.UsedAt.Time,
	}
}

func toSession(s db.CheckoutSession) domain.CheckoutSession {
	return domain.CheckoutSession{
		ID:             s.ID,
		UserID:         s.UserID,
		Kind:           domain.SessionKind(s.Kind),
		PaymentStatus:  domain.PaymentStatus(s.PaymentStatus),
		PaymentType:    domain.PaymentType(s.PaymentType),
		GatewayOrderID: s.GatewayOrderID.String,
		GrossAmount:    s.GrossAmount,
		RedirectURL:    s.RedirectUrl.String,
		TransactionID:  s.TransactionID.String,
		FraudStatus:    s.FraudStatus.String,
		PaidAt:         timePtr(s.PaidAt),
		CreatedAt:      s.CreatedAt.Time,
	}
}

func toEnrollment(e db.Enrollment) domain.Enrollment {
	enrollment := domain.Enrollment{
		ID:           e.ID,
		SessionID:    e.SessionID,
		UserID:       e.UserID,
		CourseID:     e.CourseID,
		Price:        e.Price,
		AccessStatus: domain.AccessStatus(e.AccessStatus),
	}
	if e.CouponID.Valid {
		id := e.CouponID.UUID
		enrollment.CouponID = &id
	}
	return enrollment
}

func enrollmentIDs(rows []db.Enrollment) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, e := range rows {
		ids = append(ids, e.ID)
	}
	return ids
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
