// Package pricing computes course prices from course discounts and coupons.
// All amounts are integers in the smallest currency unit.
package pricing

import (
	"time"

	"github.com/azizikri/course-commerce/internal/domain"
)

// EffectivePrice returns the course price after its own discount, if that
// discount is switched on and now falls inside its window.
func EffectivePrice(course domain.Course, now time.Time) int64 {
	base := nonNegative(course.Price)
	if !DiscountApplies(course, now) {
		return base
	}
	return subtract(base, discount(base, course.DiscountType, course.DiscountValue))
}

// DiscountApplies reports whether the course discount is in effect at now.
// Either window bound may be absent.
func DiscountApplies(course domain.Course, now time.Time) bool {
	if !course.DiscountActive {
		return false
	}
	if course.DiscountStartAt != nil && now.Before(*course.DiscountStartAt) {
		return false
	}
	if course.DiscountEndAt != nil && now.After(*course.DiscountEndAt) {
		return false
	}
	return true
}

// ApplyCoupon takes the coupon discount off an already discounted price.
func ApplyCoupon(price int64, coupon domain.Coupon) int64 {
	price = nonNegative(price)
	return subtract(price, discount(price, coupon.Type, coupon.Value))
}

// Quote prices a course with an optional coupon.
func Quote(course domain.Course, coupon *domain.Coupon, now time.Time) domain.Quote {
	q := domain.Quote{
		CourseID:   course.ID,
		BasePrice:  nonNegative(course.Price),
		Discounted: EffectivePrice(course, now),
	}
	q.Final = q.Discounted
	if coupon != nil {
		q.Final = ApplyCoupon(q.Discounted, *coupon)
		q.CouponCode = coupon.Code
	}
	return q
}

func discount(amount int64, kind domain.DiscountType, value int64) int64 {
	value = nonNegative(value)
	switch kind {
	case domain.DiscountPercent:
		// amount and value are non-negative, so integer division floors.
		return amount * value / 100
	case domain.DiscountNominal:
		return value
	default:
		return 0
	}
}

func subtract(amount, off int64) int64 {
	if off >= amount {
		return 0
	}
	return amount - off
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
