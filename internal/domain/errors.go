package domain

import "errors"

// Kind groups errors by how callers must react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDomain
	KindExternal
	KindReconciliation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDomain:
		return "domain"
	case KindExternal:
		return "external"
	case KindReconciliation:
		return "reconciliation"
	default:
		return "internal"
	}
}

type Error struct {
	Kind Kind
	Code string
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, msg: msg}
}

var (
	ErrUserNotFound   = newError(KindValidation, "USER_NOT_FOUND", "user not found")
	ErrCourseNotFound = newError(KindValidation, "COURSE_NOT_FOUND", "course not found")
	ErrInvalidCoupon  = newError(KindValidation, "INVALID_COUPON", "invalid coupon definition")

	ErrAlreadyEnrolled     = newError(KindDomain, "ALREADY_ENROLLED", "user is already enrolled in this course")
	ErrAlreadyInCart       = newError(KindDomain, "ALREADY_IN_CART", "course is already in the cart")
	ErrCartEmpty           = newError(KindDomain, "CART_EMPTY", "cart is empty")
	ErrCourseNotInCart     = newError(KindDomain, "COURSE_NOT_IN_CART", "course is not in the cart")
	ErrCartCheckoutPending = newError(KindDomain, "CART_CHECKOUT_PENDING", "cart is awaiting payment")
	ErrDuplicateCoupon     = newError(KindDomain, "DUPLICATE_COUPON", "coupon already exists")
	ErrPurchasePending     = newError(KindDomain, "PURCHASE_PENDING", "a payment for this course is awaiting completion")

	ErrCouponNotFound    = newError(KindDomain, "COUPON_NOT_FOUND", "coupon not found")
	ErrCouponInactive    = newError(KindDomain, "COUPON_INACTIVE", "coupon is not active")
	ErrCouponOutOfWindow = newError(KindDomain, "COUPON_OUT_OF_WINDOW", "coupon is not valid at this time")
	ErrCouponExhausted   = newError(KindDomain, "COUPON_EXHAUSTED", "coupon usage limit reached")
	ErrCouponAlreadyUsed = newError(KindDomain, "COUPON_ALREADY_USED", "a coupon was already used for this course")

	ErrGatewayUnavailable = newError(KindExternal, "GATEWAY_UNAVAILABLE", "payment gateway request failed")

	ErrOrderIDMissing   = newError(KindReconciliation, "ORDER_ID_MISSING", "order id missing from notification")
	ErrOrderNotFound    = newError(KindReconciliation, "ORDER_NOT_FOUND", "no checkout session for order id")
	ErrInvalidSignature = newError(KindReconciliation, "INVALID_SIGNATURE", "notification signature mismatch")
)

// KindOf classifies err; unknown errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the stable error code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "INTERNAL_ERROR"
}
