package domain

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountNominal DiscountType = "nominal"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercent || t == DiscountNominal
}

type SessionKind string

const (
	SessionDirect SessionKind = "direct"
	SessionCart   SessionKind = "cart"
)

type PaymentType string

const (
	PaymentFree    PaymentType = "free"
	PaymentGateway PaymentType = "gateway"
)

type AccessStatus string

const (
	AccessInactive  AccessStatus = "inactive"
	AccessActive    AccessStatus = "active"
	AccessCompleted AccessStatus = "completed"
)

type User struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Course is the read model for a purchasable course. Prices are integer
// amounts in the smallest currency unit.
type Course struct {
	ID              uuid.UUID
	Title           string
	Price           int64
	DiscountType    DiscountType
	DiscountValue   int64
	DiscountStartAt *time.Time
	DiscountEndAt   *time.Time
	DiscountActive  bool
}

type Coupon struct {
	ID        uuid.UUID
	Code      string
	Type      DiscountType
	Value     int64
	StartAt   time.Time
	EndAt     time.Time
	Active    bool
	MaxUsage  *int
	UsedCount int
	CreatedAt time.Time
}

// Exhausted reports whether the coupon reached its usage cap.
func (c *Coupon) Exhausted() bool {
	return c.MaxUsage != nil && c.UsedCount >= *c.MaxUsage
}

type CouponUsage struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
	CouponID uuid.UUID
	UsedAt   time.Time
}

type CouponDetails struct {
	Coupon Coupon
	Usages []CouponUsage
}

type CheckoutSession struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Kind           SessionKind
	PaymentStatus  PaymentStatus
	PaymentType    PaymentType
	GatewayOrderID string
	GrossAmount    int64
	RedirectURL    string
	TransactionID  string
	FraudStatus    string
	PaidAt         *time.Time
	CreatedAt      time.Time
}

type Enrollment struct {
	ID           uuid.UUID
	SessionID    uuid.UUID
	UserID       uuid.UUID
	CourseID     uuid.UUID
	CouponID     *uuid.UUID
	Price        int64
	AccessStatus AccessStatus
}

type CartItem struct {
	EnrollmentID uuid.UUID
	CourseID     uuid.UUID
	Title        string
	BasePrice    int64
	Price        int64
}

type Cart struct {
	SessionID      *uuid.UUID
	GatewayOrderID string
	Items          []CartItem
	Total          int64
}

// Quote is a price breakdown for one course.
type Quote struct {
	CourseID   uuid.UUID
	BasePrice  int64
	Discounted int64
	Final      int64
	CouponCode string
}

// PurchaseResult is returned by buy-now and cart checkout. Free purchases
// carry the activated enrollments; paid ones carry the gateway handle.
type PurchaseResult struct {
	SessionID     uuid.UUID
	Free          bool
	EnrollmentIDs []uuid.UUID
	OrderID       string
	Amount        int64
	RedirectURL   string
	Token         string
}

// TransactionRequest is what the payment gateway needs to open a payment.
type TransactionRequest struct {
	OrderID  string
	Amount   int64
	Customer User
	Items    []TransactionItem
}

type TransactionItem struct {
	ID    string
	Name  string
	Price int64
}

type Transaction struct {
	Token       string
	RedirectURL string
}

// Notification is the subset of the gateway webhook body the reconciler uses.
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	StatusCode        string `json:"status_code,omitempty"`
	GrossAmount       string `json:"gross_amount,omitempty"`
	SignatureKey      string `json:"signature_key,omitempty"`
}

type ReconcileResult struct {
	SessionID     uuid.UUID
	OrderID       string
	Status        PaymentStatus
	Changed       bool
	EnrollmentIDs []uuid.UUID
	CouponsUsed   int
	// AlreadyOwned lists paid courses left inactive because the user
	// owned them through another session.
	AlreadyOwned []uuid.UUID
}

// PaymentSettled is published once a session transitions into paid.
type PaymentSettled struct {
	SessionID     uuid.UUID   `json:"session_id"`
	UserID        uuid.UUID   `json:"user_id"`
	OrderID       string      `json:"order_id"`
	EnrollmentIDs []uuid.UUID `json:"enrollment_ids"`
	PaidAt        time.Time   `json:"paid_at"`
}
