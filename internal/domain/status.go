package domain

import "strings"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentExpired PaymentStatus = "expired"
)

// Terminal reports whether no further webhook may change the status.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentPaid || s == PaymentExpired
}

// TransactionStatus is the gateway's transaction_status folded into the
// three cases the reconciler distinguishes.
type TransactionStatus int

const (
	TransactionOther TransactionStatus = iota
	TransactionSettlement
	TransactionExpire
)

func ParseTransactionStatus(raw string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "settlement":
		return TransactionSettlement
	case "expire":
		return TransactionExpire
	default:
		return TransactionOther
	}
}

// Target returns the payment status a pending session moves to.
func (t TransactionStatus) Target() PaymentStatus {
	switch t {
	case TransactionSettlement:
		return PaymentPaid
	case TransactionExpire:
		return PaymentExpired
	default:
		return PaymentPending
	}
}

func (t TransactionStatus) String() string {
	switch t {
	case TransactionSettlement:
		return "settlement"
	case TransactionExpire:
		return "expire"
	default:
		return "other"
	}
}
