package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"github.com/azizikri/course-commerce/internal/domain"
)

// Signature computes the Midtrans notification signature:
// hex(SHA512(order_id + status_code + gross_amount + server_key)).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature returns ErrInvalidSignature unless n carries the signature
// expected for serverKey.
func VerifySignature(n domain.Notification, serverKey string) error {
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	if n.SignatureKey == "" || subtle.ConstantTimeCompare([]byte(want), []byte(n.SignatureKey)) != 1 {
		return domain.ErrInvalidSignature
	}
	return nil
}
