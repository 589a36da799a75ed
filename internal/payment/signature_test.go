package payment

import (
	"errors"
	"testing"

	"github.com/azizikri/course-commerce/internal/domain"
)

func TestSignature_KnownValue(t *testing.T) {
	// sha512("ORD-1" + "200" + "10000.00" + "secret")
	got := Signature("ORD-1", "200", "10000.00", "secret")
	if len(got) != 128 {
		t.Fatalf("expected 128 hex chars, got %d", len(got))
	}
	if got != Signature("ORD-1", "200", "10000.00", "secret") {
		t.Fatal("expected deterministic signature")
	}
	if got == Signature("ORD-1", "200", "10000.00", "other") {
		t.Fatal("expected server key to change the signature")
	}
}

func TestVerifySignature(t *testing.T) {
	n := domain.Notification{
		OrderID:     "ORD-1",
		StatusCode:  "200",
		GrossAmount: "10000.00",
	}
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, "secret")

	if err := VerifySignature(n, "secret"); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}

	tampered := n
	tampered.GrossAmount = "1.00"
	if err := VerifySignature(tampered, "secret"); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}

	missing := n
	missing.SignatureKey = ""
	if err := VerifySignature(missing, "secret"); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}
}
