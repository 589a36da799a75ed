package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type mockSnap struct {
	createFn func(req *snap.Request) (*snap.Response, *midtrans.Error)
}

func (m *mockSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	return m.createFn(req)
}

func testRequest() domain.TransactionRequest {
	return domain.TransactionRequest{
		OrderID:  "ORD-1",
		Amount:   75000,
		Customer: domain.User{Name: "Budi", Email: "budi@example.com"},
		Items: []domain.TransactionItem{
			{ID: "a", Name: "Go", Price: 75000},
			{ID: "b", Name: "Free intro", Price: 0},
		},
	}
}

func TestCreateTransaction_Success(t *testing.T) {
	var captured *snap.Request
	client := &mockSnap{createFn: func(req *snap.Request) (*snap.Response, *midtrans.Error) {
		captured = req
		return &snap.Response{Token: "tok", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/tok"}, nil
	}}
	g := NewGatewayWithClient(client, Config{FinishURL: "https://example.com/done", ExpiryMinutes: 60}, nil)

	txn, err := g.CreateTransaction(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if txn.Token != "tok" || txn.RedirectURL == "" {
		t.Fatalf("unexpected transaction %+v", txn)
	}

	if captured.TransactionDetails.OrderID != "ORD-1" || captured.TransactionDetails.GrossAmt != 75000 {
		t.Fatalf("unexpected details %+v", captured.TransactionDetails)
	}
	if captured.Items == nil || len(*captured.Items) != 1 {
		t.Fatalf("expected zero-priced items dropped, got %+v", captured.Items)
	}
	if captured.CustomerDetail.Email != "budi@example.com" {
		t.Fatalf("unexpected customer %+v", captured.CustomerDetail)
	}
	if captured.Callbacks == nil || captured.Expiry == nil {
		t.Fatal("expected callbacks and expiry set")
	}
}

func TestCreateTransaction_GatewayError(t *testing.T) {
	client := &mockSnap{createFn: func(req *snap.Request) (*snap.Response, *midtrans.Error) {
		return nil, &midtrans.Error{Message: "Access denied", StatusCode: 401}
	}}
	g := NewGatewayWithClient(client, Config{}, nil)

	_, err := g.CreateTransaction(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
}

func TestCreateTransaction_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	client := &mockSnap{createFn: func(req *snap.Request) (*snap.Response, *midtrans.Error) {
		<-release
		return &snap.Response{Token: "late"}, nil
	}}
	g := NewGatewayWithClient(client, Config{Timeout: 10 * time.Millisecond}, nil)

	_, err := g.CreateTransaction(context.Background(), testRequest())
	if !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
}

func TestParseEnvironment(t *testing.T) {
	if ParseEnvironment("Production") != midtrans.Production {
		t.Fatal("expected production")
	}
	if ParseEnvironment("") != midtrans.Sandbox {
		t.Fatal("expected sandbox default")
	}
}
