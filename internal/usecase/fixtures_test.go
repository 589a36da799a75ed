package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	db "github.com/azizikri/course-commerce/db/gen"
	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/azizikri/course-commerce/internal/lock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeGateway struct {
	mu    sync.Mutex
	calls []domain.TransactionRequest
	err   error
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return &domain.Transaction{
		Token:       "tok-" + req.OrderID,
		RedirectURL: "https://pay.example.com/" + req.OrderID,
	}, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.PaymentSettled
	err    error
}

func (p *fakePublisher) PublishPaymentSettled(ctx context.Context, evt domain.PaymentSettled) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type countingObserver struct {
	mu        sync.Mutex
	checkouts map[string]int
	outcomes  map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{checkouts: map[string]int{}, outcomes: map[string]int{}}
}

func (o *countingObserver) CheckoutCompleted(flow string, free bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	path := "gateway"
	if free {
		path = "free"
	}
	o.checkouts[flow+"/"+path]++
}

func (o *countingObserver) NotificationProcessed(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes[outcome]++
}

type harness struct {
	store      *memStore
	gateway    *fakeGateway
	publisher  *fakePublisher
	observer   *countingObserver
	ledger     *CouponLedger
	cart       *CartService
	checkout   *CheckoutOrchestrator
	reconciler *PaymentReconciler
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := newMemStore()
	gateway := &fakeGateway{}
	publisher := &fakePublisher{}
	observer := newCountingObserver()
	locker := lock.NewLocal()
	logger := zap.NewNop()
	clock := func() time.Time { return testNow }

	ledger := NewCouponLedger(store, logger)
	ledger.now = clock
	cart := NewCartService(store, locker, logger)
	cart.now = clock
	checkout := NewCheckoutOrchestrator(store, ledger, gateway, locker, CheckoutConfig{OrderPrefix: "TEST", Observer: observer}, logger)
	checkout.now = clock
	reconciler := NewPaymentReconciler(store, ledger, publisher, observer, logger)
	reconciler.now = clock

	return &harness{
		store:      store,
		gateway:    gateway,
		publisher:  publisher,
		observer:   observer,
		ledger:     ledger,
		cart:       cart,
		checkout:   checkout,
		reconciler: reconciler,
	}
}

type couponFixture struct {
	code     string
	kind     domain.DiscountType
	value    int64
	active   bool
	maxUsage int32
	capped   bool
	used     int32
	start    time.Time
	end      time.Time
}

func (h *harness) addCoupon(cf couponFixture) db.Coupon {
	if cf.start.IsZero() {
		cf.start = testNow.Add(-24 * time.Hour)
	}
	if cf.end.IsZero() {
		cf.end = testNow.Add(24 * time.Hour)
	}
	c := db.Coupon{
		Code:      cf.code,
		Type:      string(cf.kind),
		Value:     cf.value,
		StartAt:   pgtype.Timestamptz{Time: cf.start, Valid: true},
		EndAt:     pgtype.Timestamptz{Time: cf.end, Valid: true},
		IsActive:  cf.active,
		UsedCount: cf.used,
	}
	if cf.capped {
		c.MaxUsage = pgtype.Int4{Int32: cf.maxUsage, Valid: true}
	}
	return h.store.addCoupon(c)
}

func (h *harness) settle(t *testing.T, orderID string) *domain.ReconcileResult {
	t.Helper()
	res, err := h.reconciler.Process(context.Background(), domain.Notification{
		OrderID:           orderID,
		TransactionStatus: "settlement",
		TransactionID:     "txn-" + orderID,
		FraudStatus:       "accept",
	})
	if err != nil {
		t.Fatalf("settle %s: %v", orderID, err)
	}
	return res
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func mustUUID(t *testing.T, id *uuid.UUID) uuid.UUID {
	t.Helper()
	if id == nil {
		t.Fatal("expected id, got nil")
	}
	return *id
}
