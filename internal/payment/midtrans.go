// Package payment adapts the Midtrans Snap API to the checkout flow.
package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"
)

const DefaultTimeout = 15 * time.Second

// Snap is the subset of snap.Client the gateway calls.
type Snap interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type Config struct {
	ServerKey   string
	Environment string
	FinishURL   string
	Timeout     time.Duration
	// ExpiryMinutes bounds how long the hosted payment page stays open.
	ExpiryMinutes int64
}

// Gateway opens Snap transactions.
type Gateway struct {
	client    Snap
	finishURL string
	timeout   time.Duration
	expiry    int64
	logger    *zap.Logger
}

func ParseEnvironment(env string) midtrans.EnvironmentType {
	if strings.EqualFold(strings.TrimSpace(env), "production") {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

func NewGateway(cfg Config, logger *zap.Logger) *Gateway {
	var client snap.Client
	client.New(cfg.ServerKey, ParseEnvironment(cfg.Environment))
	return NewGatewayWithClient(&client, cfg, logger)
}

func NewGatewayWithClient(client Snap, cfg Config, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{
		client:    client,
		finishURL: cfg.FinishURL,
		timeout:   timeout,
		expiry:    cfg.ExpiryMinutes,
		logger:    logger,
	}
}

type snapResult struct {
	resp *snap.Response
	err  *midtrans.Error
}

// CreateTransaction requests a Snap token and redirect url for req. The Snap
// client takes no context, so the call is abandoned once ctx or the configured
// timeout expires.
func (g *Gateway) CreateTransaction(ctx context.Context, req domain.TransactionRequest) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	snapReq := g.buildRequest(req)
	done := make(chan snapResult, 1)
	go func() {
		resp, err := g.client.CreateTransaction(snapReq)
		done <- snapResult{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: order %s: %v", domain.ErrGatewayUnavailable, req.OrderID, ctx.Err())
	case res := <-done:
		if res.err != nil {
			g.logger.Warn("snap create transaction failed",
				zap.String("order_id", req.OrderID),
				zap.Int("status_code", res.err.StatusCode),
				zap.String("message", res.err.Message),
			)
			return nil, fmt.Errorf("%w: order %s: %s", domain.ErrGatewayUnavailable, req.OrderID, res.err.Message)
		}
		if res.resp == nil || res.resp.RedirectURL == "" {
			return nil, fmt.Errorf("%w: order %s: empty snap response", domain.ErrGatewayUnavailable, req.OrderID)
		}
		return &domain.Transaction{Token: res.resp.Token, RedirectURL: res.resp.RedirectURL}, nil
	}
}

func (g *Gateway) buildRequest(req domain.TransactionRequest) *snap.Request {
	items := make([]midtrans.ItemDetails, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Price <= 0 {
			continue
		}
		items = append(items, midtrans.ItemDetails{
			ID:    it.ID,
			Name:  truncate(it.Name, 50),
			Price: it.Price,
			Qty:   1,
		})
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Customer.Name,
			Email: req.Customer.Email,
		},
	}
	if len(items) > 0 {
		snapReq.Items = &items
	}
	if g.finishURL != "" {
		snapReq.Callbacks = &snap.Callbacks{Finish: g.finishURL}
	}
	if g.expiry > 0 {
		snapReq.Expiry = &snap.ExpiryDetails{Unit: "minute", Duration: g.expiry}
	}
	return snapReq
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
