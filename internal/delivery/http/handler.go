package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/azizikri/course-commerce/internal/payment"
	"github.com/azizikri/course-commerce/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddToCart(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error)
	RemoveFromCart(ctx context.Context, userID, courseID uuid.UUID) error
}

type CheckoutService interface {
	BuyNow(ctx context.Context, in usecase.BuyNowInput) (*domain.PurchaseResult, error)
	CheckoutCart(ctx context.Context, userID uuid.UUID) (*domain.PurchaseResult, error)
	Quote(ctx context.Context, userID, courseID uuid.UUID, couponCode string) (*domain.Quote, error)
}

type CouponService interface {
	CreateCoupon(ctx context.Context, in usecase.CreateCouponInput) (*domain.Coupon, error)
	GetCouponDetails(ctx context.Context, code string) (*domain.CouponDetails, error)
}

type AddToCartRequest struct {
	CourseID string `json:"course_id"`
}

type BuyNowRequest struct {
	CouponCode string `json:"coupon_code"`
}

type CreateCouponRequest struct {
	Code     string    `json:"code"`
	Type     string    `json:"type"`
	Value    int64     `json:"value"`
	StartAt  time.Time `json:"start_at"`
	EndAt    time.Time `json:"end_at"`
	MaxUsage *int      `json:"max_usage"`
	IsActive *bool     `json:"is_active"`
}

type CartItemResponse struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	CourseID     uuid.UUID `json:"course_id"`
	Title        string    `json:"title"`
	BasePrice    int64     `json:"base_price"`
	Price        int64     `json:"price"`
}

type CartResponse struct {
	SessionID      *uuid.UUID         `json:"session_id"`
	GatewayOrderID string             `json:"gateway_order_id,omitempty"`
	Items          []CartItemResponse `json:"items"`
	Total          int64              `json:"total"`
}

type PurchaseResponse struct {
	SessionID     uuid.UUID   `json:"session_id"`
	Free          bool        `json:"free"`
	EnrollmentIDs []uuid.UUID `json:"enrollment_ids,omitempty"`
	OrderID       string      `json:"order_id,omitempty"`
	Amount        int64       `json:"amount"`
	RedirectURL   string      `json:"redirect_url,omitempty"`
	Token         string      `json:"token,omitempty"`
}

type QuoteResponse struct {
	CourseID   uuid.UUID `json:"course_id"`
	BasePrice  int64     `json:"base_price"`
	Discounted int64     `json:"discounted_price"`
	Final      int64     `json:"final_price"`
	CouponCode string    `json:"coupon_code,omitempty"`
}

type CouponUsageResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
	UsedAt   time.Time `json:"used_at"`
}

type CouponResponse struct {
	ID        uuid.UUID             `json:"id"`
	Code      string                `json:"code"`
	Type      string                `json:"type"`
	Value     int64                 `json:"value"`
	StartAt   time.Time             `json:"start_at"`
	EndAt     time.Time             `json:"end_at"`
	IsActive  bool                  `json:"is_active"`
	MaxUsage  *int                  `json:"max_usage"`
	UsedCount int                   `json:"used_count"`
	Usages    []CouponUsageResponse `json:"usages,omitempty"`
}

type NotificationResponse struct {
	Status        string `json:"status"`
	OrderID       string `json:"order_id,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Changed       bool   `json:"changed"`
	ErrorCode     string `json:"error_code,omitempty"`
}

type Options struct {
	ServerKey       string
	VerifySignature bool
}

type Handler struct {
	cart          CartService
	checkout      CheckoutService
	coupons       CouponService
	notifications usecase.NotificationSink
	tokens        TokenValidator
	opts          Options
	logger        *zap.Logger
}

func NewHandler(cart CartService, checkout CheckoutService, coupons CouponService, notifications usecase.NotificationSink, tokens TokenValidator, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cart:          cart,
		checkout:      checkout,
		coupons:       coupons,
		notifications: notifications,
		tokens:        tokens,
		opts:          opts,
		logger:        logger,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/payments/notification", h.PaymentNotification)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.tokens))

			r.Get("/cart", h.GetCart)
			r.Post("/cart/items", h.AddToCart)
			r.Delete("/cart/items/{courseID}", h.RemoveFromCart)
			r.Post("/cart/checkout", h.CheckoutCart)

			r.Post("/courses/{courseID}/buy", h.BuyNow)
			r.Get("/courses/{courseID}/quote", h.Quote)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Post("/coupons", h.CreateCoupon)
				r.Get("/coupons/{code}", h.GetCouponDetails)
			})
		})
	})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.GetCart(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	resp := CartResponse{
		SessionID:      cart.SessionID,
		GatewayOrderID: cart.GatewayOrderID,
		Items:          make([]CartItemResponse, 0, len(cart.Items)),
		Total:          cart.Total,
	}
	for _, it := range cart.Items {
		resp.Items = append(resp.Items, CartItemResponse{
			EnrollmentID: it.EnrollmentID,
			CourseID:     it.CourseID,
			Title:        it.Title,
			BasePrice:    it.BasePrice,
			Price:        it.Price,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid course_id")
		return
	}

	enrollment, err := h.cart.AddToCart(r.Context(), userIDFrom(r.Context()), courseID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CartItemResponse{
		EnrollmentID: enrollment.ID,
		CourseID:     enrollment.CourseID,
		Price:        enrollment.Price,
	})
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseParam(w, r)
	if !ok {
		return
	}
	if err := h.cart.RemoveFromCart(r.Context(), userIDFrom(r.Context()), courseID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CheckoutCart(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkout.CheckoutCart(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, purchaseStatus(result), toPurchaseResponse(result))
}

func (h *Handler) BuyNow(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseParam(w, r)
	if !ok {
		return
	}

	var req BuyNowRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
			return
		}
	}

	result, err := h.checkout.BuyNow(r.Context(), usecase.BuyNowInput{
		UserID:     userIDFrom(r.Context()),
		CourseID:   courseID,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, purchaseStatus(result), toPurchaseResponse(result))
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseParam(w, r)
	if !ok {
		return
	}

	quote, err := h.checkout.Quote(r.Context(), userIDFrom(r.Context()), courseID, r.URL.Query().Get("coupon_code"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, QuoteResponse{
		CourseID:   quote.CourseID,
		BasePrice:  quote.BasePrice,
		Discounted: quote.Discounted,
		Final:      quote.Final,
		CouponCode: quote.CouponCode,
	})
}

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	coupon, err := h.coupons.CreateCoupon(r.Context(), usecase.CreateCouponInput{
		Code:     req.Code,
		Type:     domain.DiscountType(req.Type),
		Value:    req.Value,
		StartAt:  req.StartAt,
		EndAt:    req.EndAt,
		Active:   active,
		MaxUsage: req.MaxUsage,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCouponResponse(*coupon, nil))
}

func (h *Handler) GetCouponDetails(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	details, err := h.coupons.GetCouponDetails(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			writeError(w, http.StatusNotFound, domain.CodeOf(err), err.Error())
			return
		}
		h.writeDomainError(w, r, err)
		return
	}

	usages := make([]CouponUsageResponse, 0, len(details.Usages))
	for _, u := range details.Usages {
		usages = append(usages, CouponUsageResponse{UserID: u.UserID, CourseID: u.CourseID, UsedAt: u.UsedAt})
	}
	resp := toCouponResponse(details.Coupon, usages)
	writeJSON(w, http.StatusOK, resp)
}

// PaymentNotification receives the gateway webhook. Reconciliation errors are
// acknowledged with 200 so the gateway stops redelivering; anything else that
// fails returns 500 to get a redelivery.
func (h *Handler) PaymentNotification(w http.ResponseWriter, r *http.Request) {
	var n domain.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid notification body")
		return
	}

	if h.opts.VerifySignature {
		if err := payment.VerifySignature(n, h.opts.ServerKey); err != nil {
			h.logger.Warn("notification signature rejected", zap.String("order_id", n.OrderID))
			writeJSON(w, http.StatusOK, NotificationResponse{Status: "rejected", OrderID: n.OrderID, ErrorCode: domain.CodeOf(err)})
			return
		}
	}

	result, err := h.notifications.Submit(r.Context(), n)
	if err != nil {
		if domain.KindOf(err) == domain.KindReconciliation {
			writeJSON(w, http.StatusOK, NotificationResponse{Status: "rejected", OrderID: n.OrderID, ErrorCode: domain.CodeOf(err)})
			return
		}
		h.logger.Error("notification processing failed", requestFields(r, err)...)
		writeError(w, http.StatusInternalServerError, domain.CodeOf(err), "internal server error")
		return
	}

	if result == nil {
		writeJSON(w, http.StatusOK, NotificationResponse{Status: "queued", OrderID: n.OrderID})
		return
	}
	writeJSON(w, http.StatusOK, NotificationResponse{
		Status:        "processed",
		OrderID:       result.OrderID,
		PaymentStatus: string(result.Status),
		Changed:       result.Changed,
	})
}

func courseParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid course id")
		return uuid.Nil, false
	}
	return courseID, true
}

func purchaseStatus(result *domain.PurchaseResult) int {
	if result.Free {
		return http.StatusCreated
	}
	return http.StatusOK
}

func toPurchaseResponse(result *domain.PurchaseResult) PurchaseResponse {
	return PurchaseResponse{
		SessionID:     result.SessionID,
		Free:          result.Free,
		EnrollmentIDs: result.EnrollmentIDs,
		OrderID:       result.OrderID,
		Amount:        result.Amount,
		RedirectURL:   result.RedirectURL,
		Token:         result.Token,
	}
}

func toCouponResponse(c domain.Coupon, usages []CouponUsageResponse) CouponResponse {
	return CouponResponse{
		ID:        c.ID,
		Code:      c.Code,
		Type:      string(c.Type),
		Value:     c.Value,
		StartAt:   c.StartAt,
		EndAt:     c.EndAt,
		IsActive:  c.Active,
		MaxUsage:  c.MaxUsage,
		UsedCount: c.UsedCount,
		Usages:    usages,
	}
}
