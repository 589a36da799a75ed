package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	db "github.com/azizikri/course-commerce/db/gen"
	"github.com/azizikri/course-commerce/internal/domain"
	"github.com/azizikri/course-commerce/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// memStore is an in-memory repository.Store. It emulates the schema's unique
// constraints and rolls back every write of a failed ExecTx.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users       map[uuid.UUID]db.User
	courses     map[uuid.UUID]db.Course
	coupons     map[uuid.UUID]db.Coupon
	usages      []db.CouponUsage
	sessions    map[uuid.UUID]db.CheckoutSession
	enrollments map[uuid.UUID]db.Enrollment

	clock  time.Time
	writes int
	fail   map[string]error
}

var _ repository.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:       map[uuid.UUID]db.User{},
		courses:     map[uuid.UUID]db.Course{},
		coupons:     map[uuid.UUID]db.Coupon{},
		sessions:    map[uuid.UUID]db.CheckoutSession{},
		enrollments: map[uuid.UUID]db.Enrollment{},
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		fail:        map[string]error{},
	}
}

type memSnapshot struct {
	users       map[uuid.UUID]db.User
	courses     map[uuid.UUID]db.Course
	coupons     map[uuid.UUID]db.Coupon
	usages      []db.CouponUsage
	sessions    map[uuid.UUID]db.CheckoutSession
	enrollments map[uuid.UUID]db.Enrollment
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		users:       cloneMap(m.users),
		courses:     cloneMap(m.courses),
		coupons:     cloneMap(m.coupons),
		usages:      append([]db.CouponUsage(nil), m.usages...),
		sessions:    cloneMap(m.sessions),
		enrollments: cloneMap(m.enrollments),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = s.users
	m.courses = s.courses
	m.coupons = s.coupons
	m.usages = s.usages
	m.sessions = s.sessions
	m.enrollments = s.enrollments
}

func (m *memStore) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// tick returns a strictly increasing timestamp so created_at orders rows.
func (m *memStore) tick() pgtype.Timestamptz {
	m.clock = m.clock.Add(time.Millisecond)
	return pgtype.Timestamptz{Time: m.clock, Valid: true}
}

func (m *memStore) write(name string) error {
	m.writes++
	if err := m.fail[name]; err != nil {
		return err
	}
	return nil
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// seed helpers

func (m *memStore) addUser(name string) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.users[id] = db.User{ID: id, Name: name, Email: name + "@example.com", CreatedAt: m.tick()}
	return id
}

func (m *memStore) addCourse(title string, price int64) uuid.UUID {
	return m.addDiscountedCourse(title, price, "", 0, false)
}

func (m *memStore) addDiscountedCourse(title string, price int64, kind domain.DiscountType, value int64, active bool) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	course := db.Course{
		ID:               id,
		Title:            title,
		Price:            price,
		DiscountValue:    value,
		IsDiscountActive: active,
		CreatedAt:        m.tick(),
	}
	if kind != "" {
		course.DiscountType = pgtype.Text{String: string(kind), Valid: true}
	}
	m.courses[id] = course
	return id
}

func (m *memStore) addCoupon(c db.Coupon) db.Coupon {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = m.tick()
	m.coupons[c.ID] = c
	return c
}

func (m *memStore) coupon(id uuid.UUID) db.Coupon {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coupons[id]
}

func (m *memStore) session(id uuid.UUID) db.CheckoutSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *memStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *memStore) usageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.usages)
}

func (m *memStore) enrollmentsOf(userID uuid.UUID) []db.Enrollment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Enrollment
	for _, e := range m.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sortEnrollments(out)
	return out
}

func sortEnrollments(rows []db.Enrollment) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Time.Before(rows[j].CreatedAt.Time)
	})
}

// catalog

func (m *memStore) GetUser(ctx context.Context, id uuid.UUID) (db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return db.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *memStore) GetCourse(ctx context.Context, id uuid.UUID) (db.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return db.Course{}, pgx.ErrNoRows
	}
	return c, nil
}

// coupons

func (m *memStore) CreateCoupon(ctx context.Context, arg db.CreateCouponParams) (db.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("CreateCoupon"); err != nil {
		return db.Coupon{}, err
	}
	for _, c := range m.coupons {
		if c.Code == arg.Code {
			return db.Coupon{}, uniqueViolation(repository.ConstraintCouponCode)
		}
	}
	c := db.Coupon{
		ID:        uuid.New(),
		Code:      arg.Code,
		Type:      arg.Type,
		Value:     arg.Value,
		StartAt:   arg.StartAt,
		EndAt:     arg.EndAt,
		IsActive:  arg.IsActive,
		MaxUsage:  arg.MaxUsage,
		CreatedAt: m.tick(),
	}
	m.coupons[c.ID] = c
	return c, nil
}

func (m *memStore) GetCouponByCode(ctx context.Context, code string) (db.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return db.Coupon{}, pgx.ErrNoRows
}

func (m *memStore) GetCouponByID(ctx context.Context, id uuid.UUID) (db.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[id]
	if !ok {
		return db.Coupon{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *memStore) GetCouponForUpdate(ctx context.Context, id uuid.UUID) (db.Coupon, error) {
	return m.GetCouponByID(ctx, id)
}

func (m *memStore) IncrementCouponUsage(ctx context.Context, id uuid.UUID) (db.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("IncrementCouponUsage"); err != nil {
		return db.Coupon{}, err
	}
	c, ok := m.coupons[id]
	if !ok || (c.MaxUsage.Valid && c.UsedCount >= c.MaxUsage.Int32) {
		return db.Coupon{}, pgx.ErrNoRows
	}
	c.UsedCount++
	m.coupons[id] = c
	return c, nil
}

func (m *memStore) InsertCouponUsage(ctx context.Context, arg db.InsertCouponUsageParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("InsertCouponUsage"); err != nil {
		return 0, err
	}
	for _, u := range m.usages {
		if u.UserID == arg.UserID && u.CourseID == arg.CourseID {
			return 0, nil
		}
	}
	m.usages = append(m.usages, db.CouponUsage{
		ID:       int64(len(m.usages) + 1),
		UserID:   arg.UserID,
		CourseID: arg.CourseID,
		CouponID: arg.CouponID,
		UsedAt:   arg.UsedAt,
	})
	return 1, nil
}

func (m *memStore) HasCouponUsage(ctx context.Context, arg db.HasCouponUsageParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.usages {
		if u.UserID == arg.UserID && u.CourseID == arg.CourseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListCouponUsages(ctx context.Context, couponID uuid.UUID) ([]db.CouponUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.CouponUsage
	for _, u := range m.usages {
		if u.CouponID == couponID {
			out = append(out, u)
		}
	}
	return out, nil
}

// sessions

func (m *memStore) pendingCart(userID uuid.UUID) (db.CheckoutSession, bool) {
	for _, s := range m.sessions {
		if s.UserID == userID && s.Kind == string(domain.SessionCart) && s.PaymentStatus == string(domain.PaymentPending) {
			return s, true
		}
	}
	return db.CheckoutSession{}, false
}

func (m *memStore) orderTaken(orderID pgtype.Text, except uuid.UUID) bool {
	if !orderID.Valid {
		return false
	}
	for _, s := range m.sessions {
		if s.ID != except && s.GatewayOrderID.Valid && s.GatewayOrderID.String == orderID.String {
			return true
		}
	}
	return false
}

func (m *memStore) UpsertPendingCartSession(ctx context.Context, userID uuid.UUID) (db.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("UpsertPendingCartSession"); err != nil {
		return db.CheckoutSession{}, err
	}
	if s, ok := m.pendingCart(userID); ok {
		s.UpdatedAt = m.tick()
		m.sessions[s.ID] = s
		return s, nil
	}
	now := m.tick()
	s := db.CheckoutSession{
		ID:            uuid.New(),
		UserID:        userID,
		Kind:          string(domain.SessionCart),
		PaymentStatus: string(domain.PaymentPending),
		PaymentType:   string(domain.PaymentFree),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memStore) GetPendingCartSession(ctx context.Context, userID uuid.UUID) (db.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.pendingCart(userID); ok {
		return s, nil
	}
	return db.CheckoutSession{}, pgx.ErrNoRows
}

func (m *memStore) LockPendingCartSession(ctx context.Context, userID uuid.UUID) (db.CheckoutSession, error) {
	return m.GetPendingCartSession(ctx, userID)
}

func (m *memStore) GetPendingDirectSession(ctx context.Context, arg db.GetPendingDirectSessionParams) (db.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found db.CheckoutSession
	ok := false
	for _, e := range m.enrollments {
		if e.UserID != arg.UserID || e.CourseID != arg.CourseID || e.AccessStatus != string(domain.AccessInactive) {
			continue
		}
		s := m.sessions[e.SessionID]
		if s.Kind != string(domain.SessionDirect) || s.PaymentStatus != string(domain.PaymentPending) {
			continue
		}
		if !ok || s.CreatedAt.Time.After(found.CreatedAt.Time) {
			found, ok = s, true
		}
	}
	if !ok {
		return db.CheckoutSession{}, pgx.ErrNoRows
	}
	return found, nil
}

func (m *memStore) CreateCheckoutSession(ctx context.Context, arg db.CreateCheckoutSessionParams) (db.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("CreateCheckoutSession"); err != nil {
		return db.CheckoutSession{}, err
	}
	if arg.Kind == string(domain.SessionCart) && arg.PaymentStatus == string(domain.PaymentPending) {
		if _, ok := m.pendingCart(arg.UserID); ok {
			return db.CheckoutSession{}, uniqueViolation(repository.ConstraintPendingCart)
		}
	}
	if m.orderTaken(arg.GatewayOrderID, uuid.Nil) {
		return db.CheckoutSession{}, uniqueViolation(repository.ConstraintOrderID)
	}
	now := m.tick()
	s := db.CheckoutSession{
		ID:             uuid.New(),
		UserID:         arg.UserID,
		Kind:           arg.Kind,
		PaymentStatus:  arg.PaymentStatus,
		PaymentType:    arg.PaymentType,
		GatewayOrderID: arg.GatewayOrderID,
		GrossAmount:    arg.GrossAmount,
		PaidAt:         arg.PaidAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memStore) GetSessionByOrderIDForUpdate(ctx context.Context, orderID string) (db.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.GatewayOrderID.Valid && s.GatewayOrderID.String == orderID {
			return s, nil
		}
	}
	return db.CheckoutSession{}, pgx.ErrNoRows
}

func (m *memStore) MarkSessionPaid(ctx context.Context, arg db.MarkSessionPaidParams) (db.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("MarkSessionPaid"); err != nil {
		return db.CheckoutSession{}, err
	}
	s, ok := m.sessions[arg.ID]
	if !ok || s.PaymentStatus != string(domain.PaymentPending) {
		return db.CheckoutSession{}, pgx.ErrNoRows
	}
	s.PaymentStatus = string(domain.PaymentPaid)
	s.PaymentType = arg.PaymentType
	s.PaidAt = arg.PaidAt
	s.UpdatedAt = m.tick()
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memStore) MarkSessionExpired(ctx context.Context, id uuid.UUID) (db.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("MarkSessionExpired"); err != nil {
		return db.CheckoutSession{}, err
	}
	s, ok := m.sessions[id]
	if !ok || s.PaymentStatus != string(domain.PaymentPending) {
		return db.CheckoutSession{}, pgx.ErrNoRows
	}
	s.PaymentStatus = string(domain.PaymentExpired)
	s.UpdatedAt = m.tick()
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memStore) UpdateSessionAudit(ctx context.Context, arg db.UpdateSessionAuditParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("UpdateSessionAudit"); err != nil {
		return err
	}
	s, ok := m.sessions[arg.ID]
	if !ok {
		return nil
	}
	if arg.TransactionID.Valid {
		s.TransactionID = arg.TransactionID
	}
	if arg.FraudStatus.Valid {
		s.FraudStatus = arg.FraudStatus
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memStore) UpdateSessionPaymentType(ctx context.Context, arg db.UpdateSessionPaymentTypeParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("UpdateSessionPaymentType"); err != nil {
		return err
	}
	s, ok := m.sessions[arg.ID]
	if !ok || s.PaymentStatus != string(domain.PaymentPending) {
		return nil
	}
	s.PaymentType = arg.PaymentType
	s.GrossAmount = arg.GrossAmount
	m.sessions[s.ID] = s
	return nil
}

func (m *memStore) BindSessionOrder(ctx context.Context, arg db.BindSessionOrderParams) (db.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("BindSessionOrder"); err != nil {
		return db.CheckoutSession{}, err
	}
	s, ok := m.sessions[arg.ID]
	if !ok || s.PaymentStatus != string(domain.PaymentPending) {
		return db.CheckoutSession{}, pgx.ErrNoRows
	}
	if m.orderTaken(arg.GatewayOrderID, s.ID) {
		return db.CheckoutSession{}, uniqueViolation(repository.ConstraintOrderID)
	}
	s.GatewayOrderID = arg.GatewayOrderID
	s.GrossAmount = arg.GrossAmount
	s.PaymentType = string(domain.PaymentGateway)
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memStore) UpdateSessionRedirect(ctx context.Context, arg db.UpdateSessionRedirectParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("UpdateSessionRedirect"); err != nil {
		return err
	}
	if s, ok := m.sessions[arg.ID]; ok {
		s.RedirectUrl = arg.RedirectUrl
		m.sessions[s.ID] = s
	}
	return nil
}

// enrollments

func (m *memStore) ownedBy(userID, courseID, except uuid.UUID) bool {
	for _, e := range m.enrollments {
		if e.ID != except && e.UserID == userID && e.CourseID == courseID && e.AccessStatus != string(domain.AccessInactive) {
			return true
		}
	}
	return false
}

func (m *memStore) CreateEnrollment(ctx context.Context, arg db.CreateEnrollmentParams) (db.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("CreateEnrollment"); err != nil {
		return db.Enrollment{}, err
	}
	for _, e := range m.enrollments {
		if e.SessionID == arg.SessionID && e.CourseID == arg.CourseID {
			return db.Enrollment{}, uniqueViolation(repository.ConstraintSessionCourse)
		}
	}
	if arg.AccessStatus != string(domain.AccessInactive) && m.ownedBy(arg.UserID, arg.CourseID, uuid.Nil) {
		return db.Enrollment{}, uniqueViolation(repository.ConstraintOwnedCourse)
	}
	now := m.tick()
	e := db.Enrollment{
		ID:           uuid.New(),
		SessionID:    arg.SessionID,
		UserID:       arg.UserID,
		CourseID:     arg.CourseID,
		CouponID:     arg.CouponID,
		Price:        arg.Price,
		AccessStatus: arg.AccessStatus,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.enrollments[e.ID] = e
	return e, nil
}

func (m *memStore) HasOwnedEnrollment(ctx context.Context, arg db.HasOwnedEnrollmentParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ownedBy(arg.UserID, arg.CourseID, uuid.Nil), nil
}

func (m *memStore) GetCartItem(ctx context.Context, arg db.GetCartItemParams) (db.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.pendingCart(arg.UserID)
	if !ok {
		return db.Enrollment{}, pgx.ErrNoRows
	}
	for _, e := range m.enrollments {
		if e.SessionID == s.ID && e.CourseID == arg.CourseID && e.AccessStatus == string(domain.AccessInactive) {
			return e, nil
		}
	}
	return db.Enrollment{}, pgx.ErrNoRows
}

func (m *memStore) sessionRows(sessionID uuid.UUID, inactiveOnly bool) []db.Enrollment {
	var out []db.Enrollment
	for _, e := range m.enrollments {
		if e.SessionID != sessionID {
			continue
		}
		if inactiveOnly && e.AccessStatus != string(domain.AccessInactive) {
			continue
		}
		out = append(out, e)
	}
	sortEnrollments(out)
	return out
}

func (m *memStore) ListCartItems(ctx context.Context, sessionID uuid.UUID) ([]db.ListCartItemsRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.ListCartItemsRow
	for _, e := range m.sessionRows(sessionID, true) {
		c := m.courses[e.CourseID]
		out = append(out, db.ListCartItemsRow{
			ID:               e.ID,
			SessionID:        e.SessionID,
			CourseID:         e.CourseID,
			CouponID:         e.CouponID,
			Price:            e.Price,
			Title:            c.Title,
			BasePrice:        c.Price,
			DiscountType:     c.DiscountType,
			DiscountValue:    c.DiscountValue,
			DiscountStartAt:  c.DiscountStartAt,
			DiscountEndAt:    c.DiscountEndAt,
			IsDiscountActive: c.IsDiscountActive,
		})
	}
	return out, nil
}

func (m *memStore) ListSessionEnrollments(ctx context.Context, sessionID uuid.UUID) ([]db.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionRows(sessionID, false), nil
}

func (m *memStore) DeleteCartItem(ctx context.Context, arg db.DeleteCartItemParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("DeleteCartItem"); err != nil {
		return 0, err
	}
	var n int64
	for id, e := range m.enrollments {
		if e.SessionID == arg.SessionID && e.CourseID == arg.CourseID && e.AccessStatus == string(domain.AccessInactive) {
			delete(m.enrollments, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) UpdateEnrollmentPricing(ctx context.Context, arg db.UpdateEnrollmentPricingParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("UpdateEnrollmentPricing"); err != nil {
		return err
	}
	e, ok := m.enrollments[arg.ID]
	if !ok || e.AccessStatus != string(domain.AccessInactive) {
		return nil
	}
	e.Price = arg.Price
	e.CouponID = arg.CouponID
	e.UpdatedAt = m.tick()
	m.enrollments[e.ID] = e
	return nil
}

func (m *memStore) ActivateSessionEnrollments(ctx context.Context, sessionID uuid.UUID) ([]db.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("ActivateSessionEnrollments"); err != nil {
		return nil, err
	}
	rows := m.sessionRows(sessionID, true)
	for _, e := range rows {
		if m.ownedBy(e.UserID, e.CourseID, e.ID) {
			return nil, uniqueViolation(repository.ConstraintOwnedCourse)
		}
	}
	now := m.tick()
	for i, e := range rows {
		e.AccessStatus = string(domain.AccessActive)
		e.UpdatedAt = now
		m.enrollments[e.ID] = e
		rows[i] = e
	}
	return rows, nil
}

func (m *memStore) ActivateUnownedSessionEnrollments(ctx context.Context, sessionID uuid.UUID) ([]db.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.write("ActivateUnownedSessionEnrollments"); err != nil {
		return nil, err
	}
	now := m.tick()
	var activated []db.Enrollment
	for _, e := range m.sessionRows(sessionID, true) {
		if m.ownedBy(e.UserID, e.CourseID, e.ID) {
			continue
		}
		e.AccessStatus = string(domain.AccessActive)
		e.UpdatedAt = now
		m.enrollments[e.ID] = e
		activated = append(activated, e)
	}
	return activated, nil
}

func (m *memStore) HasOpenOrder(ctx context.Context, arg db.HasOpenOrderParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.UserID != arg.UserID || e.CourseID != arg.CourseID || e.AccessStatus != string(domain.AccessInactive) {
			continue
		}
		s := m.sessions[e.SessionID]
		if s.Kind == arg.Kind && s.PaymentStatus == string(domain.PaymentPending) && s.GatewayOrderID.Valid {
			return true, nil
		}
	}
	return false, nil
}
