package orders

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tillpoint/tillpoint-backend/internal/cart"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox"
)

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type stubOrdersRepo struct {
	orders  map[uuid.UUID]*models.Order
	updates map[uuid.UUID]map[string]any
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders:  make(map[uuid.UUID]*models.Order),
		updates: make(map[uuid.UUID]map[string]any),
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := s.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) List(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrdersRepo) Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	s.updates[orderID] = updates
	order := s.orders[orderID]
	if canceled, ok := updates["canceled"].(bool); ok {
		order.Canceled = canceled
	}
	if reason, ok := updates["cancel_reason"].(string); ok {
		order.CancelReason = reason
	}
	return nil
}

func (s *stubOrdersRepo) UpdateSyncStatus(ctx context.Context, orderID uuid.UUID, status enums.SyncStatus, syncedAt *time.Time) error {
	s.orders[orderID].SyncStatus = status
	s.orders[orderID].SyncedAt = syncedAt
	return nil
}

type stubTx struct{}

func (s *stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubCarts struct {
	lines   []cart.Line
	cleared int
}

func (s *stubCarts) Lines(registerID string) []cart.Line { return s.lines }
func (s *stubCarts) Clear(registerID string)             { s.cleared++ }

type stubSettingsReader struct{}

func (s *stubSettingsReader) Get(ctx context.Context) (*models.Settings, error) {
	return &models.Settings{
		ID:               models.SettingsID,
		TaxRate:          decimal.NewFromInt(8),
		DebitFeePercent:  decimal.NewFromFloat(1.5),
		CreditFeePercent: decimal.NewFromFloat(2.9),
	}, nil
}

type stubLoyalty struct {
	customers map[uuid.UUID]*models.Customer
	granted   []uuid.UUID
}

func (s *stubLoyalty) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if c, ok := s.customers[id]; ok {
		return c, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
}

func (s *stubLoyalty) GrantOrderCredit(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (*models.Customer, error) {
	s.granted = append(s.granted, customerID)
	return s.customers[customerID], nil
}

type serviceFixture struct {
	svc       Service
	repo      *stubOrdersRepo
	publisher *stubPublisher
	carts     *stubCarts
	loyalty   *stubLoyalty
}

func newOrdersFixture(t *testing.T, lines []cart.Line) *serviceFixture {
	t.Helper()

	fixture := &serviceFixture{
		repo:      newStubOrdersRepo(),
		publisher: &stubPublisher{},
		carts:     &stubCarts{lines: lines},
		loyalty:   &stubLoyalty{customers: make(map[uuid.UUID]*models.Customer)},
	}
	svc, err := NewService(ServiceParams{
		Repository: fixture.repo,
		Tx:         &stubTx{},
		Outbox:     fixture.publisher,
		Carts:      fixture.carts,
		Settings:   &stubSettingsReader{},
		Customers:  fixture.loyalty,
		Logger:     logger.New(logger.Options{ServiceName: "orders-test"}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	fixture.svc = svc
	return fixture
}

func testCartLines() []cart.Line {
	return []cart.Line{
		{
			ID: uuid.New(), RefID: uuid.New(), Name: "Latte",
			UnitPrice: dec("4.50"), Quantity: 2,
			Addons: []cart.LineAddon{{ID: uuid.New(), Name: "Oat Milk", Price: dec("0.75")}},
		},
	}
}

func TestCommitSnapshotsAndClearsCart(t *testing.T) {
	fixture := newOrdersFixture(t, testCartLines())
	city := "Portland"
	customer := &models.Customer{ID: uuid.New(), Name: "Dana", Phone: "503-555-0100", City: &city, Points: 3}
	fixture.loyalty.customers[customer.ID] = customer

	order, err := fixture.svc.Commit(context.Background(), CommitInput{
		RegisterID:    "r1",
		CustomerID:    &customer.ID,
		PaymentMethod: enums.PaymentMethodCredit,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// (4.50+0.75)*2 = 10.50; tax 0.84; total 11.34; fee 0.33; grand 11.67
	if !order.Subtotal.Equal(dec("10.50")) {
		t.Fatalf("subtotal = %s, want 10.50", order.Subtotal)
	}
	if !order.GrandTotal.Equal(dec("11.67")) {
		t.Fatalf("grand total = %s, want 11.67", order.GrandTotal)
	}
	if order.SyncStatus != enums.SyncStatusPending {
		t.Fatalf("sync status = %s, want pending", order.SyncStatus)
	}
	if order.Customer == nil || order.Customer.Name != "Dana" || order.Customer.City != "Portland" {
		t.Fatalf("unexpected customer snapshot %+v", order.Customer)
	}
	if len(order.Lines) != 1 || order.Lines[0].Name != "Latte" {
		t.Fatalf("unexpected line snapshots %+v", order.Lines)
	}
	if fixture.carts.cleared != 1 {
		t.Fatal("cart must be cleared after a successful commit")
	}
	if len(fixture.loyalty.granted) != 1 || fixture.loyalty.granted[0] != customer.ID {
		t.Fatal("loyalty credit must be granted on commit")
	}
	if len(fixture.publisher.events) != 1 || fixture.publisher.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected an order_created event, got %v", fixture.publisher.events)
	}
}

func TestCommitEmptyCart(t *testing.T) {
	fixture := newOrdersFixture(t, nil)

	_, err := fixture.svc.Commit(context.Background(), CommitInput{RegisterID: "r1", PaymentMethod: enums.PaymentMethodCash})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnprocessable {
		t.Fatalf("expected unprocessable error, got %v", err)
	}
	if fixture.carts.cleared != 0 {
		t.Fatal("a failed commit must not clear the cart")
	}
}

func TestCommitUnknownCustomer(t *testing.T) {
	fixture := newOrdersFixture(t, testCartLines())
	unknown := uuid.New()

	_, err := fixture.svc.Commit(context.Background(), CommitInput{
		RegisterID:    "r1",
		CustomerID:    &unknown,
		PaymentMethod: enums.PaymentMethodCash,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
	if fixture.carts.cleared != 0 {
		t.Fatal("a failed commit must not clear the cart")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	fixture := newOrdersFixture(t, testCartLines())
	order, err := fixture.svc.Commit(context.Background(), CommitInput{RegisterID: "r1", PaymentMethod: enums.PaymentMethodCash})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	canceled, err := fixture.svc.Cancel(context.Background(), CancelInput{OrderID: order.ID, Reason: "entered twice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !canceled.Canceled || canceled.CancelReason != "entered twice" {
		t.Fatalf("unexpected cancellation state %+v", canceled)
	}

	again, err := fixture.svc.Cancel(context.Background(), CancelInput{OrderID: order.ID, Reason: "entered twice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Canceled {
		t.Fatal("repeated cancel must stay canceled")
	}

	var cancelEvents int
	for _, event := range fixture.publisher.events {
		if event.EventType == enums.EventOrderCanceled {
			cancelEvents++
		}
	}
	if cancelEvents != 1 {
		t.Fatalf("expected a single order_canceled event, got %d", cancelEvents)
	}
}

func TestCancelReasonIsPlainString(t *testing.T) {
	fixture := newOrdersFixture(t, testCartLines())
	order, err := fixture.svc.Commit(context.Background(), CommitInput{RegisterID: "r1", PaymentMethod: enums.PaymentMethodCash})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	canceled, err := fixture.svc.Cancel(context.Background(), CancelInput{OrderID: order.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !canceled.Canceled || canceled.CancelReason != "" {
		t.Fatalf("empty-reason cancel must store the empty string, got %+v", canceled)
	}

	raw, err := json.Marshal(canceled)
	if err != nil {
		t.Fatalf("marshal order: %v", err)
	}
	if strings.Contains(string(raw), `"CancelReason":null`) {
		t.Fatalf("cancel reason must not serialize as null: %s", raw)
	}

	overwritten, err := fixture.svc.Cancel(context.Background(), CancelInput{OrderID: order.ID, Reason: "changed mind"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overwritten.CancelReason != "changed mind" {
		t.Fatalf("re-cancel must overwrite the reason, got %q", overwritten.CancelReason)
	}
}

func TestCancelUnknownOrder(t *testing.T) {
	fixture := newOrdersFixture(t, nil)

	_, err := fixture.svc.Cancel(context.Background(), CancelInput{OrderID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUncancelRestoresOrder(t *testing.T) {
	fixture := newOrdersFixture(t, testCartLines())
	order, err := fixture.svc.Commit(context.Background(), CommitInput{RegisterID: "r1", PaymentMethod: enums.PaymentMethodCash})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := fixture.svc.Cancel(context.Background(), CancelInput{OrderID: order.ID, Reason: "oops"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	restored, err := fixture.svc.Uncancel(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Canceled || restored.CancelReason != "" {
		t.Fatalf("unexpected state after uncancel %+v", restored)
	}

	again, err := fixture.svc.Uncancel(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Canceled {
		t.Fatal("repeated uncancel must stay active")
	}

	var uncancelEvents int
	for _, event := range fixture.publisher.events {
		if event.EventType == enums.EventOrderUncanceled {
			uncancelEvents++
		}
	}
	if uncancelEvents != 1 {
		t.Fatalf("expected a single order_uncanceled event, got %d", uncancelEvents)
	}
}
