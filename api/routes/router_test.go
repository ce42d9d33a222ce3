package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillpoint/tillpoint-backend/internal/cart"
	"github.com/tillpoint/tillpoint-backend/internal/orders"
	"github.com/tillpoint/tillpoint-backend/internal/receipts"
	"github.com/tillpoint/tillpoint-backend/internal/reports"
	"github.com/tillpoint/tillpoint-backend/internal/settings"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSettingsService struct {
	settings models.Settings
}

func (s stubSettingsService) Get(context.Context) (*models.Settings, error) {
	out := s.settings
	return &out, nil
}

func (s stubSettingsService) Replace(_ context.Context, input settings.ReplaceInput) (*models.Settings, error) {
	return &models.Settings{ID: 1, TaxRate: input.TaxRate, BusinessName: input.BusinessName}, nil
}

type stubOrdersService struct {
	order *models.Order
}

func (s stubOrdersService) Commit(context.Context, orders.CommitInput) (*models.Order, error) {
	return s.order, nil
}

func (s stubOrdersService) Cancel(_ context.Context, input orders.CancelInput) (*models.Order, error) {
	if s.order == nil || s.order.ID != input.OrderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.order, nil
}

func (s stubOrdersService) Uncancel(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.order, nil
}

func (s stubOrdersService) Get(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.order, nil
}

func (s stubOrdersService) List(context.Context) ([]models.Order, error) {
	if s.order == nil {
		return []models.Order{}, nil
	}
	return []models.Order{*s.order}, nil
}

type stubReportsService struct{}

func (stubReportsService) Sales(context.Context) (*reports.SalesReport, error) {
	return &reports.SalesReport{Products: []reports.ProductStat{}}, nil
}

type cartCatalogStub struct {
	product models.Product
}

func (c cartCatalogStub) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if c.product.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	out := c.product
	return &out, nil
}

func (c cartCatalogStub) GetAddon(context.Context, uuid.UUID) (*models.Addon, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
}

type cartSettingsStub struct{}

func (cartSettingsStub) Get(context.Context) (*models.Settings, error) {
	return &models.Settings{ID: 1, TaxRate: decimal.NewFromInt(8)}, nil
}

type cartRewardsStub struct{}

func (cartRewardsStub) RedeemReward(context.Context, uuid.UUID) (*models.Customer, bool, error) {
	return nil, false, nil
}

func testDeps(t *testing.T) (Deps, models.Product) {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "routes-test"})

	product := models.Product{
		ID:       uuid.New(),
		Name:     "Latte",
		Price:    decimal.RequireFromString("4.75"),
		IsActive: true,
	}

	cartSvc, err := cart.NewService(cart.ServiceParams{
		Manager:  cart.NewManager(),
		Catalog:  cartCatalogStub{product: product},
		Settings: cartSettingsStub{},
		Rewards:  cartRewardsStub{},
		Logger:   logg,
	})
	if err != nil {
		t.Fatalf("build cart service: %v", err)
	}

	renderer, err := receipts.NewRenderer()
	if err != nil {
		t.Fatalf("build renderer: %v", err)
	}

	order := &models.Order{
		ID:            uuid.New(),
		PaymentMethod: enums.PaymentMethodCash,
		Total:         decimal.RequireFromString("5.13"),
		GrandTotal:    decimal.RequireFromString("5.13"),
	}

	return Deps{
		Logger:    logg,
		DB:        stubPinger{},
		Redis:     nil,
		Carts:     cartSvc,
		Catalog:   nil,
		Customers: nil,
		Orders:    stubOrdersService{order: order},
		Settings:  stubSettingsService{settings: models.Settings{ID: 1, TaxRate: decimal.NewFromInt(8), BusinessName: "Test Cafe"}},
		Features:  nil,
		Reports:   stubReportsService{},
		Receipts:  renderer,
	}, product
}

func TestRouterHealthAndCoreRoutes(t *testing.T) {
	deps, product := testDeps(t)
	router := NewRouter(deps)
	server := httptest.NewServer(router)
	defer server.Close()

	client := server.Client()

	resp, err := client.Get(server.URL + "/health/live")
	if err != nil {
		t.Fatalf("health live: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health live status = %d", resp.StatusCode)
	}

	// Add a product line, then quote it.
	body := `{"productId":"` + product.ID.String() + `","quantity":2}`
	resp, err = client.Post(server.URL+"/api/v1/registers/front/cart/lines", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add line status = %d", resp.StatusCode)
	}

	resp, err = client.Get(server.URL + "/api/v1/registers/front/cart/quote?paymentMethod=cash")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	var envelope struct {
		Data struct {
			Subtotal   string `json:"subtotal"`
			GrandTotal string `json:"grandTotal"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	resp.Body.Close()
	if envelope.Data.Subtotal != "9.5" {
		t.Fatalf("quote subtotal = %s", envelope.Data.Subtotal)
	}

	// Change breakdown is stateless.
	resp, err = client.Post(server.URL+"/api/v1/payments/change", "application/json",
		strings.NewReader(`{"amountDue":"10.26","amountTendered":"20.00"}`))
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	var changeEnvelope struct {
		Data struct {
			ChangeCents int64 `json:"change_cents"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&changeEnvelope); err != nil {
		t.Fatalf("decode change: %v", err)
	}
	resp.Body.Close()
	if changeEnvelope.Data.ChangeCents != 974 {
		t.Fatalf("change cents = %d", changeEnvelope.Data.ChangeCents)
	}

	// Drawer denominations are static.
	resp, err = client.Get(server.URL + "/api/v1/payments/denominations")
	if err != nil {
		t.Fatalf("denominations: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("denominations status = %d", resp.StatusCode)
	}
}

func TestRouterOrderRoutes(t *testing.T) {
	deps, _ := testDeps(t)
	router := NewRouter(deps)
	server := httptest.NewServer(router)
	defer server.Close()

	ordersSvc := deps.Orders.(stubOrdersService)
	orderID := ordersSvc.order.ID

	resp, err := server.Client().Get(server.URL + "/api/v1/orders/" + orderID.String())
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get order status = %d", resp.StatusCode)
	}

	resp, err = server.Client().Get(server.URL + "/api/v1/orders/" + uuid.NewString())
	if err != nil {
		t.Fatalf("get missing order: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing order status = %d", resp.StatusCode)
	}

	resp, err = server.Client().Get(server.URL + "/api/v1/orders/" + orderID.String() + "/receipt")
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("receipt content type = %s", ct)
	}
}
