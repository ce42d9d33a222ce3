package receipts

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillpoint/tillpoint-backend/internal/reports"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	"github.com/tillpoint/tillpoint-backend/pkg/types"
)

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID: uuid.New(),
		Customer: &types.CustomerSnapshot{
			ID: uuid.NewString(), Name: "Dana", Phone: "503-555-0100", Points: 7,
		},
		Lines: types.OrderLines{
			{
				ID: uuid.NewString(), RefID: uuid.NewString(), Name: "Latte",
				UnitPrice: dec("4.50"), Quantity: 2,
				Addons: []types.AddonSnapshot{{ID: uuid.NewString(), Name: "Oat Milk", Price: dec("0.75")}},
			},
		},
		Subtotal:      dec("10.50"),
		TaxRate:       dec("8"),
		Tax:           dec("0.84"),
		Total:         dec("11.34"),
		PaymentMethod: enums.PaymentMethodCredit,
		FeePercent:    dec("2.9"),
		Fee:           dec("0.33"),
		GrandTotal:    dec("11.67"),
		CreatedAt:     time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC),
	}
}

func sampleSettings() *models.Settings {
	return &models.Settings{
		ID:           models.SettingsID,
		BusinessName: "TillPoint Cafe",
		Address:      "100 Main St",
		FooterNote:   "Thanks for visiting!",
	}
}

func TestRenderOrder(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	html, err := renderer.RenderOrder(sampleOrder(), sampleSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"TillPoint Cafe",
		"Dana",
		"Latte",
		"+ Oat Milk",
		"$10.50",
		"Card fee (2.9%)",
		"$11.67",
		"Thanks for visiting!",
		"★★★★★★★☆☆☆",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("receipt missing %q", want)
		}
	}
	if strings.Contains(html, "CANCELED") {
		t.Fatal("active order must not be stamped canceled")
	}
}

func TestRenderOrderCashOmitsFeeRow(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	order := sampleOrder()
	order.PaymentMethod = enums.PaymentMethodCash
	order.FeePercent = decimal.Zero
	order.Fee = decimal.Zero
	order.GrandTotal = order.Total

	html, err := renderer.RenderOrder(order, sampleSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "Card fee") {
		t.Fatal("cash receipt must not show a card fee row")
	}
}

func TestRenderOrderCanceledStamp(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	order := sampleOrder()
	order.Canceled = true

	html, err := renderer.RenderOrder(order, sampleSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "CANCELED") {
		t.Fatal("canceled order must be stamped")
	}
}

func TestRenderSalesReport(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 15, 17, 0, 0, 0, time.UTC)
	report := &reports.SalesReport{
		OrderCount: 12,
		TotalSales: dec("248.40"),
		StartDate:  &start,
		EndDate:    &end,
		Products: []reports.ProductStat{
			{Name: "Latte", Quantity: 30, Revenue: dec("150.00")},
		},
	}

	html, err := renderer.RenderSalesReport(report, sampleSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Sales Report", "12 orders", "$248.40", "Latte", "Aug 1, 2026"} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}
