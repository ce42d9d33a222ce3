package receipts

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/tillpoint-backend/internal/reports"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// loyaltyStars renders points as filled stars out of ten, matching the
// punch-card shown at the register.
func loyaltyStars(points int) string {
	if points < 0 {
		points = 0
	}
	if points > 10 {
		points = 10
	}
	return strings.Repeat("★", points) + strings.Repeat("☆", 10-points)
}

var funcs = template.FuncMap{
	"amount": func(v decimal.Decimal) string {
		return "$" + v.StringFixed(2)
	},
	"percent": func(v decimal.Decimal) string {
		return v.String() + "%"
	},
	"stars": loyaltyStars,
}

// Renderer produces the 80mm receipt and the sales report documents.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("receipts").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse receipt templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

type receiptData struct {
	Order       *models.Order
	Settings    *models.Settings
	OrderNumber string
	CreatedAt   string
	HasFee      bool
}

// RenderOrder renders the printable receipt for a committed order.
func (r *Renderer) RenderOrder(order *models.Order, settings *models.Settings) (string, error) {
	if order == nil {
		return "", fmt.Errorf("order required")
	}
	if settings == nil {
		settings = &models.Settings{}
	}

	data := receiptData{
		Order:       order,
		Settings:    settings,
		OrderNumber: shortOrderNumber(order),
		CreatedAt:   order.CreatedAt.Format("Jan 2, 2006 3:04 PM"),
		HasFee:      order.PaymentMethod.IsCard() && order.Fee.IsPositive(),
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "receipt.html.tmpl", data); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

type reportData struct {
	Report   *reports.SalesReport
	Settings *models.Settings
	Range    string
}

// RenderSalesReport renders the printable sales report document.
func (r *Renderer) RenderSalesReport(report *reports.SalesReport, settings *models.Settings) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report required")
	}
	if settings == nil {
		settings = &models.Settings{}
	}

	data := reportData{
		Report:   report,
		Settings: settings,
		Range:    formatRange(report.StartDate, report.EndDate),
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "report.html.tmpl", data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// shortOrderNumber keeps receipts readable; the full uuid stays in the API.
func shortOrderNumber(order *models.Order) string {
	id := order.ID.String()
	if len(id) >= 8 {
		return "#" + strings.ToUpper(id[:8])
	}
	return "#" + strings.ToUpper(id)
}

func formatRange(start, end *time.Time) string {
	if start == nil || end == nil {
		return ""
	}
	const layout = "Jan 2, 2006"
	if start.Format(layout) == end.Format(layout) {
		return start.Format(layout)
	}
	return start.Format(layout) + " to " + end.Format(layout)
}
