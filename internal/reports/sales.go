package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// ProductStat aggregates sold quantity and revenue for one display name.
// Grouping is by the name printed on the line, so a renamed product starts a
// new row while old orders keep the old one.
type ProductStat struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SalesReport summarizes a set of orders. Canceled orders are included.
type SalesReport struct {
	OrderCount int             `json:"orderCount"`
	TotalSales decimal.Decimal `json:"totalSales"`
	StartDate  *time.Time      `json:"startDate,omitempty"`
	EndDate    *time.Time      `json:"endDate,omitempty"`
	Products   []ProductStat   `json:"products"`
}

// ComputeSales aggregates the orders. Orders with a missing creation
// timestamp still count toward totals but are excluded from the date range.
func ComputeSales(orders []models.Order) SalesReport {
	report := SalesReport{
		OrderCount: len(orders),
		TotalSales: decimal.Zero,
		Products:   []ProductStat{},
	}

	stats := make(map[string]*ProductStat)
	for _, order := range orders {
		report.TotalSales = report.TotalSales.Add(order.Total)

		if !order.CreatedAt.IsZero() {
			created := order.CreatedAt
			if report.StartDate == nil || created.Before(*report.StartDate) {
				report.StartDate = &created
			}
			if report.EndDate == nil || created.After(*report.EndDate) {
				report.EndDate = &created
			}
		}

		for _, line := range order.Lines {
			stat, ok := stats[line.Name]
			if !ok {
				stat = &ProductStat{Name: line.Name, Revenue: decimal.Zero}
				stats[line.Name] = stat
			}
			stat.Quantity += line.Quantity
			stat.Revenue = stat.Revenue.Add(line.LineTotal())
		}
	}

	report.TotalSales = money.Round2(report.TotalSales)
	for _, stat := range stats {
		stat.Revenue = money.Round2(stat.Revenue)
		report.Products = append(report.Products, *stat)
	}
	sort.Slice(report.Products, func(i, j int) bool {
		if report.Products[i].Quantity != report.Products[j].Quantity {
			return report.Products[i].Quantity > report.Products[j].Quantity
		}
		return report.Products[i].Name < report.Products[j].Name
	})
	return report
}
