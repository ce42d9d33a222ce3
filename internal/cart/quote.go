package cart

import (
	"github.com/shopspring/decimal"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// Quote is the priced view of a cart under the current settings. Every
// monetary field is rounded to cents, so re-pricing an unchanged cart yields
// identical values.
type Quote struct {
	Lines         []Line              `json:"lines"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	TaxRate       decimal.Decimal     `json:"taxRate"`
	Tax           decimal.Decimal     `json:"tax"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	FeePercent    decimal.Decimal     `json:"feePercent"`
	Fee           decimal.Decimal     `json:"fee"`
	GrandTotal    decimal.Decimal     `json:"grandTotal"`
}

// PriceLines prices a set of cart lines. The result does not depend on line
// order. An empty cart cannot be priced.
func PriceLines(lines []Line, settings *models.Settings, method enums.PaymentMethod) (*Quote, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "cart is empty")
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Total())
	}
	subtotal = money.Round2(subtotal)
	tax := money.Round2(money.Percent(subtotal, settings.TaxRate))
	total := money.Round2(subtotal.Add(tax))

	feePercent := decimal.Zero
	switch method {
	case enums.PaymentMethodDebit:
		feePercent = settings.DebitFeePercent
	case enums.PaymentMethodCredit:
		feePercent = settings.CreditFeePercent
	}
	fee := money.Round2(money.Percent(total, feePercent))
	grandTotal := money.Round2(total.Add(fee))

	return &Quote{
		Lines:         lines,
		Subtotal:      subtotal,
		TaxRate:       settings.TaxRate,
		Tax:           tax,
		Total:         total,
		PaymentMethod: method,
		FeePercent:    feePercent,
		Fee:           fee,
		GrandTotal:    grandTotal,
	}, nil
}
