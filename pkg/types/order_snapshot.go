package types

import (
	"github.com/shopspring/decimal"
)

// CustomerSnapshot freezes the customer as they were at commit time. Later
// profile edits never rewrite a printed receipt.
type CustomerSnapshot struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	City            string `json:"city,omitempty"`
	Points          int    `json:"points"`
	RewardAvailable bool   `json:"reward_available"`
}

// AddonSnapshot is an add-on as priced into a committed line.
type AddonSnapshot struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// OrderLine is one committed cart line. RefID points at the catalog entry
// the line came from (product or add-on); Name is the display name shown on
// receipts and used by sales reporting.
type OrderLine struct {
	ID              string          `json:"id"`
	RefID           string          `json:"ref_id"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int64           `json:"quantity"`
	Addons          []AddonSnapshot `json:"addons,omitempty"`
	StandaloneAddon bool            `json:"standalone_addon,omitempty"`
	Reward          bool            `json:"reward,omitempty"`
}

// LineTotal returns (unit price + add-on prices) × quantity.
func (l OrderLine) LineTotal() decimal.Decimal {
	unit := l.UnitPrice
	for _, addon := range l.Addons {
		unit = unit.Add(addon.Price)
	}
	return unit.Mul(decimal.NewFromInt(l.Quantity))
}

// OrderLines is the ordered set of lines on a committed order.
type OrderLines []OrderLine
