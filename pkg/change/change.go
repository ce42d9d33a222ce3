package change

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// Denomination is one drawer slot: its value in cents and the printed label.
type Denomination struct {
	Cents int64
	Label string
}

// Drawer order matters: larger values drain first, and the duplicate $1
// entries keep their positions so the bill slot absorbs the remainder before
// the coin slot is considered.
var denominations = []Denomination{
	{10000, "$100"},
	{5000, "$50"},
	{2000, "$20"},
	{1000, "$10"},
	{500, "$5"},
	{200, "$2"},
	{100, "$1"},
	{100, "$1 coin"},
	{50, "50¢"},
	{25, "25¢"},
	{10, "10¢"},
	{5, "5¢"},
	{1, "1¢"},
}

// Denominations returns the drawer slots in payout order.
func Denominations() []Denomination {
	out := make([]Denomination, len(denominations))
	copy(out, denominations)
	return out
}

// Line reports how many units of a single denomination to hand back. Every
// drawer slot produces a line, including zero-count ones, so receipts render
// a stable table.
type Line struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
	Cents int64  `json:"value_cents"`
}

// Breakdown is the full change instruction for one cash payment.
type Breakdown struct {
	ChangeCents int64           `json:"change_cents"`
	Change      decimal.Decimal `json:"change"`
	Lines       []Line          `json:"lines"`
}

// Compute determines the change owed for a cash payment. Amounts are
// converted to integer cents before subtraction so float noise in the inputs
// cannot shave a cent. Negative amounts never reach the drawer; tendering
// less than the amount due is a validation failure carrying the shortfall.
func Compute(due, tendered decimal.Decimal) (Breakdown, error) {
	if due.IsNegative() || tendered.IsNegative() {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "amounts must not be negative")
	}
	if tendered.LessThan(due) {
		shortfall := money.Round2(due.Sub(tendered))
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "insufficient payment").
			WithDetails(map[string]any{
				"shortfall": shortfall.StringFixed(2),
			})
	}

	remaining := money.Cents(tendered) - money.Cents(due)
	breakdown := Breakdown{ChangeCents: remaining, Change: money.FromCents(remaining)}
	for _, denom := range denominations {
		count := remaining / denom.Cents
		remaining -= count * denom.Cents
		breakdown.Lines = append(breakdown.Lines, Line{
			Label: denom.Label,
			Count: count,
			Cents: denom.Cents,
		})
	}
	return breakdown, nil
}
