package change

import (
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
)

func dec(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("bad fixture %q: %v", raw, err)
	}
	return v
}

func countFor(t *testing.T, b Breakdown, label string) int64 {
	t.Helper()
	for _, line := range b.Lines {
		if line.Label == label {
			return line.Count
		}
	}
	t.Fatalf("no line for label %q", label)
	return 0
}

func TestComputeGreedyBreakdown(t *testing.T) {
	b, err := Compute(dec(t, "7.25"), dec(t, "10.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ChangeCents != 275 {
		t.Fatalf("expected 275 cents change, got %d", b.ChangeCents)
	}
	if got := countFor(t, b, "$2"); got != 1 {
		t.Fatalf("expected one $2, got %d", got)
	}
	if got := countFor(t, b, "50¢"); got != 1 {
		t.Fatalf("expected one 50¢, got %d", got)
	}
	if got := countFor(t, b, "25¢"); got != 1 {
		t.Fatalf("expected one 25¢, got %d", got)
	}

	var total int64
	for _, line := range b.Lines {
		total += line.Count * line.Cents
	}
	if total != b.ChangeCents {
		t.Fatalf("lines sum to %d, want %d", total, b.ChangeCents)
	}
	if b.Change.StringFixed(2) != "2.75" {
		t.Fatalf("expected change 2.75, got %s", b.Change.StringFixed(2))
	}
}

func TestComputeEmitsEveryDenomination(t *testing.T) {
	b, err := Compute(dec(t, "5.00"), dec(t, "5.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ChangeCents != 0 {
		t.Fatalf("exact payment should owe no change, got %d", b.ChangeCents)
	}
	if len(b.Lines) != len(Denominations()) {
		t.Fatalf("expected %d lines, got %d", len(Denominations()), len(b.Lines))
	}
	for _, line := range b.Lines {
		if line.Count != 0 {
			t.Fatalf("expected zero count for %s, got %d", line.Label, line.Count)
		}
	}
}

func TestComputeBillSlotAbsorbsDollarRemainder(t *testing.T) {
	b, err := Compute(dec(t, "1.00"), dec(t, "4.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := countFor(t, b, "$1"); got != 3 {
		t.Fatalf("expected the bill slot to take all three dollars, got %d", got)
	}
	if got := countFor(t, b, "$1 coin"); got != 0 {
		t.Fatalf("expected the coin slot to stay empty, got %d", got)
	}
}

func TestComputeFloatNoiseDoesNotShaveCents(t *testing.T) {
	// 20 − 19.90 in binary floats is 0.099999...; cent conversion must
	// still yield exactly 10.
	b, err := Compute(dec(t, "19.90"), dec(t, "20.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ChangeCents != 10 {
		t.Fatalf("expected 10 cents, got %d", b.ChangeCents)
	}
	if got := countFor(t, b, "10¢"); got != 1 {
		t.Fatalf("expected one 10¢, got %d", got)
	}
}

func TestComputeRejectsNegativeAmounts(t *testing.T) {
	cases := []struct {
		name     string
		due      string
		tendered string
	}{
		{"negative due", "-5.00", "0.00"},
		{"negative tendered", "5.00", "-1.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Compute(dec(t, tc.due), dec(t, tc.tendered))
			if err == nil {
				t.Fatalf("expected error, got change of %d cents", b.ChangeCents)
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestComputeInsufficientPayment(t *testing.T) {
	_, err := Compute(dec(t, "12.00"), dec(t, "10.00"))
	if err == nil {
		t.Fatal("expected insufficient payment error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected shortfall details, got %T", typed.Details())
	}
	if details["shortfall"] != "2.00" {
		t.Fatalf("expected shortfall 2.00, got %v", details["shortfall"])
	}
}
