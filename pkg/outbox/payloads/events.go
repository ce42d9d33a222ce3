package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	"github.com/tillpoint/tillpoint-backend/pkg/types"
)

// OrderCreatedEvent mirrors a committed sale to the external store.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID               `json:"order_id"`
	Customer      *types.CustomerSnapshot `json:"customer,omitempty"`
	Lines         types.OrderLines        `json:"lines"`
	Subtotal      decimal.Decimal         `json:"subtotal"`
	TaxRate       decimal.Decimal         `json:"tax_rate"`
	Tax           decimal.Decimal         `json:"tax"`
	Total         decimal.Decimal         `json:"total"`
	PaymentMethod enums.PaymentMethod     `json:"payment_method"`
	FeePercent    decimal.Decimal         `json:"fee_percent"`
	Fee           decimal.Decimal         `json:"fee"`
	GrandTotal    decimal.Decimal         `json:"grand_total"`
	CreatedAt     time.Time               `json:"created_at"`
}

// OrderCanceledEvent propagates a cancellation, including its reason.
type OrderCanceledEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	Reason     string    `json:"reason,omitempty"`
	CanceledAt time.Time `json:"canceled_at"`
}

// OrderUncanceledEvent reverses a cancellation downstream.
type OrderUncanceledEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	UncanceledAt time.Time `json:"uncanceled_at"`
}

// CustomerUpsertedEvent mirrors a loyalty profile create or overwrite.
type CustomerUpsertedEvent struct {
	CustomerID  uuid.UUID `json:"customer_id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	PhoneDigits string    `json:"phone_digits"`
	City        string    `json:"city,omitempty"`
	Overwrite   bool      `json:"overwrite"`
}

// RewardGrantedEvent reports loyalty progress after a committed sale.
type RewardGrantedEvent struct {
	CustomerID      uuid.UUID `json:"customer_id"`
	Points          int       `json:"points"`
	RewardAvailable bool      `json:"reward_available"`
}

// RewardRedeemedEvent reports a consumed reward.
type RewardRedeemedEvent struct {
	CustomerID uuid.UUID `json:"customer_id"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// CatalogChangedEvent tells the mirror a catalog entity changed.
type CatalogChangedEvent struct {
	EntityKind string    `json:"entity_kind"`
	EntityID   uuid.UUID `json:"entity_id"`
	Action     string    `json:"action"`
}

// SettingsChangedEvent propagates a settings replace.
type SettingsChangedEvent struct {
	TaxRate          decimal.Decimal `json:"tax_rate"`
	DebitFeePercent  decimal.Decimal `json:"debit_fee_percent"`
	CreditFeePercent decimal.Decimal `json:"credit_fee_percent"`
	BusinessName     string          `json:"business_name"`
}
