package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	"github.com/tillpoint/tillpoint-backend/pkg/types"
)

// Order is a committed sale. The priced fields and the customer/line
// snapshots are written once at commit and never mutated afterwards; only
// the cancellation fields, the sync fields and UpdatedAt may change.
type Order struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Customer      *types.CustomerSnapshot `gorm:"column:customer;type:jsonb;serializer:json"`
	Lines         types.OrderLines        `gorm:"column:lines;type:jsonb;serializer:json;not null"`
	Subtotal      decimal.Decimal         `gorm:"column:subtotal;type:numeric(12,2);not null"`
	TaxRate       decimal.Decimal         `gorm:"column:tax_rate;type:numeric(6,3);not null"`
	Tax           decimal.Decimal         `gorm:"column:tax;type:numeric(12,2);not null"`
	Total         decimal.Decimal         `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod     `gorm:"column:payment_method;type:text;not null;default:'cash'"`
	FeePercent    decimal.Decimal         `gorm:"column:fee_percent;type:numeric(6,3);not null;default:0"`
	Fee           decimal.Decimal         `gorm:"column:fee;type:numeric(12,2);not null;default:0"`
	GrandTotal    decimal.Decimal         `gorm:"column:grand_total;type:numeric(12,2);not null"`
	Canceled      bool                    `gorm:"column:canceled;not null;default:false"`
	CancelReason  string                  `gorm:"column:cancel_reason;not null;default:''"`
	SyncStatus    enums.SyncStatus        `gorm:"column:sync_status;type:text;not null;default:'pending'"`
	SyncedAt      *time.Time              `gorm:"column:synced_at"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
