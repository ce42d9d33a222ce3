package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry. AddonIDs lists the add-ons the
// register may attach to it, in menu order.
type Product struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CategoryID     *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	AddonIDs       pq.StringArray  `gorm:"column:addon_ids;type:text[];not null;default:ARRAY[]::text[]"`
	RewardEligible bool            `gorm:"column:reward_eligible;not null;default:false"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
