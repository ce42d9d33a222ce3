package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the fixed primary key of the singleton settings row.
const SettingsID = 1

// Settings is the single-row store configuration replaced wholesale on save.
type Settings struct {
	ID               int             `gorm:"column:id;primaryKey"`
	TaxRate          decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,3);not null;default:8"`
	DebitFeePercent  decimal.Decimal `gorm:"column:debit_fee_percent;type:numeric(6,3);not null;default:0"`
	CreditFeePercent decimal.Decimal `gorm:"column:credit_fee_percent;type:numeric(6,3);not null;default:0"`
	BusinessName     string          `gorm:"column:business_name;not null;default:''"`
	Address          string          `gorm:"column:address;not null;default:''"`
	Phone            string          `gorm:"column:phone;not null;default:''"`
	LogoURL          string          `gorm:"column:logo_url;not null;default:''"`
	FooterNote       string          `gorm:"column:footer_note;not null;default:''"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
