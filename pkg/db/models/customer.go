package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a loyalty profile. PhoneDigits is the digits-only form of the
// phone number and is the identity key: two entries with the same digits are
// the same person regardless of formatting.
type Customer struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Phone           string    `gorm:"column:phone;not null"`
	PhoneDigits     string    `gorm:"column:phone_digits;not null;uniqueIndex"`
	City            *string   `gorm:"column:city"`
	Points          int       `gorm:"column:points;not null;default:0"`
	RewardAvailable bool      `gorm:"column:reward_available;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
