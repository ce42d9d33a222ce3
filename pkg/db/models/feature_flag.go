package models

import (
	"time"

	"github.com/tillpoint/tillpoint-backend/pkg/enums"
)

// FeatureFlagRow persists one register capability toggle. Rows only exist
// for known flag keys.
type FeatureFlagRow struct {
	Key       enums.FeatureFlag `gorm:"column:key;type:text;primaryKey"`
	Enabled   bool              `gorm:"column:enabled;not null;default:false"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table name plural despite the Row suffix.
func (FeatureFlagRow) TableName() string {
	return "feature_flags"
}
