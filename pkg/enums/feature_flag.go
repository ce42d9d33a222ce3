package enums

import "fmt"

// FeatureFlag names a register capability that can be toggled per install.
type FeatureFlag string

const (
	FeatureOrdersView     FeatureFlag = "ordersView"
	FeatureSendToKitchen  FeatureFlag = "sendToKitchen"
	FeatureServerSave     FeatureFlag = "serverSave"
	FeatureClientSearch   FeatureFlag = "clientSearch"
	FeatureImportExport   FeatureFlag = "importExport"
	FeatureRewards        FeatureFlag = "rewards"
	FeatureManageProducts FeatureFlag = "manageProducts"
)

var validFeatureFlags = []FeatureFlag{
	FeatureOrdersView,
	FeatureSendToKitchen,
	FeatureServerSave,
	FeatureClientSearch,
	FeatureImportExport,
	FeatureRewards,
	FeatureManageProducts,
}

// AllFeatureFlags returns the known flags in declaration order.
func AllFeatureFlags() []FeatureFlag {
	out := make([]FeatureFlag, len(validFeatureFlags))
	copy(out, validFeatureFlags)
	return out
}

// String implements fmt.Stringer.
func (f FeatureFlag) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FeatureFlag.
func (f FeatureFlag) IsValid() bool {
	for _, candidate := range validFeatureFlags {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFeatureFlag converts raw input into a FeatureFlag.
func ParseFeatureFlag(value string) (FeatureFlag, error) {
	for _, candidate := range validFeatureFlags {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid feature flag %q", value)
}
