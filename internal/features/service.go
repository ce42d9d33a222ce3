package features

import (
	"context"
	"fmt"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

// Service reads and replaces the register capability toggles. The flag set
// is a closed allow-list; unknown keys are rejected, never stored.
type Service interface {
	List(ctx context.Context) (map[enums.FeatureFlag]bool, error)
	Replace(ctx context.Context, flags map[string]bool) (map[enums.FeatureFlag]bool, error)
	IsEnabled(ctx context.Context, flag enums.FeatureFlag) (bool, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds a feature flags service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// List returns every known flag. Flags without a stored row read as false.
func (s *service) List(ctx context.Context) (map[enums.FeatureFlag]bool, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list feature flags")
	}

	out := make(map[enums.FeatureFlag]bool, len(enums.AllFeatureFlags()))
	for _, flag := range enums.AllFeatureFlags() {
		out[flag] = false
	}
	for _, row := range rows {
		if row.Key.IsValid() {
			out[row.Key] = row.Enabled
		}
	}
	return out, nil
}

// Replace validates and stores the provided flag set.
func (s *service) Replace(ctx context.Context, flags map[string]bool) (map[enums.FeatureFlag]bool, error) {
	rows := make([]models.FeatureFlagRow, 0, len(flags))
	for key, enabled := range flags {
		flag, err := enums.ParseFeatureFlag(key)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown feature flag %q", key))
		}
		rows = append(rows, models.FeatureFlagRow{Key: flag, Enabled: enabled})
	}

	if err := s.repo.Upsert(ctx, rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save feature flags")
	}
	return s.List(ctx)
}

func (s *service) IsEnabled(ctx context.Context, flag enums.FeatureFlag) (bool, error) {
	all, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return all[flag], nil
}
