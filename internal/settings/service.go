package settings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox/payloads"
)

// settingsAggregateID is the fixed aggregate id for the singleton row in the
// outbox; there is only ever one settings aggregate.
var settingsAggregateID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ReplaceInput is the full settings object; a save replaces every field.
type ReplaceInput struct {
	TaxRate          decimal.Decimal
	DebitFeePercent  decimal.Decimal
	CreditFeePercent decimal.Decimal
	BusinessName     string
	Address          string
	Phone            string
	LogoURL          string
	FooterNote       string
}

// Service reads and replaces the store settings singleton.
type Service interface {
	Get(ctx context.Context) (*models.Settings, error)
	Replace(ctx context.Context, input ReplaceInput) (*models.Settings, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
}

// NewService builds a settings service.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher, logg: logg}, nil
}

func (s *service) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load settings")
	}
	return settings, nil
}

func (s *service) Replace(ctx context.Context, input ReplaceInput) (*models.Settings, error) {
	if input.TaxRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must not be negative")
	}
	if input.DebitFeePercent.IsNegative() || input.CreditFeePercent.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fee percents must not be negative")
	}

	settings := &models.Settings{
		ID:               models.SettingsID,
		TaxRate:          input.TaxRate,
		DebitFeePercent:  input.DebitFeePercent,
		CreditFeePercent: input.CreditFeePercent,
		BusinessName:     input.BusinessName,
		Address:          input.Address,
		Phone:            input.Phone,
		LogoURL:          input.LogoURL,
		FooterNote:       input.FooterNote,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.repo.WithTx(tx).Replace(ctx, settings)
		if err != nil {
			return err
		}
		settings = saved
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSettingsChanged,
			AggregateType: enums.AggregateSettings,
			AggregateID:   settingsAggregateID,
			Data: payloads.SettingsChangedEvent{
				TaxRate:          saved.TaxRate,
				DebitFeePercent:  saved.DebitFeePercent,
				CreditFeePercent: saved.CreditFeePercent,
				BusinessName:     saved.BusinessName,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save settings")
	}
	return settings, nil
}
