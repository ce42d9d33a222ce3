package customers

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox/payloads"
)

// rewardThreshold is the point count at which loyalty progress converts into
// a free-item reward.
const rewardThreshold = 10

// ResolveInput carries an incoming profile from the register. Phone is the
// identity: its digits-only form decides whether this is a create or a hit
// on an existing customer.
type ResolveInput struct {
	Name      string
	Phone     string
	City      *string
	Overwrite bool
}

// Service exposes customer identity and loyalty operations.
type Service interface {
	Resolve(ctx context.Context, input ResolveInput) (*models.Customer, bool, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Search(ctx context.Context, phoneFragment string, limit int) ([]models.Customer, error)
	GrantOrderCredit(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (*models.Customer, error)
	RedeemReward(ctx context.Context, customerID uuid.UUID) (*models.Customer, bool, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
}

// NewService builds a customers service.
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

// Resolve creates the customer when the phone is new, reports a conflict
// carrying the existing record when it is not, and overwrites the profile in
// place (keeping id and loyalty state) when the caller asked for it.
func (s *service) Resolve(ctx context.Context, input ResolveInput) (*models.Customer, bool, error) {
	if input.Name == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	digits := NormalizePhone(input.Phone)
	if digits == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "phone must contain digits")
	}

	existing, err := s.repo.FindByPhoneDigits(ctx, digits)
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to look up customer")
	}

	if existing != nil && !input.Overwrite {
		return nil, false, pkgerrors.New(pkgerrors.CodeConflict, "customer with this phone already exists").
			WithDetails(map[string]any{"existing": existing})
	}

	var (
		result  *models.Customer
		created bool
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if existing == nil {
			customer := &models.Customer{
				Name:        input.Name,
				Phone:       input.Phone,
				PhoneDigits: digits,
				City:        input.City,
			}
			saved, err := repo.Create(ctx, customer)
			if err != nil {
				return err
			}
			result = saved
			created = true
		} else {
			existing.Name = input.Name
			existing.Phone = input.Phone
			existing.PhoneDigits = digits
			existing.City = input.City
			saved, err := repo.Update(ctx, existing)
			if err != nil {
				return err
			}
			result = saved
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCustomerUpserted,
			AggregateType: enums.AggregateCustomer,
			AggregateID:   result.ID,
			Data: payloads.CustomerUpsertedEvent{
				CustomerID:  result.ID,
				Name:        result.Name,
				Phone:       result.Phone,
				PhoneDigits: result.PhoneDigits,
				City:        cityOrEmpty(result.City),
				Overwrite:   !created,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save customer")
	}
	return result, created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load customer")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list customers")
	}
	return customers, nil
}

func (s *service) Search(ctx context.Context, phoneFragment string, limit int) ([]models.Customer, error) {
	customers, err := s.repo.SearchByPhone(ctx, phoneFragment, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to search customers")
	}
	return customers, nil
}

// GrantOrderCredit adds one loyalty point inside the caller's transaction.
// At the threshold the counter resets and the reward flag is set. An unknown
// customer id is a silent no-op so a committed sale never fails on loyalty.
func (s *service) GrantOrderCredit(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (*models.Customer, error) {
	repo := s.repo.WithTx(tx)
	customer, err := repo.FindByID(ctx, customerID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(s.logg.WithCustomerID(ctx, customerID.String()), "loyalty credit skipped for unknown customer")
			return nil, nil
		}
		return nil, err
	}

	customer.Points++
	if customer.Points >= rewardThreshold {
		customer.Points = 0
		customer.RewardAvailable = true
	}
	saved, err := repo.Update(ctx, customer)
	if err != nil {
		return nil, err
	}

	err = s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventRewardGranted,
		AggregateType: enums.AggregateCustomer,
		AggregateID:   saved.ID,
		Data: payloads.RewardGrantedEvent{
			CustomerID:      saved.ID,
			Points:          saved.Points,
			RewardAvailable: saved.RewardAvailable,
		},
		Version: 1,
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// RedeemReward consumes an available reward. The second return reports
// whether a reward was actually consumed; unknown customers and customers
// with no reward are no-ops.
func (s *service) RedeemReward(ctx context.Context, customerID uuid.UUID) (*models.Customer, bool, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load customer")
	}
	if !customer.RewardAvailable {
		return customer, false, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer.RewardAvailable = false
		customer.Points = 0
		saved, err := repo.Update(ctx, customer)
		if err != nil {
			return err
		}
		customer = saved
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRewardRedeemed,
			AggregateType: enums.AggregateCustomer,
			AggregateID:   saved.ID,
			Data: payloads.RewardRedeemedEvent{
				CustomerID: saved.ID,
				RedeemedAt: time.Now().UTC(),
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to redeem reward")
	}
	return customer, true, nil
}

func cityOrEmpty(city *string) string {
	if city == nil {
		return ""
	}
	return *city
}
