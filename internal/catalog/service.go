package catalog

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox/payloads"
)

// ProductInput carries a product create or update. AddonIDs is stored as
// given; ids that never resolve to an addon are ignored at sell time.
type ProductInput struct {
	Name           string
	Price          decimal.Decimal
	CategoryID     *uuid.UUID
	AddonIDs       []uuid.UUID
	RewardEligible bool
	IsActive       bool
}

// AddonInput carries an addon create or update.
type AddonInput struct {
	Name  string
	Price decimal.Decimal
}

// CategoryInput carries a category create or update.
type CategoryInput struct {
	Name     string
	Position int
}

// Service exposes per-item catalog CRUD. Every write lands in the outbox so
// the mirror store converges on the same menu.
type Service interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListAddons(ctx context.Context) ([]models.Addon, error)
	GetAddon(ctx context.Context, id uuid.UUID) (*models.Addon, error)
	CreateAddon(ctx context.Context, input AddonInput) (*models.Addon, error)
	UpdateAddon(ctx context.Context, id uuid.UUID, input AddonInput) (*models.Addon, error)
	DeleteAddon(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
}

// NewService builds a catalog service.
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

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list products")
	}
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	product := &models.Product{
		ID:             uuid.New(),
		Name:           input.Name,
		Price:          input.Price,
		CategoryID:     input.CategoryID,
		AddonIDs:       toStringArray(input.AddonIDs),
		RewardEligible: input.RewardEligible,
		IsActive:       input.IsActive,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.repo.WithTx(tx).CreateProduct(ctx, product)
		if err != nil {
			return err
		}
		product = saved
		return s.emitCatalogChange(ctx, tx, "product", product.ID, "created")
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = input.Name
	product.Price = input.Price
	product.CategoryID = input.CategoryID
	product.AddonIDs = toStringArray(input.AddonIDs)
	product.RewardEligible = input.RewardEligible
	product.IsActive = input.IsActive

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.repo.WithTx(tx).SaveProduct(ctx, product)
		if err != nil {
			return err
		}
		product = saved
		return s.emitCatalogChange(ctx, tx, "product", product.ID, "updated")
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update product")
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).DeleteProduct(ctx, id); err != nil {
			return err
		}
		return s.emitCatalogChange(ctx, tx, "product", id, "deleted")
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete product")
	}
	return nil
}

func (s *service) ListAddons(ctx context.Context) ([]models.Addon, error) {
	addons, err := s.repo.ListAddons(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list addons")
	}
	return addons, nil
}

func (s *service) GetAddon(ctx context.Context, id uuid.UUID) (*models.Addon, error) {
	addon, err := s.repo.FindAddonByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load addon")
	}
	return addon, nil
}

func (s *service) CreateAddon(ctx context.Context, input AddonInput) (*models.Addon, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	addon := &models.Addon{ID: uuid.New(), Name: input.Name, Price: input.Price}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.repo.WithTx(tx).CreateAddon(ctx, addon)
		if err != nil {
			return err
		}
		addon = saved
		return s.emitCatalogChange(ctx, tx, "addon", addon.ID, "created")
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create addon")
	}
	return addon, nil
}

func (s *service) UpdateAddon(ctx context.Context, id uuid.UUID, input AddonInput) (*models.Addon, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	addon, err := s.GetAddon(ctx, id)
	if err != nil {
		return nil, err
	}
	addon.Name = input.Name
	addon.Price = input.Price

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.repo.WithTx(tx).SaveAddon(ctx, addon)
		if err != nil {
			return err
		}
		addon = saved
		return s.emitCatalogChange(ctx, tx, "addon", addon.ID, "updated")
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update addon")
	}
	return addon, nil
}

func (s *service) DeleteAddon(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetAddon(ctx, id); err != nil {
		return err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).DeleteAddon(ctx, id); err != nil {
			return err
		}
		return s.emitCatalogChange(ctx, tx, "addon", id, "deleted")
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete addon")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list categories")
	}
	return categories, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load category")
	}
	return category, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}

	category := &models.Category{ID: uuid.New(), Name: input.Name, Position: input.Position}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.repo.WithTx(tx).CreateCategory(ctx, category)
		if err != nil {
			return err
		}
		category = saved
		return s.emitCatalogChange(ctx, tx, "category", category.ID, "created")
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = input.Name
	category.Position = input.Position

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.repo.WithTx(tx).SaveCategory(ctx, category)
		if err != nil {
			return err
		}
		category = saved
		return s.emitCatalogChange(ctx, tx, "category", category.ID, "updated")
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).DeleteCategory(ctx, id); err != nil {
			return err
		}
		return s.emitCatalogChange(ctx, tx, "category", id, "deleted")
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete category")
	}
	return nil
}

func (s *service) emitCatalogChange(ctx context.Context, tx *gorm.DB, kind string, id uuid.UUID, action string) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventCatalogChanged,
		AggregateType: enums.AggregateProduct,
		AggregateID:   id,
		Data: payloads.CatalogChangedEvent{
			EntityKind: kind,
			EntityID:   id,
			Action:     action,
		},
		Version: 1,
	})
}

func validateName(name string) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return nil
}

func toStringArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
