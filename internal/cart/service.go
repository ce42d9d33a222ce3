package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

type catalogReader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetAddon(ctx context.Context, id uuid.UUID) (*models.Addon, error)
}

type settingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

type rewardRedeemer interface {
	RedeemReward(ctx context.Context, customerID uuid.UUID) (*models.Customer, bool, error)
}

// ServiceParams configure the cart service.
type ServiceParams struct {
	Manager  *Manager
	Catalog  catalogReader
	Settings settingsReader
	Rewards  rewardRedeemer
	Logger   *logger.Logger
}

// Service mediates register cart sessions: catalog-validated mutations and
// settings-aware pricing.
type Service struct {
	manager  *Manager
	catalog  catalogReader
	settings settingsReader
	rewards  rewardRedeemer
	logg     *logger.Logger
}

// NewService builds a cart service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Manager == nil {
		return nil, fmt.Errorf("manager required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if params.Rewards == nil {
		return nil, fmt.Errorf("reward redeemer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		manager:  params.Manager,
		catalog:  params.Catalog,
		settings: params.Settings,
		rewards:  params.Rewards,
		logg:     params.Logger,
	}, nil
}

// AddProductInput identifies a product to sell plus the add-ons picked for
// it. Add-on ids the product does not allow are dropped silently.
type AddProductInput struct {
	RegisterID string
	ProductID  uuid.UUID
	Quantity   int64
	AddonIDs   []uuid.UUID
}

// AddProduct prices the product and its selected add-ons into the register's
// cart, merging with a compatible existing line when one is present.
func (s *Service) AddProduct(ctx context.Context, input AddProductInput) (Line, error) {
	if input.Quantity < 1 {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, err := s.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		return Line{}, err
	}
	if !product.IsActive {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "product is not active")
	}

	addons, err := s.resolveAddons(ctx, product, input.AddonIDs)
	if err != nil {
		return Line{}, err
	}

	sess := s.manager.Session(input.RegisterID)
	return sess.AddLine(product.ID, product.Name, product.Price, input.Quantity, addons), nil
}

// resolveAddons prices the requested add-ons, keeping only ids the product
// actually allows. Unknown ids never fail the line.
func (s *Service) resolveAddons(ctx context.Context, product *models.Product, requested []uuid.UUID) ([]LineAddon, error) {
	if len(requested) == 0 {
		return nil, nil
	}
	allowed := make(map[string]struct{}, len(product.AddonIDs))
	for _, id := range product.AddonIDs {
		allowed[id] = struct{}{}
	}

	var out []LineAddon
	for _, id := range requested {
		if _, ok := allowed[id.String()]; !ok {
			continue
		}
		addon, err := s.catalog.GetAddon(ctx, id)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, LineAddon{ID: addon.ID, Name: addon.Name, Price: addon.Price})
	}
	return out, nil
}

// AddStandaloneAddonInput sells an add-on without a parent product.
type AddStandaloneAddonInput struct {
	RegisterID string
	AddonID    uuid.UUID
	Quantity   int64
}

func (s *Service) AddStandaloneAddon(ctx context.Context, input AddStandaloneAddonInput) (Line, error) {
	if input.Quantity < 1 {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	addon, err := s.catalog.GetAddon(ctx, input.AddonID)
	if err != nil {
		return Line{}, err
	}
	sess := s.manager.Session(input.RegisterID)
	return sess.AddStandaloneAddon(addon.ID, addon.Name, addon.Price, input.Quantity), nil
}

// AddRewardInput redeems the customer's reward as a free line of the chosen
// product.
type AddRewardInput struct {
	RegisterID string
	ProductID  uuid.UUID
	CustomerID uuid.UUID
}

// AddReward consumes the customer's available reward and adds a zero-priced
// line for the product. Products outside the reward program are rejected.
func (s *Service) AddReward(ctx context.Context, input AddRewardInput) (Line, error) {
	product, err := s.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		return Line{}, err
	}
	if !product.RewardEligible {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "product is not reward eligible")
	}

	customer, redeemed, err := s.rewards.RedeemReward(ctx, input.CustomerID)
	if err != nil {
		return Line{}, err
	}
	if customer == nil || !redeemed {
		return Line{}, pkgerrors.New(pkgerrors.CodeStateConflict, "customer has no reward available")
	}

	sess := s.manager.Session(input.RegisterID)
	line := sess.AddRewardLine(product.ID, product.Name)
	s.logg.Info(s.logg.WithCustomerID(ctx, customer.ID.String()), "reward line added")
	return line, nil
}

// SetQuantity updates a line's quantity; zero removes the line.
func (s *Service) SetQuantity(registerID string, lineID uuid.UUID, quantity int64) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if !s.manager.Session(registerID).SetQuantity(lineID, quantity) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return nil
}

// RemoveLine deletes a line from the register's cart.
func (s *Service) RemoveLine(registerID string, lineID uuid.UUID) error {
	if !s.manager.Session(registerID).RemoveLine(lineID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return nil
}

// Lines returns the register's current cart lines.
func (s *Service) Lines(registerID string) []Line {
	return s.manager.Session(registerID).Lines()
}

// Clear empties the register's cart.
func (s *Service) Clear(registerID string) {
	s.manager.Session(registerID).Clear()
}

// Quote prices the register's cart under the current settings.
func (s *Service) Quote(ctx context.Context, registerID string, method enums.PaymentMethod) (*Quote, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return PriceLines(s.manager.Session(registerID).Lines(), settings, method)
}
