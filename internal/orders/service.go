package orders

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tillpoint/tillpoint-backend/internal/cart"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox/payloads"
	"github.com/tillpoint/tillpoint-backend/pkg/types"
)

// CommitInput finalizes a register's cart into an immutable order.
type CommitInput struct {
	RegisterID    string
	Operator      string
	CustomerID    *uuid.UUID
	PaymentMethod enums.PaymentMethod
}

// CancelInput marks an order canceled with an optional reason.
type CancelInput struct {
	OrderID uuid.UUID
	Reason  string
}

// Service exposes the order lifecycle: commit, cancel, uncancel, reads.
type Service interface {
	Commit(ctx context.Context, input CommitInput) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
	Uncancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	outbox    outboxPublisher
	carts     cartProvider
	settings  settingsReader
	customers loyaltyService
	logg      *logger.Logger
}

// ServiceParams configure the orders service.
type ServiceParams struct {
	Repository Repository
	Tx         txRunner
	Outbox     outboxPublisher
	Carts      cartProvider
	Settings   settingsReader
	Customers  loyaltyService
	Logger     *logger.Logger
}

// NewService builds an orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, fmt.Errorf("repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart provider required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customers service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      params.Repository,
		tx:        params.Tx,
		outbox:    params.Outbox,
		carts:     params.Carts,
		settings:  params.Settings,
		customers: params.Customers,
		logg:      params.Logger,
	}, nil
}

// Commit prices the register's cart under the current settings, snapshots
// customer and lines into a new order, emits the sync event and grants
// loyalty credit in one transaction. The cart is cleared only after the
// transaction commits, so a failed commit leaves the register untouched.
func (s *service) Commit(ctx context.Context, input CommitInput) (*models.Order, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	lines := s.carts.Lines(input.RegisterID)
	quote, err := cart.PriceLines(lines, settings, input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var snapshot *types.CustomerSnapshot
	if input.CustomerID != nil {
		customer, err := s.customers.Get(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		snapshot = snapshotCustomer(customer)
	}

	order := &models.Order{
		ID:            uuid.New(),
		Customer:      snapshot,
		Lines:         snapshotLines(quote.Lines),
		Subtotal:      quote.Subtotal,
		TaxRate:       quote.TaxRate,
		Tax:           quote.Tax,
		Total:         quote.Total,
		PaymentMethod: quote.PaymentMethod,
		FeePercent:    quote.FeePercent,
		Fee:           quote.Fee,
		GrandTotal:    quote.GrandTotal,
		SyncStatus:    enums.SyncStatusPending,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		saved, err := repo.Create(ctx, order)
		if err != nil {
			return err
		}
		order = saved

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(input.RegisterID, input.Operator),
			Data: payloads.OrderCreatedEvent{
				OrderID:       order.ID,
				Customer:      order.Customer,
				Lines:         order.Lines,
				Subtotal:      order.Subtotal,
				TaxRate:       order.TaxRate,
				Tax:           order.Tax,
				Total:         order.Total,
				PaymentMethod: order.PaymentMethod,
				FeePercent:    order.FeePercent,
				Fee:           order.Fee,
				GrandTotal:    order.GrandTotal,
				CreatedAt:     order.CreatedAt,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		if input.CustomerID != nil {
			if _, err := s.customers.GrantOrderCredit(ctx, tx, *input.CustomerID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to commit order")
	}

	s.carts.Clear(input.RegisterID)
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order committed")
	return order, nil
}

// Cancel marks the order canceled. Only the cancellation fields change; the
// priced snapshot is immutable. Repeating a cancel is a no-op.
func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	order, err := s.Get(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Canceled && order.CancelReason == input.Reason {
		return order, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		updates := map[string]any{
			"canceled":      true,
			"cancel_reason": input.Reason,
		}
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderCanceledEvent{
				OrderID:    order.ID,
				Reason:     input.Reason,
				CanceledAt: time.Now().UTC(),
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to cancel order")
	}

	order.Canceled = true
	order.CancelReason = input.Reason
	return order, nil
}

// Uncancel reverses a cancellation. Uncanceling an active order is a no-op.
func (s *service) Uncancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Canceled {
		return order, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		updates := map[string]any{
			"canceled":      false,
			"cancel_reason": "",
		}
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderUncanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderUncanceledEvent{
				OrderID:      order.ID,
				UncanceledAt: time.Now().UTC(),
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to uncancel order")
	}

	order.Canceled = false
	order.CancelReason = ""
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}
	return orders, nil
}

func snapshotCustomer(customer *models.Customer) *types.CustomerSnapshot {
	snapshot := &types.CustomerSnapshot{
		ID:              customer.ID.String(),
		Name:            customer.Name,
		Phone:           customer.Phone,
		Points:          customer.Points,
		RewardAvailable: customer.RewardAvailable,
	}
	if customer.City != nil {
		snapshot.City = *customer.City
	}
	return snapshot
}

func snapshotLines(lines []cart.Line) types.OrderLines {
	out := make(types.OrderLines, 0, len(lines))
	for _, line := range lines {
		snapshot := types.OrderLine{
			ID:              line.ID.String(),
			RefID:           line.RefID.String(),
			Name:            line.Name,
			UnitPrice:       line.UnitPrice,
			Quantity:        line.Quantity,
			StandaloneAddon: line.AddonLine,
			Reward:          line.Reward,
		}
		for _, addon := range line.Addons {
			snapshot.Addons = append(snapshot.Addons, types.AddonSnapshot{
				ID:    addon.ID.String(),
				Name:  addon.Name,
				Price: addon.Price,
			})
		}
		out = append(out, snapshot)
	}
	return out
}

func buildActor(registerID, operator string) *outbox.ActorRef {
	if registerID == "" && operator == "" {
		return nil
	}
	return &outbox.ActorRef{RegisterID: registerID, Operator: operator}
}
