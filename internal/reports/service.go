package reports

import (
	"context"
	"fmt"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

type ordersLister interface {
	List(ctx context.Context) ([]models.Order, error)
}

// Service produces sales reports over the committed order history.
type Service interface {
	Sales(ctx context.Context) (*SalesReport, error)
}

type service struct {
	orders ordersLister
	logg   *logger.Logger
}

// NewService builds a reports service.
func NewService(orders ordersLister, logg *logger.Logger) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders lister required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{orders: orders, logg: logg}, nil
}

func (s *service) Sales(ctx context.Context) (*SalesReport, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load orders for report")
	}
	report := ComputeSales(orders)
	return &report, nil
}
