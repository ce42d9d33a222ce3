package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tillpoint/tillpoint-backend/internal/cart"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	"github.com/tillpoint/tillpoint-backend/pkg/outbox"
)

// Repository defines persistence operations for committed orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	UpdateSyncStatus(ctx context.Context, orderID uuid.UUID, status enums.SyncStatus, syncedAt *time.Time) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type cartProvider interface {
	Lines(registerID string) []cart.Line
	Clear(registerID string)
}

type settingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

type loyaltyService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GrantOrderCredit(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (*models.Customer, error)
}
