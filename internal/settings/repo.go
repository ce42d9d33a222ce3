package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
)

// Repository is the persistence surface for the settings singleton.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context) (*models.Settings, error)
	Replace(ctx context.Context, settings *models.Settings) (*models.Settings, error)
}

type repository struct {
	db           *gorm.DB
	businessName string
}

// NewRepository builds a settings repository bound to the provided DB. The
// business name seeds the defaults row the first time settings are read.
func NewRepository(db *gorm.DB, defaultBusinessName string) Repository {
	return &repository{db: db, businessName: defaultBusinessName}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, businessName: r.businessName}
}

// Get loads the singleton row, creating the defaults row when the table is
// empty.
func (r *repository) Get(ctx context.Context) (*models.Settings, error) {
	settings := models.Settings{ID: models.SettingsID}
	err := r.db.WithContext(ctx).
		Where("id = ?", models.SettingsID).
		Attrs(models.Settings{BusinessName: r.businessName}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Replace overwrites the singleton row wholesale.
func (r *repository) Replace(ctx context.Context, settings *models.Settings) (*models.Settings, error) {
	settings.ID = models.SettingsID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}
