package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
)

// Repository wires together product persistence helpers used by the group
// buying flows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDWithTiers loads the product with its discount ladder ordered by tier number.
func (r *Repository) FindByIDWithTiers(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("DiscountTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("tier_number ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SetGroupOrderEnabled flips the group ordering flag for a product.
func (r *Repository) SetGroupOrderEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("group_order_enabled", enabled).
		Error
}

// ListByVendor returns the vendor's products newest first.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("DiscountTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("tier_number ASC")
		}).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}
