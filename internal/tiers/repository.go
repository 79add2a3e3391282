package tiers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
)

// Repository exposes discount tier persistence.
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

// ListTiers returns the product's ladder ordered by tier number ascending.
func (r *Repository) ListTiers(ctx context.Context, productID uuid.UUID) ([]models.DiscountTier, error) {
	var rows []models.DiscountTier
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("tier_number ASC").
		Find(&rows).
		Error
	return rows, err
}

// ReplaceTiers swaps the product's entire ladder in place. Callers run this
// inside a transaction together with the group_order_enabled flip.
func (r *Repository) ReplaceTiers(ctx context.Context, productID uuid.UUID, rows []models.DiscountTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.DiscountTier{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
