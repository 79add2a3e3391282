package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
)

// Repository exposes group order persistence. Orders are insert-only; the
// row written at finalization is never updated.
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

// CreateGroupOrder inserts the finalization record.
func (r *Repository) CreateGroupOrder(ctx context.Context, order *models.GroupOrder) (*models.GroupOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads one order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error) {
	var order models.GroupOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByGroupID loads the order created for a group, if any.
func (r *Repository) FindByGroupID(ctx context.Context, groupID uuid.UUID) (*models.GroupOrder, error) {
	var order models.GroupOrder
	if err := r.db.WithContext(ctx).First(&order, "group_id = ?", groupID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
