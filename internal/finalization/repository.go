package finalization

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
)

// Repository holds the narrow persistence surface finalization needs: the
// locked group, the roster with user rows for the snapshot, and the priced
// ladder.
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

// FindGroupForUpdate locks the group row for the duration of the
// finalization transaction.
func (r *Repository) FindGroupForUpdate(ctx context.Context, id uuid.UUID) (*models.BuyingGroup, error) {
	var group models.BuyingGroup
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&group, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// SaveGroup persists the finalized_at and order_id columns.
func (r *Repository) SaveGroup(ctx context.Context, group *models.BuyingGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// RosterEntry pairs a roster row with the member's display name for the
// order snapshot.
type RosterEntry struct {
	Member models.GroupMember
	User   models.User
}

// LoadRoster returns the full roster oldest first with each member's user row.
func (r *Repository) LoadRoster(ctx context.Context, groupID uuid.UUID) ([]RosterEntry, error) {
	var members []models.GroupMember
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&members).
		Error
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	userIDs := make([]uuid.UUID, 0, len(members))
	for i := range members {
		userIDs = append(userIDs, members[i].UserID)
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	usersByID := make(map[uuid.UUID]models.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = users[i]
	}

	entries := make([]RosterEntry, 0, len(members))
	for i := range members {
		entries = append(entries, RosterEntry{
			Member: members[i],
			User:   usersByID[members[i].UserID],
		})
	}
	return entries, nil
}

// LoadPricedProduct returns the product with its ladder ordered by tier number.
func (r *Repository) LoadPricedProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("DiscountTiers", func(qb *gorm.DB) *gorm.DB {
			return qb.Order("tier_number ASC")
		}).
		First(&product, "id = ?", productID).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
