package groups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
	"github.com/huddlebuy/huddlebuy-backend/pkg/pagination"
)

// Repository wires together buying group, membership, join request, and
// invite persistence.
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

// CreateGroup inserts a new buying group row.
func (r *Repository) CreateGroup(ctx context.Context, group *models.BuyingGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// SaveGroup persists mutations on an existing group row.
func (r *Repository) SaveGroup(ctx context.Context, group *models.BuyingGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// FindGroupByID loads a group without locking.
func (r *Repository) FindGroupByID(ctx context.Context, id uuid.UUID) (*models.BuyingGroup, error) {
	var group models.BuyingGroup
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindGroupByIDForUpdate loads a group under SELECT ... FOR UPDATE so the
// caller's capacity check and member insert stay atomic. Only meaningful
// inside a transaction.
func (r *Repository) FindGroupByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.BuyingGroup, error) {
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

// FindGroupByAccessCodeForUpdate locks the group matching the access code.
func (r *Repository) FindGroupByAccessCodeForUpdate(ctx context.Context, code string) (*models.BuyingGroup, error) {
	var group models.BuyingGroup
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&group, "access_code = ?", code).
		Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// AccessCodeInUse reports whether any group already claimed the code.
func (r *Repository) AccessCodeInUse(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BuyingGroup{}).
		Where("access_code = ?", code).
		Count(&count).
		Error
	return count > 0, err
}

// CountMembers returns the current roster size.
func (r *Repository) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&count).
		Error
	return count, err
}

// IsMember reports whether the user already belongs to the group.
func (r *Repository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).
		Error
	return count > 0, err
}

// CreateMember inserts a roster row.
func (r *Repository) CreateMember(ctx context.Context, member *models.GroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// DeleteMember removes the user's roster row, returning rows affected.
func (r *Repository) DeleteMember(ctx context.Context, groupID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{})
	return res.RowsAffected, res.Error
}

// ListMembers returns roster rows newest first with cursor pagination.
func (r *Repository) ListMembers(ctx context.Context, groupID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.GroupMember, error) {
	qb := r.db.WithContext(ctx).
		Where("group_id = ?", groupID)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.GroupMember
	err := qb.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// ListAllMembers returns the full roster oldest first, for snapshots.
func (r *Repository) ListAllMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	var rows []models.GroupMember
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateJoinRequest inserts a pending request.
func (r *Repository) CreateJoinRequest(ctx context.Context, request *models.JoinRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// FindJoinRequestByIDForUpdate locks a request row for review.
func (r *Repository) FindJoinRequestByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	var request models.JoinRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// SaveJoinRequest persists request mutations.
func (r *Repository) SaveJoinRequest(ctx context.Context, request *models.JoinRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// HasActiveJoinRequest reports a pending or approved request for the user.
func (r *Repository) HasActiveJoinRequest(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("group_id = ? AND user_id = ? AND status IN ?", groupID, userID,
			[]enums.JoinRequestStatus{enums.JoinRequestStatusPending, enums.JoinRequestStatusApproved}).
		Count(&count).
		Error
	return count > 0, err
}

// ListJoinRequests returns the group's requests newest first.
func (r *Repository) ListJoinRequests(ctx context.Context, groupID uuid.UUID) ([]models.JoinRequest, error) {
	var rows []models.JoinRequest
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("requested_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// CreateInvite inserts a pending invite.
func (r *Repository) CreateInvite(ctx context.Context, invite *models.GroupInvite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

// FindInviteByTokenForUpdate locks the invite matching the token.
func (r *Repository) FindInviteByTokenForUpdate(ctx context.Context, token string) (*models.GroupInvite, error) {
	var invite models.GroupInvite
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&invite, "token = ?", token).
		Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// SaveInvite persists invite mutations.
func (r *Repository) SaveInvite(ctx context.Context, invite *models.GroupInvite) error {
	return r.db.WithContext(ctx).Save(invite).Error
}
