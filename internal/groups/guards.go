package groups

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
)

// guardGroupOpen rejects mutations on finalized or expired groups. Expiry is
// evaluated lazily against now; nothing is written back.
func guardGroupOpen(group *models.BuyingGroup, now time.Time) error {
	if group.IsFinalized() {
		return pkgerrors.New(pkgerrors.CodeConflict, "group already finalized")
	}
	if group.IsExpired(now) {
		return pkgerrors.New(pkgerrors.CodeExpired, "group deadline has passed")
	}
	return nil
}

// guardCapacity rejects a join that would exceed the member limit.
func guardCapacity(group *models.BuyingGroup, currentCount int64) error {
	if group.MemberLimit != nil && currentCount >= int64(*group.MemberLimit) {
		return pkgerrors.New(pkgerrors.CodeGroupFull, "group has reached its member limit")
	}
	return nil
}

// guardAccessCode checks the code a joiner supplied against a private group.
func guardAccessCode(group *models.BuyingGroup, provided *string) error {
	if group.Visibility != enums.GroupVisibilityPrivate {
		return nil
	}
	if group.AccessCode == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "private group has no access code")
	}
	if provided == nil || *provided != *group.AccessCode {
		return pkgerrors.New(pkgerrors.CodeForbidden, "invalid access code")
	}
	return nil
}

// canReview reports whether the actor may approve or reject requests and
// finalize the group: the creator, or a platform admin.
func canReview(actor Actor, group *models.BuyingGroup) bool {
	return actor.Role == enums.UserRoleAdmin || group.CreatorID == actor.ID
}

// guardLeave enforces the leave policy. The creator anchors the group and
// may only leave once everyone else has.
func guardLeave(group *models.BuyingGroup, actorID uuid.UUID, memberCount int64) error {
	if group.IsFinalized() {
		return pkgerrors.New(pkgerrors.CodeConflict, "group already finalized")
	}
	if group.CreatorID == actorID && memberCount > 1 {
		return pkgerrors.New(pkgerrors.CodeForbidden, "creator cannot leave while other members remain")
	}
	return nil
}
