package groups

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
)

// Actor identifies the authenticated user driving an operation.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// CreateGroupInput holds the validated payload to create a buying group.
type CreateGroupInput struct {
	Name                 string
	Description          *string
	ProductID            uuid.UUID
	Visibility           enums.GroupVisibility
	JoinPolicy           enums.JoinPolicy
	MemberLimit          *int
	FinalizationDeadline *time.Time
}

// GroupDTO is the API-facing representation of a buying group.
type GroupDTO struct {
	ID                   uuid.UUID             `json:"id"`
	Name                 string                `json:"name"`
	Description          *string               `json:"description,omitempty"`
	CreatorID            uuid.UUID             `json:"creator_id"`
	ProductID            uuid.UUID             `json:"product_id"`
	Visibility           enums.GroupVisibility `json:"visibility"`
	JoinPolicy           enums.JoinPolicy      `json:"join_policy"`
	AccessCode           *string               `json:"access_code,omitempty"`
	MemberLimit          *int                  `json:"member_limit,omitempty"`
	MemberCount          int                   `json:"member_count"`
	State                enums.GroupState      `json:"state"`
	FinalizationDeadline *time.Time            `json:"finalization_deadline,omitempty"`
	TimeRemainingSeconds *int64                `json:"time_remaining_seconds,omitempty"`
	FinalizedAt          *time.Time            `json:"finalized_at,omitempty"`
	OrderID              *uuid.UUID            `json:"order_id,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
}

// MemberDTO is one roster entry.
type MemberDTO struct {
	UserID    uuid.UUID          `json:"user_id"`
	JoinedVia enums.MemberSource `json:"joined_via"`
	JoinedAt  time.Time          `json:"joined_at"`
}

// MemberListResult carries one roster page plus the cursor for the next.
type MemberListResult struct {
	Members    []MemberDTO `json:"members"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// JoinRequestDTO is the API-facing representation of a join request.
type JoinRequestDTO struct {
	ID          uuid.UUID               `json:"id"`
	GroupID     uuid.UUID               `json:"group_id"`
	UserID      uuid.UUID               `json:"user_id"`
	Message     *string                 `json:"message,omitempty"`
	Status      enums.JoinRequestStatus `json:"status"`
	RequestedAt time.Time               `json:"requested_at"`
	ReviewedAt  *time.Time              `json:"reviewed_at,omitempty"`
	ReviewedBy  *uuid.UUID              `json:"reviewed_by,omitempty"`
}

// InviteDTO is the API-facing representation of a group invite.
type InviteDTO struct {
	ID           uuid.UUID          `json:"id"`
	GroupID      uuid.UUID          `json:"group_id"`
	InvitedEmail string             `json:"invited_email"`
	Token        string             `json:"token"`
	Status       enums.InviteStatus `json:"status"`
	ExpiresAt    time.Time          `json:"expires_at"`
	CreatedAt    time.Time          `json:"created_at"`
}

func toGroupDTO(group *models.BuyingGroup, memberCount int64, now time.Time) GroupDTO {
	dto := GroupDTO{
		ID:                   group.ID,
		Name:                 group.Name,
		Description:          group.Description,
		CreatorID:            group.CreatorID,
		ProductID:            group.ProductID,
		Visibility:           group.Visibility,
		JoinPolicy:           group.JoinPolicy,
		AccessCode:           group.AccessCode,
		MemberLimit:          group.MemberLimit,
		MemberCount:          int(memberCount),
		State:                group.State(now),
		FinalizationDeadline: group.FinalizationDeadline,
		FinalizedAt:          group.FinalizedAt,
		OrderID:              group.OrderID,
		CreatedAt:            group.CreatedAt,
	}
	if group.FinalizationDeadline != nil && !group.IsFinalized() {
		seconds := int64(0)
		if remaining := group.FinalizationDeadline.Sub(now); remaining > 0 {
			seconds = int64(remaining.Seconds())
		}
		dto.TimeRemainingSeconds = &seconds
	}
	return dto
}

func toMemberDTO(member *models.GroupMember) MemberDTO {
	return MemberDTO{
		UserID:    member.UserID,
		JoinedVia: member.JoinedVia,
		JoinedAt:  member.CreatedAt,
	}
}

func toJoinRequestDTO(request *models.JoinRequest) JoinRequestDTO {
	return JoinRequestDTO{
		ID:          request.ID,
		GroupID:     request.GroupID,
		UserID:      request.UserID,
		Message:     request.Message,
		Status:      request.Status,
		RequestedAt: request.RequestedAt,
		ReviewedAt:  request.ReviewedAt,
		ReviewedBy:  request.ReviewedBy,
	}
}

func toInviteDTO(invite *models.GroupInvite) InviteDTO {
	return InviteDTO{
		ID:           invite.ID,
		GroupID:      invite.GroupID,
		InvitedEmail: invite.InvitedEmail,
		Token:        invite.Token,
		Status:       invite.Status,
		ExpiresAt:    invite.ExpiresAt,
		CreatedAt:    invite.CreatedAt,
	}
}
