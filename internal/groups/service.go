package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/huddlebuy/huddlebuy-backend/internal/products"
	"github.com/huddlebuy/huddlebuy-backend/pkg/config"
	"github.com/huddlebuy/huddlebuy-backend/pkg/db"
	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
	"github.com/huddlebuy/huddlebuy-backend/pkg/metrics"
	"github.com/huddlebuy/huddlebuy-backend/pkg/pagination"
	"github.com/huddlebuy/huddlebuy-backend/pkg/security"
)

const accessCodeAttempts = 5

// errAccessCodeTaken signals that a generated access code lost the race to
// the unique index and the create should retry with a fresh code.
var errAccessCodeTaken = errors.New("access code already claimed")

// Service exposes the membership coordinator.
type Service interface {
	CreateGroup(ctx context.Context, actor Actor, input CreateGroupInput) (*GroupDTO, error)
	GetGroup(ctx context.Context, groupID uuid.UUID) (*GroupDTO, error)
	Join(ctx context.Context, actor Actor, groupID uuid.UUID, accessCode *string) (*GroupDTO, error)
	JoinByCode(ctx context.Context, actor Actor, code string) (*GroupDTO, error)
	Leave(ctx context.Context, actor Actor, groupID uuid.UUID) error
	ListMembers(ctx context.Context, groupID uuid.UUID, page pagination.Params) (*MemberListResult, error)
	RequestJoin(ctx context.Context, actor Actor, groupID uuid.UUID, message *string) (*JoinRequestDTO, error)
	ListJoinRequests(ctx context.Context, actor Actor, groupID uuid.UUID) ([]JoinRequestDTO, error)
	ApproveRequest(ctx context.Context, actor Actor, groupID, requestID uuid.UUID) (*JoinRequestDTO, error)
	RejectRequest(ctx context.Context, actor Actor, groupID, requestID uuid.UUID) (*JoinRequestDTO, error)
	Invite(ctx context.Context, actor Actor, groupID uuid.UUID, email string) (*InviteDTO, error)
	AcceptInvite(ctx context.Context, actor Actor, token string) (*GroupDTO, error)
}

type service struct {
	repo          *Repository
	productRepo   *product.Repository
	dbClient      *db.Client
	cfg           config.GroupBuyingConfig
	metrics       *metrics.GroupBuyingMetrics
	logg          *logger.Logger
	now           func() time.Time
	newAccessCode func(length int) (string, error)
}

// NewService constructs the membership coordinator.
func NewService(repo *Repository, productRepo *product.Repository, dbClient *db.Client, cfg config.GroupBuyingConfig, m *metrics.GroupBuyingMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("group repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:          repo,
		productRepo:   productRepo,
		dbClient:      dbClient,
		cfg:           cfg,
		metrics:       m,
		logg:          logg,
		now:           time.Now,
		newAccessCode: security.GenerateAccessCode,
	}, nil
}

// CreateGroup creates the group and seats the creator as member #1 in the
// same transaction, so a zero-member group is never observable.
func (s *service) CreateGroup(ctx context.Context, actor Actor, input CreateGroupInput) (*GroupDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.MemberLimit != nil && *input.MemberLimit < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member_limit must be positive")
	}
	if input.FinalizationDeadline != nil && !input.FinalizationDeadline.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "finalization_deadline must be in the future")
	}
	if input.JoinPolicy == enums.JoinPolicyApproval && input.Visibility != enums.GroupVisibilityPrivate {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "approval join policy requires a private group")
	}

	prod, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if !prod.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not active")
	}
	if !prod.GroupOrderEnabled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not offer group ordering")
	}

	group := &models.BuyingGroup{
		Name:                 strings.TrimSpace(input.Name),
		Description:          input.Description,
		CreatorID:            actor.ID,
		ProductID:            input.ProductID,
		Visibility:           input.Visibility,
		JoinPolicy:           input.JoinPolicy,
		MemberLimit:          input.MemberLimit,
		FinalizationDeadline: input.FinalizationDeadline,
	}

	attempts := 1
	if input.Visibility == enums.GroupVisibilityPrivate {
		attempts = accessCodeAttempts
	}

	created := false
	for attempt := 0; attempt < attempts && !created; attempt++ {
		if input.Visibility == enums.GroupVisibilityPrivate {
			code, err := s.newAccessCode(s.cfg.AccessCodeLength)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate access code")
			}
			group.AccessCode = &code
		}

		err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			if err := txRepo.CreateGroup(ctx, group); err != nil {
				// A concurrent create can claim the same code between
				// generation and insert; the unique index is the arbiter.
				if group.AccessCode != nil && db.IsUniqueViolation(err, "access_code") {
					return errAccessCodeTaken
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert group")
			}
			member := &models.GroupMember{
				GroupID:   group.ID,
				UserID:    actor.ID,
				JoinedVia: enums.MemberSourceCreator,
			}
			if err := txRepo.CreateMember(ctx, member); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert creator member")
			}
			return nil
		})
		switch {
		case err == nil:
			created = true
		case errors.Is(err, errAccessCodeTaken):
			continue
		case pkgerrors.As(err) != nil:
			return nil, err
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group")
		}
	}
	if !created {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique access code")
	}

	ctx = s.logg.WithGroupID(ctx, group.ID.String())
	s.logg.Info(ctx, "buying group created")

	dto := toGroupDTO(group, 1, s.now())
	return &dto, nil
}

// GetGroup returns the group with live member count and time remaining.
func (s *service) GetGroup(ctx context.Context, groupID uuid.UUID) (*GroupDTO, error) {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountMembers(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count members")
	}
	dto := toGroupDTO(group, count, s.now())
	return &dto, nil
}

// Join seats the user in the group. The group row is locked so the capacity
// check and the roster insert cannot race.
func (s *service) Join(ctx context.Context, actor Actor, groupID uuid.UUID, accessCode *string) (*GroupDTO, error) {
	var dto GroupDTO
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		group, err := txRepo.FindGroupByIDForUpdate(ctx, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock group")
		}
		if group.JoinPolicy == enums.JoinPolicyApproval {
			return pkgerrors.New(pkgerrors.CodeForbidden, "group requires an approved join request")
		}
		if err := guardAccessCode(group, accessCode); err != nil {
			return err
		}
		count, err := s.seatMember(ctx, txRepo, group, actor.ID, enums.MemberSourceCode)
		if err != nil {
			return err
		}
		dto = toGroupDTO(group, count, s.now())
		return nil
	})
	if err != nil {
		s.metrics.IncJoin(enums.MemberSourceCode.String(), joinOutcome(err))
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "join group")
	}

	s.metrics.IncJoin(enums.MemberSourceCode.String(), "success")
	return &dto, nil
}

// JoinByCode seats the user in the private group owning the access code.
func (s *service) JoinByCode(ctx context.Context, actor Actor, code string) (*GroupDTO, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access code is required")
	}

	var dto GroupDTO
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		group, err := txRepo.FindGroupByAccessCodeForUpdate(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock group")
		}
		count, err := s.seatMember(ctx, txRepo, group, actor.ID, enums.MemberSourceCode)
		if err != nil {
			return err
		}
		dto = toGroupDTO(group, count, s.now())
		return nil
	})
	if err != nil {
		s.metrics.IncJoin(enums.MemberSourceCode.String(), joinOutcome(err))
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "join group by code")
	}

	s.metrics.IncJoin(enums.MemberSourceCode.String(), "success")
	return &dto, nil
}

// Leave removes the member before finalization.
func (s *service) Leave(ctx context.Context, actor Actor, groupID uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		group, err := txRepo.FindGroupByIDForUpdate(ctx, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock group")
		}

		count, err := txRepo.CountMembers(ctx, groupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count members")
		}
		if err := guardLeave(group, actor.ID, count); err != nil {
			return err
		}

		affected, err := txRepo.DeleteMember(ctx, groupID, actor.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete member")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "not a member of this group")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "leave group")
	}
	return nil
}

// ListMembers returns one roster page.
func (s *service) ListMembers(ctx context.Context, groupID uuid.UUID, page pagination.Params) (*MemberListResult, error) {
	if _, err := s.loadGroup(ctx, groupID); err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	pageSize := pagination.NormalizeLimit(page.Limit)

	rows, err := s.repo.ListMembers(ctx, groupID, pagination.LimitWithBuffer(page.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list members")
	}

	result := &MemberListResult{Members: make([]MemberDTO, 0, len(rows))}
	resultRows := rows
	if len(rows) > pageSize {
		resultRows = rows[:pageSize]
		last := resultRows[len(resultRows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range resultRows {
		result.Members = append(result.Members, toMemberDTO(&resultRows[i]))
	}
	return result, nil
}

// RequestJoin files a join request against an approval-gated group.
func (s *service) RequestJoin(ctx context.Context, actor Actor, groupID uuid.UUID, message *string) (*JoinRequestDTO, error) {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := guardGroupOpen(group, s.now()); err != nil {
		return nil, err
	}
	if group.JoinPolicy != enums.JoinPolicyApproval {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group does not take join requests")
	}

	isMember, err := s.repo.IsMember(ctx, groupID, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check membership")
	}
	if isMember {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already a member of this group")
	}

	hasActive, err := s.repo.HasActiveJoinRequest(ctx, groupID, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check join requests")
	}
	if hasActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a join request already exists for this group")
	}

	request := &models.JoinRequest{
		GroupID: groupID,
		UserID:  actor.ID,
		Message: message,
		Status:  enums.JoinRequestStatusPending,
	}
	if err := s.repo.CreateJoinRequest(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert join request")
	}

	dto := toJoinRequestDTO(request)
	return &dto, nil
}

// ListJoinRequests returns the group's requests for the creator or an admin.
func (s *service) ListJoinRequests(ctx context.Context, actor Actor, groupID uuid.UUID) ([]JoinRequestDTO, error) {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !canReview(actor, group) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the group creator can review requests")
	}

	rows, err := s.repo.ListJoinRequests(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list join requests")
	}
	dtos := make([]JoinRequestDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toJoinRequestDTO(&rows[i]))
	}
	return dtos, nil
}

// ApproveRequest seats the requester under the same capacity guard as a
// direct join, and flips the request, all in one transaction.
func (s *service) ApproveRequest(ctx context.Context, actor Actor, groupID, requestID uuid.UUID) (*JoinRequestDTO, error) {
	var dto JoinRequestDTO
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		group, request, err := s.lockRequestForReview(ctx, txRepo, actor, groupID, requestID)
		if err != nil {
			return err
		}

		if _, err := s.seatMember(ctx, txRepo, group, request.UserID, enums.MemberSourceApproval); err != nil {
			return err
		}

		now := s.now()
		request.Status = enums.JoinRequestStatusApproved
		request.ReviewedAt = &now
		request.ReviewedBy = &actor.ID
		if err := txRepo.SaveJoinRequest(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update join request")
		}
		dto = toJoinRequestDTO(request)
		return nil
	})
	if err != nil {
		s.metrics.IncJoin(enums.MemberSourceApproval.String(), joinOutcome(err))
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve join request")
	}

	s.metrics.IncJoin(enums.MemberSourceApproval.String(), "success")
	return &dto, nil
}

// RejectRequest flips a pending request to rejected.
func (s *service) RejectRequest(ctx context.Context, actor Actor, groupID, requestID uuid.UUID) (*JoinRequestDTO, error) {
	var dto JoinRequestDTO
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		_, request, err := s.lockRequestForReview(ctx, txRepo, actor, groupID, requestID)
		if err != nil {
			return err
		}

		now := s.now()
		request.Status = enums.JoinRequestStatusRejected
		request.ReviewedAt = &now
		request.ReviewedBy = &actor.ID
		if err := txRepo.SaveJoinRequest(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update join request")
		}
		dto = toJoinRequestDTO(request)
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject join request")
	}
	return &dto, nil
}

// Invite creates a tokenized invitation; only current members may invite.
func (s *service) Invite(ctx context.Context, actor Actor, groupID uuid.UUID, email string) (*InviteDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := guardGroupOpen(group, s.now()); err != nil {
		return nil, err
	}

	isMember, err := s.repo.IsMember(ctx, groupID, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check membership")
	}
	if !isMember {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only members can invite")
	}

	token, err := security.GenerateInviteToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate invite token")
	}

	invite := &models.GroupInvite{
		GroupID:      groupID,
		InviterID:    actor.ID,
		InvitedEmail: email,
		Token:        token,
		Status:       enums.InviteStatusPending,
		ExpiresAt:    s.now().Add(s.cfg.InviteTTL),
	}
	if err := s.repo.CreateInvite(ctx, invite); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert invite")
	}

	dto := toInviteDTO(invite)
	return &dto, nil
}

// AcceptInvite seats the user and flips the invite in one transaction.
func (s *service) AcceptInvite(ctx context.Context, actor Actor, token string) (*GroupDTO, error) {
	var dto GroupDTO
	var expiredInvite *models.GroupInvite
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		invite, err := txRepo.FindInviteByTokenForUpdate(ctx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock invite")
		}
		if invite.Status != enums.InviteStatusPending {
			return pkgerrors.New(pkgerrors.CodeConflict, "invite is no longer pending")
		}
		if !s.now().Before(invite.ExpiresAt) {
			expiredInvite = invite
			return pkgerrors.New(pkgerrors.CodeExpired, "invite has expired")
		}

		group, err := txRepo.FindGroupByIDForUpdate(ctx, invite.GroupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock group")
		}

		count, err := s.seatMember(ctx, txRepo, group, actor.ID, enums.MemberSourceInvite)
		if err != nil {
			return err
		}

		invite.Status = enums.InviteStatusAccepted
		if err := txRepo.SaveInvite(ctx, invite); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update invite")
		}

		dto = toGroupDTO(group, count, s.now())
		return nil
	})
	if err != nil {
		// The rejection rolls the transaction back, so the expiry flip has
		// to be persisted on the main connection.
		if expiredInvite != nil {
			expiredInvite.Status = enums.InviteStatusExpired
			if saveErr := s.repo.SaveInvite(ctx, expiredInvite); saveErr != nil {
				s.logg.Error(ctx, "db: expire invite", saveErr)
			}
		}
		s.metrics.IncJoin(enums.MemberSourceInvite.String(), joinOutcome(err))
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept invite")
	}

	s.metrics.IncJoin(enums.MemberSourceInvite.String(), "success")
	return &dto, nil
}

// seatMember runs the shared join guards and inserts the roster row. The
// caller must hold the group row lock. Returns the roster size including
// the new member.
func (s *service) seatMember(ctx context.Context, txRepo *Repository, group *models.BuyingGroup, userID uuid.UUID, via enums.MemberSource) (int64, error) {
	if err := guardGroupOpen(group, s.now()); err != nil {
		return 0, err
	}

	isMember, err := txRepo.IsMember(ctx, group.ID, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check membership")
	}
	if isMember {
		return 0, pkgerrors.New(pkgerrors.CodeConflict, "already a member of this group")
	}

	count, err := txRepo.CountMembers(ctx, group.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count members")
	}
	if err := guardCapacity(group, count); err != nil {
		return 0, err
	}

	member := &models.GroupMember{
		GroupID:   group.ID,
		UserID:    userID,
		JoinedVia: via,
	}
	if err := txRepo.CreateMember(ctx, member); err != nil {
		if db.IsUniqueViolation(err, "uniq_group_member") {
			return 0, pkgerrors.New(pkgerrors.CodeConflict, "already a member of this group")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert member")
	}
	return count + 1, nil
}

func (s *service) lockRequestForReview(ctx context.Context, txRepo *Repository, actor Actor, groupID, requestID uuid.UUID) (*models.BuyingGroup, *models.JoinRequest, error) {
	group, err := txRepo.FindGroupByIDForUpdate(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock group")
	}
	if !canReview(actor, group) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the group creator can review requests")
	}
	if err := guardGroupOpen(group, s.now()); err != nil {
		return nil, nil, err
	}

	request, err := txRepo.FindJoinRequestByIDForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "join request not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock join request")
	}
	if request.GroupID != groupID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "join request not found")
	}
	if request.Status != enums.JoinRequestStatusPending {
		return nil, nil, pkgerrors.New(pkgerrors.CodeConflict, "join request already reviewed")
	}
	return group, request, nil
}

func (s *service) loadGroup(ctx context.Context, groupID uuid.UUID) (*models.BuyingGroup, error) {
	group, err := s.repo.FindGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load group")
	}
	return group, nil
}

func joinOutcome(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return "error"
}
