package groups

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	product "github.com/huddlebuy/huddlebuy-backend/internal/products"
	"github.com/huddlebuy/huddlebuy-backend/pkg/config"
	"github.com/huddlebuy/huddlebuy-backend/pkg/db"
	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
)

const serviceTestSchema = `
CREATE TABLE buying_groups (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  name TEXT NOT NULL,
  description TEXT,
  creator_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  visibility TEXT NOT NULL,
  join_policy TEXT NOT NULL DEFAULT 'open',
  access_code TEXT UNIQUE,
  member_limit INTEGER,
  finalization_deadline DATETIME,
  finalized_at DATETIME,
  order_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE group_members (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  group_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  joined_via TEXT NOT NULL,
  created_at DATETIME,
  CONSTRAINT uniq_group_member UNIQUE (group_id, user_id)
);
CREATE TABLE join_requests (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  group_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  message TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  requested_at DATETIME,
  reviewed_at DATETIME,
  reviewed_by TEXT
);
CREATE TABLE group_invites (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  group_id TEXT NOT NULL,
  inviter_id TEXT NOT NULL,
  invited_email TEXT NOT NULL,
  token TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'pending',
  expires_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE products (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  title TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  group_order_enabled INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`

func setupGroupService(t *testing.T) *service {
	t.Helper()

	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(ctx, config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Exec(ctx, serviceTestSchema).Error; err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "groups-test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	svc, err := NewService(
		NewRepository(client.DB()),
		product.NewRepository(client.DB()),
		client,
		config.GroupBuyingConfig{AccessCodeLength: 8, InviteTTL: 168 * time.Hour, MaxTiersPerProduct: 3},
		nil,
		logg,
	)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc.(*service)
}

func seedGroup(t *testing.T, svc *service, mutate func(*models.BuyingGroup)) *models.BuyingGroup {
	t.Helper()

	ctx := context.Background()
	group := &models.BuyingGroup{
		ID:         uuid.New(),
		Name:       "Office espresso pool",
		CreatorID:  uuid.New(),
		ProductID:  uuid.New(),
		Visibility: enums.GroupVisibilityPublic,
		JoinPolicy: enums.JoinPolicyOpen,
	}
	if mutate != nil {
		mutate(group)
	}
	if err := svc.repo.CreateGroup(ctx, group); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	seedMember(t, svc, group.ID, group.CreatorID, enums.MemberSourceCreator)
	return group
}

func seedMember(t *testing.T, svc *service, groupID, userID uuid.UUID, via enums.MemberSource) {
	t.Helper()
	member := &models.GroupMember{ID: uuid.New(), GroupID: groupID, UserID: userID, JoinedVia: via}
	if err := svc.repo.CreateMember(context.Background(), member); err != nil {
		t.Fatalf("seed member: %v", err)
	}
}

func seedProduct(t *testing.T, svc *service) *models.Product {
	t.Helper()
	prod := &models.Product{
		ID:                uuid.New(),
		VendorID:          uuid.New(),
		Title:             "Single-origin beans 1kg",
		PriceCents:        2400,
		GroupOrderEnabled: true,
		IsActive:          true,
	}
	if err := svc.dbClient.DB().WithContext(context.Background()).Create(prod).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return prod
}

func TestApproveRequestSecondApproveConflicts(t *testing.T) {
	svc := setupGroupService(t)
	ctx := context.Background()

	group := seedGroup(t, svc, func(g *models.BuyingGroup) {
		g.Visibility = enums.GroupVisibilityPrivate
		code := "SEEDCODE"
		g.AccessCode = &code
		g.JoinPolicy = enums.JoinPolicyApproval
	})

	requester := uuid.New()
	request := &models.JoinRequest{
		ID:      uuid.New(),
		GroupID: group.ID,
		UserID:  requester,
		Status:  enums.JoinRequestStatusPending,
	}
	if err := svc.repo.CreateJoinRequest(ctx, request); err != nil {
		t.Fatalf("seed join request: %v", err)
	}

	creator := Actor{ID: group.CreatorID, Role: enums.UserRoleMember}

	dto, err := svc.ApproveRequest(ctx, creator, group.ID, request.ID)
	if err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	if dto.Status != enums.JoinRequestStatusApproved {
		t.Fatalf("expected approved status got %s", dto.Status)
	}

	count, err := svc.repo.CountMembers(ctx, group.ID)
	if err != nil {
		t.Fatalf("count members: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected creator plus requester, got %d members", count)
	}

	_, err = svc.ApproveRequest(ctx, creator, group.ID, request.ID)
	assertCode(t, err, pkgerrors.CodeConflict)

	count, err = svc.repo.CountMembers(ctx, group.ID)
	if err != nil {
		t.Fatalf("count members: %v", err)
	}
	if count != 2 {
		t.Fatalf("second approve changed the roster, got %d members", count)
	}
}

func TestJoinRejectsFullGroup(t *testing.T) {
	svc := setupGroupService(t)
	ctx := context.Background()

	limit := 2
	group := seedGroup(t, svc, func(g *models.BuyingGroup) {
		g.MemberLimit = &limit
	})
	seedMember(t, svc, group.ID, uuid.New(), enums.MemberSourceCode)

	_, err := svc.Join(ctx, Actor{ID: uuid.New(), Role: enums.UserRoleMember}, group.ID, nil)
	assertCode(t, err, pkgerrors.CodeGroupFull)

	count, err := svc.repo.CountMembers(ctx, group.ID)
	if err != nil {
		t.Fatalf("count members: %v", err)
	}
	if count != 2 {
		t.Fatalf("rejected join changed the roster, got %d members", count)
	}
}

func TestJoinRejectsPastDeadline(t *testing.T) {
	svc := setupGroupService(t)
	ctx := context.Background()

	deadline := time.Now().Add(-time.Hour)
	group := seedGroup(t, svc, func(g *models.BuyingGroup) {
		g.FinalizationDeadline = &deadline
	})

	_, err := svc.Join(ctx, Actor{ID: uuid.New(), Role: enums.UserRoleMember}, group.ID, nil)
	assertCode(t, err, pkgerrors.CodeExpired)
}

func TestAcceptInviteExpiredPersistsStatus(t *testing.T) {
	svc := setupGroupService(t)
	ctx := context.Background()

	group := seedGroup(t, svc, nil)
	invite := &models.GroupInvite{
		ID:           uuid.New(),
		GroupID:      group.ID,
		InviterID:    group.CreatorID,
		InvitedEmail: "late@example.com",
		Token:        "expired-token",
		Status:       enums.InviteStatusPending,
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	if err := svc.repo.CreateInvite(ctx, invite); err != nil {
		t.Fatalf("seed invite: %v", err)
	}

	_, err := svc.AcceptInvite(ctx, Actor{ID: uuid.New(), Role: enums.UserRoleMember}, invite.Token)
	assertCode(t, err, pkgerrors.CodeExpired)

	var stored models.GroupInvite
	if err := svc.dbClient.DB().WithContext(ctx).First(&stored, "token = ?", invite.Token).Error; err != nil {
		t.Fatalf("reload invite: %v", err)
	}
	if stored.Status != enums.InviteStatusExpired {
		t.Fatalf("expected invite flipped to expired, got %s", stored.Status)
	}
}

func TestCreateGroupRetriesTakenAccessCode(t *testing.T) {
	svc := setupGroupService(t)
	ctx := context.Background()

	seedGroup(t, svc, func(g *models.BuyingGroup) {
		g.Visibility = enums.GroupVisibilityPrivate
		code := "TAKEN123"
		g.AccessCode = &code
	})

	prod := seedProduct(t, svc)
	codes := []string{"TAKEN123", "FRESH456"}
	calls := 0
	svc.newAccessCode = func(int) (string, error) {
		code := codes[calls]
		calls++
		return code, nil
	}

	dto, err := svc.CreateGroup(ctx, Actor{ID: uuid.New(), Role: enums.UserRoleMember}, CreateGroupInput{
		Name:       "Second pool",
		ProductID:  prod.ID,
		Visibility: enums.GroupVisibilityPrivate,
		JoinPolicy: enums.JoinPolicyOpen,
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected one retry after the collision, generator called %d times", calls)
	}
	if dto.AccessCode == nil || *dto.AccessCode != "FRESH456" {
		t.Fatalf("expected the regenerated code, got %v", dto.AccessCode)
	}
}

func TestCreateGroupGivesUpWhenCodesNeverFree(t *testing.T) {
	svc := setupGroupService(t)
	ctx := context.Background()

	seedGroup(t, svc, func(g *models.BuyingGroup) {
		g.Visibility = enums.GroupVisibilityPrivate
		code := "TAKEN123"
		g.AccessCode = &code
	})

	prod := seedProduct(t, svc)
	svc.newAccessCode = func(int) (string, error) { return "TAKEN123", nil }

	_, err := svc.CreateGroup(ctx, Actor{ID: uuid.New(), Role: enums.UserRoleMember}, CreateGroupInput{
		Name:       "Second pool",
		ProductID:  prod.ID,
		Visibility: enums.GroupVisibilityPrivate,
		JoinPolicy: enums.JoinPolicyOpen,
	})
	assertCode(t, err, pkgerrors.CodeInternal)
}
