package groups

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
)

func strPtr(s string) *string { return &s }

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}

func TestGuardGroupOpen(t *testing.T) {
	now := time.Now()

	open := &models.BuyingGroup{}
	if err := guardGroupOpen(open, now); err != nil {
		t.Fatalf("open group should pass: %v", err)
	}

	finalizedAt := now.Add(-time.Hour)
	finalized := &models.BuyingGroup{FinalizedAt: &finalizedAt}
	assertCode(t, guardGroupOpen(finalized, now), pkgerrors.CodeConflict)

	pastDeadline := now.Add(-time.Minute)
	expired := &models.BuyingGroup{FinalizationDeadline: &pastDeadline}
	assertCode(t, guardGroupOpen(expired, now), pkgerrors.CodeExpired)

	// A group finalized before its deadline passed stays finalized, never expired.
	finalizedBeforeDeadline := &models.BuyingGroup{
		FinalizedAt:          &finalizedAt,
		FinalizationDeadline: &pastDeadline,
	}
	assertCode(t, guardGroupOpen(finalizedBeforeDeadline, now), pkgerrors.CodeConflict)

	futureDeadline := now.Add(time.Hour)
	ticking := &models.BuyingGroup{FinalizationDeadline: &futureDeadline}
	if err := guardGroupOpen(ticking, now); err != nil {
		t.Fatalf("group with future deadline should pass: %v", err)
	}

	// Exactly at the deadline counts as expired.
	atDeadline := &models.BuyingGroup{FinalizationDeadline: &now}
	assertCode(t, guardGroupOpen(atDeadline, now), pkgerrors.CodeExpired)
}

func TestGuardCapacity(t *testing.T) {
	unlimited := &models.BuyingGroup{}
	if err := guardCapacity(unlimited, 100000); err != nil {
		t.Fatalf("unlimited group should never fill: %v", err)
	}

	limit := 5
	limited := &models.BuyingGroup{MemberLimit: &limit}
	if err := guardCapacity(limited, 4); err != nil {
		t.Fatalf("group below limit should pass: %v", err)
	}
	assertCode(t, guardCapacity(limited, 5), pkgerrors.CodeGroupFull)
	assertCode(t, guardCapacity(limited, 6), pkgerrors.CodeGroupFull)
}

func TestGuardAccessCode(t *testing.T) {
	public := &models.BuyingGroup{Visibility: enums.GroupVisibilityPublic}
	if err := guardAccessCode(public, nil); err != nil {
		t.Fatalf("public group needs no code: %v", err)
	}

	private := &models.BuyingGroup{
		Visibility: enums.GroupVisibilityPrivate,
		AccessCode: strPtr("AB12CD34"),
	}
	if err := guardAccessCode(private, strPtr("AB12CD34")); err != nil {
		t.Fatalf("matching code should pass: %v", err)
	}
	assertCode(t, guardAccessCode(private, strPtr("WRONG000")), pkgerrors.CodeForbidden)
	assertCode(t, guardAccessCode(private, nil), pkgerrors.CodeForbidden)

	broken := &models.BuyingGroup{Visibility: enums.GroupVisibilityPrivate}
	assertCode(t, guardAccessCode(broken, strPtr("ANYTHING")), pkgerrors.CodeConflict)
}

func TestCanReview(t *testing.T) {
	creatorID := uuid.New()
	group := &models.BuyingGroup{CreatorID: creatorID}

	if !canReview(Actor{ID: creatorID, Role: enums.UserRoleMember}, group) {
		t.Fatal("creator should be allowed to review")
	}
	if !canReview(Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}, group) {
		t.Fatal("admin should be allowed to review")
	}
	if canReview(Actor{ID: uuid.New(), Role: enums.UserRoleMember}, group) {
		t.Fatal("unrelated member must not review")
	}
}

func TestGuardLeave(t *testing.T) {
	creatorID := uuid.New()
	memberID := uuid.New()
	group := &models.BuyingGroup{CreatorID: creatorID}

	if err := guardLeave(group, memberID, 3); err != nil {
		t.Fatalf("regular member should leave freely: %v", err)
	}
	assertCode(t, guardLeave(group, creatorID, 3), pkgerrors.CodeForbidden)
	if err := guardLeave(group, creatorID, 1); err != nil {
		t.Fatalf("sole creator should be able to leave: %v", err)
	}

	finalizedAt := time.Now()
	done := &models.BuyingGroup{CreatorID: creatorID, FinalizedAt: &finalizedAt}
	assertCode(t, guardLeave(done, memberID, 3), pkgerrors.CodeConflict)
}
