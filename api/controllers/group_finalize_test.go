package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/huddlebuy/huddlebuy-backend/internal/groups"
	"github.com/huddlebuy/huddlebuy-backend/internal/orders"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
)

type stubFinalizeService struct {
	finalizeFn func(ctx context.Context, actor groups.Actor, groupID uuid.UUID) (*orders.GroupOrderDTO, error)
	orderFn    func(ctx context.Context, orderID uuid.UUID) (*orders.GroupOrderDTO, error)
	groupFn    func(ctx context.Context, groupID uuid.UUID) (*orders.GroupOrderDTO, error)
}

func (s stubFinalizeService) Finalize(ctx context.Context, actor groups.Actor, groupID uuid.UUID) (*orders.GroupOrderDTO, error) {
	return s.finalizeFn(ctx, actor, groupID)
}

func (s stubFinalizeService) GetOrder(ctx context.Context, orderID uuid.UUID) (*orders.GroupOrderDTO, error) {
	return s.orderFn(ctx, orderID)
}

func (s stubFinalizeService) GetGroupOrder(ctx context.Context, groupID uuid.UUID) (*orders.GroupOrderDTO, error) {
	return s.groupFn(ctx, groupID)
}

func TestGroupFinalizeSuccess(t *testing.T) {
	groupID := uuid.New()
	userID := uuid.New()
	svc := stubFinalizeService{
		finalizeFn: func(ctx context.Context, actor groups.Actor, gid uuid.UUID) (*orders.GroupOrderDTO, error) {
			if actor.ID != userID {
				t.Fatalf("expected actor %s got %s", userID, actor.ID)
			}
			return &orders.GroupOrderDTO{
				ID:              uuid.New(),
				GroupID:         gid,
				ProductID:       uuid.New(),
				MemberCount:     5,
				UnitPriceCents:  900,
				TotalPriceCents: 4500,
				CreatedAt:       time.Now(),
			}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/groups/"+groupID.String()+"/finalize", nil, userID, map[string]string{"groupId": groupID.String()})
	rec := httptest.NewRecorder()

	GroupFinalize(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data orders.GroupOrderDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.GroupID != groupID {
		t.Fatalf("expected group %s got %s", groupID, envelope.Data.GroupID)
	}
	if envelope.Data.TotalPriceCents != 4500 {
		t.Fatalf("expected total 4500 got %d", envelope.Data.TotalPriceCents)
	}
}

func TestGroupFinalizeAlreadyFinalized(t *testing.T) {
	groupID := uuid.New()
	svc := stubFinalizeService{
		finalizeFn: func(ctx context.Context, actor groups.Actor, gid uuid.UUID) (*orders.GroupOrderDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "group already finalized")
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/groups/"+groupID.String()+"/finalize", nil, uuid.New(), map[string]string{"groupId": groupID.String()})
	rec := httptest.NewRecorder()

	GroupFinalize(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestGroupFinalizeExpired(t *testing.T) {
	groupID := uuid.New()
	svc := stubFinalizeService{
		finalizeFn: func(ctx context.Context, actor groups.Actor, gid uuid.UUID) (*orders.GroupOrderDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeExpired, "finalization deadline passed")
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/groups/"+groupID.String()+"/finalize", nil, uuid.New(), map[string]string{"groupId": groupID.String()})
	rec := httptest.NewRecorder()

	GroupFinalize(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusGone {
		t.Fatalf("expected 410 got %d", rec.Code)
	}
}
