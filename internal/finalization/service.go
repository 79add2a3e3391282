package finalization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/huddlebuy/huddlebuy-backend/internal/groups"
	"github.com/huddlebuy/huddlebuy-backend/internal/orders"
	"github.com/huddlebuy/huddlebuy-backend/pkg/db"
	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
	"github.com/huddlebuy/huddlebuy-backend/pkg/metrics"
	"github.com/huddlebuy/huddlebuy-backend/pkg/types"
)

// Service finalizes buying groups and serves the orders they produce.
type Service interface {
	Finalize(ctx context.Context, actor groups.Actor, groupID uuid.UUID) (*orders.GroupOrderDTO, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*orders.GroupOrderDTO, error)
	GetGroupOrder(ctx context.Context, groupID uuid.UUID) (*orders.GroupOrderDTO, error)
}

type service struct {
	repo       *Repository
	ordersRepo *orders.Repository
	dbClient   *db.Client
	metrics    *metrics.GroupBuyingMetrics
	logg       *logger.Logger
	now        func() time.Time
}

// NewService constructs the finalization engine.
func NewService(repo *Repository, ordersRepo *orders.Repository, dbClient *db.Client, m *metrics.GroupBuyingMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("finalization repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:       repo,
		ordersRepo: ordersRepo,
		dbClient:   dbClient,
		metrics:    m,
		logg:       logg,
		now:        time.Now,
	}, nil
}

// Finalize converts an open group into an immutable order. The group row is
// locked for the whole transaction: the member count, the resolved tier, and
// the snapshot are all taken from the same consistent view. Exactly one
// order per group, ever; a repeat call fails with Conflict.
func (s *service) Finalize(ctx context.Context, actor groups.Actor, groupID uuid.UUID) (*orders.GroupOrderDTO, error) {
	started := s.now()
	var order *models.GroupOrder

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		group, err := txRepo.FindGroupForUpdate(ctx, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock group")
		}
		if actor.Role != enums.UserRoleAdmin && group.CreatorID != actor.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the group creator can finalize")
		}
		if group.IsFinalized() {
			return pkgerrors.New(pkgerrors.CodeConflict, "group already finalized")
		}
		if group.IsExpired(s.now()) {
			return pkgerrors.New(pkgerrors.CodeExpired, "group deadline has passed")
		}

		roster, err := txRepo.LoadRoster(ctx, groupID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load roster")
		}
		if len(roster) == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "group has no members")
		}

		product, err := txRepo.LoadPricedProduct(ctx, group.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}

		pricing := ComputePricing(product.PriceCents, len(roster), product.DiscountTiers)

		snapshot := make(types.MemberSnapshot, 0, len(roster))
		for _, entry := range roster {
			snapshot = append(snapshot, types.SnapshotMember{
				UserID:      entry.Member.UserID,
				DisplayName: entry.User.DisplayName,
				JoinedVia:   entry.Member.JoinedVia.String(),
				JoinedAt:    entry.Member.CreatedAt,
			})
		}

		created, err := s.ordersRepo.WithTx(tx).CreateGroupOrder(ctx, &models.GroupOrder{
			GroupID:           group.ID,
			ProductID:         product.ID,
			MemberCount:       len(roster),
			AppliedTierNumber: pricing.AppliedTierNumber,
			DiscountPercent:   pricing.DiscountPercent,
			BasePriceCents:    pricing.BasePriceCents,
			UnitPriceCents:    pricing.UnitPriceCents,
			TotalPriceCents:   pricing.TotalPriceCents,
			MemberSnapshot:    snapshot,
			FinalizedByID:     actor.ID,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "group already finalized")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert group order")
		}

		finalizedAt := s.now()
		group.FinalizedAt = &finalizedAt
		group.OrderID = &created.ID
		if err := txRepo.SaveGroup(ctx, group); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark group finalized")
		}

		order = created
		return nil
	})

	duration := s.now().Sub(started)
	if err != nil {
		outcome := finalizeOutcome(err)
		s.metrics.IncFinalization(outcome)
		s.metrics.ObserveFinalizeDuration(outcome, duration)
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize group")
	}

	s.metrics.IncFinalization("success")
	s.metrics.ObserveFinalizeDuration("success", duration)

	ctx = s.logg.WithGroupID(ctx, groupID.String())
	s.logg.Info(ctx, "buying group finalized")

	dto := orders.ToDTO(order)
	return &dto, nil
}

// GetOrder loads one order by id.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*orders.GroupOrderDTO, error) {
	order, err := s.ordersRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	dto := orders.ToDTO(order)
	return &dto, nil
}

// GetGroupOrder loads the order a group produced, if it was finalized.
func (s *service) GetGroupOrder(ctx context.Context, groupID uuid.UUID) (*orders.GroupOrderDTO, error) {
	order, err := s.ordersRepo.FindByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group has no order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load group order")
	}
	dto := orders.ToDTO(order)
	return &dto, nil
}

func finalizeOutcome(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeConflict:
			return "conflict"
		case pkgerrors.CodeExpired:
			return "expired"
		case pkgerrors.CodeForbidden:
			return "forbidden"
		case pkgerrors.CodeNotFound:
			return "not_found"
		}
	}
	return "error"
}
