package tiers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/huddlebuy/huddlebuy-backend/internal/products"
	"github.com/huddlebuy/huddlebuy-backend/pkg/config"
	"github.com/huddlebuy/huddlebuy-backend/pkg/db"
	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
)

// Service exposes discount tier catalog management.
type Service interface {
	SetTiers(ctx context.Context, vendorID, productID uuid.UUID, input []TierInput) ([]TierDTO, error)
	ClearTiers(ctx context.Context, vendorID, productID uuid.UUID) error
	GetTiers(ctx context.Context, productID uuid.UUID) ([]TierDTO, error)
}

type service struct {
	repo        *Repository
	productRepo *product.Repository
	dbClient    *db.Client
	cfg         config.GroupBuyingConfig
}

// NewService constructs a tier catalog service.
func NewService(repo *Repository, productRepo *product.Repository, dbClient *db.Client, cfg config.GroupBuyingConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tier repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:        repo,
		productRepo: productRepo,
		dbClient:    dbClient,
		cfg:         cfg,
	}, nil
}

// SetTiers replaces the product's entire ladder in one transaction. A
// non-empty ladder enables group ordering for the product; an empty one
// disables it.
func (s *service) SetTiers(ctx context.Context, vendorID, productID uuid.UUID, input []TierInput) ([]TierDTO, error) {
	if err := validateTierSet(input, s.cfg); err != nil {
		return nil, err
	}

	if err := s.ensureVendorProduct(ctx, vendorID, productID); err != nil {
		return nil, err
	}

	rows := make([]models.DiscountTier, 0, len(input))
	for _, tier := range input {
		rows = append(rows, models.DiscountTier{
			ProductID:       productID,
			TierNumber:      tier.TierNumber,
			MembersRequired: tier.MembersRequired,
			DiscountPercent: tier.DiscountPercent,
		})
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ReplaceTiers(ctx, productID, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace discount tiers")
		}
		if err := s.productRepo.WithTx(tx).SetGroupOrderEnabled(ctx, productID, len(rows) > 0); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update group order flag")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set discount tiers")
	}

	return toTierDTOs(rows), nil
}

// ClearTiers removes the product's ladder and disables group ordering.
func (s *service) ClearTiers(ctx context.Context, vendorID, productID uuid.UUID) error {
	if err := s.ensureVendorProduct(ctx, vendorID, productID); err != nil {
		return err
	}
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).ReplaceTiers(ctx, productID, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete discount tiers")
		}
		if err := s.productRepo.WithTx(tx).SetGroupOrderEnabled(ctx, productID, false); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update group order flag")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear discount tiers")
	}
	return nil
}

// GetTiers returns the ladder ordered by tier number. An empty slice means
// the product does not offer group buying.
func (s *service) GetTiers(ctx context.Context, productID uuid.UUID) ([]TierDTO, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	rows, err := s.repo.ListTiers(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list discount tiers")
	}
	return toTierDTOs(rows), nil
}

func (s *service) ensureVendorProduct(ctx context.Context, vendorID, productID uuid.UUID) error {
	row, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if row.VendorID != vendorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}
	return nil
}

// validateTierSet rejects the whole ladder on the first violation, naming
// the offending tier in the error details.
func validateTierSet(input []TierInput, cfg config.GroupBuyingConfig) error {
	if len(input) > cfg.MaxTiersPerProduct {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d tiers allowed", cfg.MaxTiersPerProduct))
	}

	prevMembers := 0
	prevDiscount := 0.0
	for i, tier := range input {
		details := map[string]any{"tier_number": tier.TierNumber}

		if tier.TierNumber != i+1 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				"tier numbers must be contiguous starting at 1").WithDetails(details)
		}
		if tier.MembersRequired < cfg.MinMembersRequired || tier.MembersRequired > cfg.MaxMembersRequired {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("members_required must be between %d and %d", cfg.MinMembersRequired, cfg.MaxMembersRequired)).
				WithDetails(details)
		}
		if tier.DiscountPercent <= 0 || tier.DiscountPercent > 100 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				"discount_percent must be greater than 0 and at most 100").WithDetails(details)
		}
		if tier.MembersRequired <= prevMembers {
			return pkgerrors.New(pkgerrors.CodeValidation,
				"members_required must strictly increase with tier number").WithDetails(details)
		}
		if tier.DiscountPercent <= prevDiscount {
			return pkgerrors.New(pkgerrors.CodeValidation,
				"discount_percent must strictly increase with tier number").WithDetails(details)
		}

		prevMembers = tier.MembersRequired
		prevDiscount = tier.DiscountPercent
	}
	return nil
}

func toTierDTOs(rows []models.DiscountTier) []TierDTO {
	dtos := make([]TierDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, TierDTO{
			TierNumber:      row.TierNumber,
			MembersRequired: row.MembersRequired,
			DiscountPercent: row.DiscountPercent,
		})
	}
	return dtos
}
