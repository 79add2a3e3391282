package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
)

// Service exposes the product operations the group buying surface needs.
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error)
	SetGroupOrderEnabled(ctx context.Context, vendorID, productID uuid.UUID, enabled bool) (*ProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a product service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct returns the product with its discount ladder.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindByIDWithTiers(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	dto := toProductDTO(row)
	return &dto, nil
}

// ListVendorProducts returns all products owned by the vendor.
func (s *service) ListVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list vendor products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toProductDTO(&rows[i]))
	}
	return dtos, nil
}

// SetGroupOrderEnabled toggles whether buying groups can be created for the product.
func (s *service) SetGroupOrderEnabled(ctx context.Context, vendorID, productID uuid.UUID, enabled bool) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if row.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}

	if err := s.repo.SetGroupOrderEnabled(ctx, productID, enabled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update group order flag")
	}

	updated, err := s.repo.FindByIDWithTiers(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
	}
	dto := toProductDTO(updated)
	return &dto, nil
}

func toProductDTO(row *models.Product) ProductDTO {
	tiers := make([]DiscountTierDTO, 0, len(row.DiscountTiers))
	for _, tier := range row.DiscountTiers {
		tiers = append(tiers, DiscountTierDTO{
			TierNumber:      tier.TierNumber,
			MembersRequired: tier.MembersRequired,
			DiscountPercent: tier.DiscountPercent,
		})
	}
	return ProductDTO{
		ID:                row.ID,
		VendorID:          row.VendorID,
		Title:             row.Title,
		PriceCents:        row.PriceCents,
		GroupOrderEnabled: row.GroupOrderEnabled,
		IsActive:          row.IsActive,
		DiscountTiers:     tiers,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}
