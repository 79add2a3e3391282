package tiers

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/huddlebuy/huddlebuy-backend/pkg/db/models"
	"github.com/huddlebuy/huddlebuy-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("HUDDLEBUY_DB_DSN")
	if dsn == "" {
		t.Skip("HUDDLEBUY_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestVendorAndProduct(t *testing.T, tx *gorm.DB) *models.Product {
	t.Helper()
	vendor := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("hb_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		DisplayName:  "Repo Tester",
		Role:         enums.UserRoleMember,
		IsActive:     true,
	}
	if err := tx.Create(vendor).Error; err != nil {
		t.Fatalf("create vendor: %v", err)
	}

	product := &models.Product{
		VendorID:   vendor.ID,
		Title:      "Test Product",
		PriceCents: 1000,
		IsActive:   true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestRepositoryReplaceAndListTiers(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	product := mustCreateTestVendorAndProduct(t, tx)

	first := []models.DiscountTier{
		{ProductID: product.ID, TierNumber: 1, MembersRequired: 5, DiscountPercent: 10},
		{ProductID: product.ID, TierNumber: 2, MembersRequired: 15, DiscountPercent: 20},
	}
	if err := repo.ReplaceTiers(ctx, product.ID, first); err != nil {
		t.Fatalf("replace tiers: %v", err)
	}

	list, err := repo.ListTiers(ctx, product.ID)
	if err != nil {
		t.Fatalf("list tiers: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(list))
	}
	if list[0].TierNumber != 1 || list[1].TierNumber != 2 {
		t.Fatal("expected tiers ordered by tier_number ASC")
	}

	replacement := []models.DiscountTier{
		{ProductID: product.ID, TierNumber: 1, MembersRequired: 10, DiscountPercent: 15},
	}
	if err := repo.ReplaceTiers(ctx, product.ID, replacement); err != nil {
		t.Fatalf("replace tiers again: %v", err)
	}

	list, err = repo.ListTiers(ctx, product.ID)
	if err != nil {
		t.Fatalf("list tiers after replace: %v", err)
	}
	if len(list) != 1 || list[0].MembersRequired != 10 {
		t.Fatalf("expected wholesale replacement, got %+v", list)
	}

	if err := repo.ReplaceTiers(ctx, product.ID, nil); err != nil {
		t.Fatalf("clear tiers: %v", err)
	}
	list, err = repo.ListTiers(ctx, product.ID)
	if err != nil {
		t.Fatalf("list tiers after clear: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty ladder, got %d tiers", len(list))
	}
}
