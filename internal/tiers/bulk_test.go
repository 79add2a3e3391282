package tiers

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
)

type stubCatalogWriter struct {
	failSet   map[uuid.UUID]error
	failClear map[uuid.UUID]error
	setCalls  []uuid.UUID
	clears    []uuid.UUID
}

func (s *stubCatalogWriter) SetTiers(ctx context.Context, vendorID, productID uuid.UUID, input []TierInput) ([]TierDTO, error) {
	s.setCalls = append(s.setCalls, productID)
	if err, ok := s.failSet[productID]; ok {
		return nil, err
	}
	return toTierDTOsFromInput(input), nil
}

func (s *stubCatalogWriter) ClearTiers(ctx context.Context, vendorID, productID uuid.UUID) error {
	s.clears = append(s.clears, productID)
	if err, ok := s.failClear[productID]; ok {
		return err
	}
	return nil
}

func toTierDTOsFromInput(input []TierInput) []TierDTO {
	dtos := make([]TierDTO, 0, len(input))
	for _, tier := range input {
		dtos = append(dtos, TierDTO(tier))
	}
	return dtos
}

func newTestBulkApplier(t *testing.T, writer catalogWriter) *BulkApplier {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
	bulk, err := NewBulkApplier(writer, nil, logg)
	if err != nil {
		t.Fatalf("build bulk applier: %v", err)
	}
	return bulk
}

func TestBulkApplyPartialSuccess(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	productC := uuid.New()

	writer := &stubCatalogWriter{
		failSet: map[uuid.UUID]error{
			productB: pkgerrors.New(pkgerrors.CodeValidation, "members_required must strictly increase with tier number"),
		},
	}
	bulk := newTestBulkApplier(t, writer)

	input := []TierInput{{TierNumber: 1, MembersRequired: 5, DiscountPercent: 10}}
	result, err := bulk.Apply(context.Background(), uuid.New(), []uuid.UUID{productA, productB, productC}, input)
	if err != nil {
		t.Fatalf("bulk apply: %v", err)
	}

	if len(result.Successful) != 2 {
		t.Fatalf("expected 2 successful products, got %d", len(result.Successful))
	}
	if result.Successful[0] != productA || result.Successful[1] != productC {
		t.Fatalf("expected [A C] successful, got %v", result.Successful)
	}
	if len(result.Failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failed))
	}
	if result.Failed[0].ProductID != productB {
		t.Fatalf("expected product B to fail, got %s", result.Failed[0].ProductID)
	}
	if result.Failed[0].Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation failure code, got %s", result.Failed[0].Code)
	}
	if len(writer.setCalls) != 3 {
		t.Fatalf("expected all 3 products attempted, got %d", len(writer.setCalls))
	}
}

func TestBulkApplyEmptyProductList(t *testing.T) {
	bulk := newTestBulkApplier(t, &stubCatalogWriter{})
	if _, err := bulk.Apply(context.Background(), uuid.New(), nil, nil); err == nil {
		t.Fatal("expected validation error for empty product list")
	}
}

func TestBulkUndoClearsOnlyRequestedProducts(t *testing.T) {
	productA := uuid.New()
	productC := uuid.New()

	writer := &stubCatalogWriter{}
	bulk := newTestBulkApplier(t, writer)

	result, err := bulk.Undo(context.Background(), uuid.New(), []uuid.UUID{productA, productC})
	if err != nil {
		t.Fatalf("bulk undo: %v", err)
	}
	if len(result.Successful) != 2 || len(result.Failed) != 0 {
		t.Fatalf("expected clean undo, got successful=%d failed=%d", len(result.Successful), len(result.Failed))
	}
	if len(writer.clears) != 2 || writer.clears[0] != productA || writer.clears[1] != productC {
		t.Fatalf("expected clears for exactly [A C], got %v", writer.clears)
	}
}

func TestBulkUndoRecordsFailuresWithoutAborting(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	productC := uuid.New()

	writer := &stubCatalogWriter{
		failClear: map[uuid.UUID]error{
			productB: pkgerrors.New(pkgerrors.CodeDependency, "db unavailable"),
		},
	}
	bulk := newTestBulkApplier(t, writer)

	result, err := bulk.Undo(context.Background(), uuid.New(), []uuid.UUID{productA, productB, productC})
	if err != nil {
		t.Fatalf("undo should not propagate per-product errors, got %v", err)
	}
	if len(result.Successful) != 2 {
		t.Fatalf("expected A and C undone, got %v", result.Successful)
	}
	if len(result.Failed) != 1 || result.Failed[0].ProductID != productB {
		t.Fatalf("expected product B recorded as failed, got %v", result.Failed)
	}
	if len(writer.clears) != 3 {
		t.Fatalf("expected all products attempted, got %d", len(writer.clears))
	}
}
