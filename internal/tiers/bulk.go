package tiers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgerrors "github.com/huddlebuy/huddlebuy-backend/pkg/errors"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
	"github.com/huddlebuy/huddlebuy-backend/pkg/metrics"
)

// catalogWriter is the per-product surface the bulk engine drives. The tier
// service satisfies it.
type catalogWriter interface {
	SetTiers(ctx context.Context, vendorID, productID uuid.UUID, input []TierInput) ([]TierDTO, error)
	ClearTiers(ctx context.Context, vendorID, productID uuid.UUID) error
}

// BulkApplier replaces ladders across many products, one transaction per
// product, so a single bad product never aborts the rest of the run.
type BulkApplier struct {
	writer  catalogWriter
	metrics *metrics.GroupBuyingMetrics
	logg    *logger.Logger
}

// NewBulkApplier constructs the bulk engine on top of the tier service.
func NewBulkApplier(writer catalogWriter, m *metrics.GroupBuyingMetrics, logg *logger.Logger) (*BulkApplier, error) {
	if writer == nil {
		return nil, fmt.Errorf("catalog writer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &BulkApplier{writer: writer, metrics: m, logg: logg}, nil
}

// Apply writes the same ladder to every product. Each product is validated
// and replaced independently; failures are collected, not propagated.
func (b *BulkApplier) Apply(ctx context.Context, vendorID uuid.UUID, productIDs []uuid.UUID, input []TierInput) (*BulkResult, error) {
	if len(productIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_ids must not be empty")
	}

	result := &BulkResult{
		Successful: make([]uuid.UUID, 0, len(productIDs)),
		Failed:     make([]BulkFailure, 0),
	}

	for _, productID := range productIDs {
		if _, err := b.writer.SetTiers(ctx, vendorID, productID, input); err != nil {
			result.Failed = append(result.Failed, toBulkFailure(productID, err))
			b.metrics.IncBulkApply("failed")
			continue
		}
		result.Successful = append(result.Successful, productID)
		b.metrics.IncBulkApply("applied")
	}

	return result, nil
}

// Undo removes the ladder from every product and disables group ordering.
// Best effort: prior configuration is not reconstructed, and per-product
// failures are reported in the result rather than returned. The aggregated
// error is logged for operators.
func (b *BulkApplier) Undo(ctx context.Context, vendorID uuid.UUID, productIDs []uuid.UUID) (*BulkResult, error) {
	if len(productIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_ids must not be empty")
	}

	result := &BulkResult{
		Successful: make([]uuid.UUID, 0, len(productIDs)),
		Failed:     make([]BulkFailure, 0),
	}

	var undoErr error
	for _, productID := range productIDs {
		if err := b.writer.ClearTiers(ctx, vendorID, productID); err != nil {
			undoErr = multierr.Append(undoErr, fmt.Errorf("product %s: %w", productID, err))
			result.Failed = append(result.Failed, toBulkFailure(productID, err))
			b.metrics.IncBulkApply("undo_failed")
			continue
		}
		result.Successful = append(result.Successful, productID)
		b.metrics.IncBulkApply("undone")
	}

	if undoErr != nil {
		b.logg.Error(ctx, "bulk tier undo left products unchanged", undoErr)
	}

	return result, nil
}

func toBulkFailure(productID uuid.UUID, err error) BulkFailure {
	if typed := pkgerrors.As(err); typed != nil {
		return BulkFailure{
			ProductID: productID,
			Code:      string(typed.Code()),
			Message:   typed.Message(),
		}
	}
	return BulkFailure{
		ProductID: productID,
		Code:      string(pkgerrors.CodeInternal),
		Message:   "unexpected error",
	}
}
