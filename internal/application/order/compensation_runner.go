package order

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CompensationFailure records a line item whose stock could not be restored.
// It needs operator reconciliation.
type CompensationFailure struct {
	PurchaseID int64
	ProductID  int64
	Quantity   int64
	Err        error
}

// CompensationReport summarizes one restore pass over a purchase
type CompensationReport struct {
	PurchaseID    int64
	RestoredItems int
	RestoredUnits int64
	Failures      []CompensationFailure
}

// OK reports whether every line was restored
func (r CompensationReport) OK() bool {
	return len(r.Failures) == 0
}

// Err returns a COMPENSATION_FAILED error describing the failures, or nil
func (r CompensationReport) Err() error {
	if r.OK() {
		return nil
	}
	products := make([]int64, len(r.Failures))
	for i, f := range r.Failures {
		products[i] = f.ProductID
	}
	return shared.NewDomainError(shared.CodeCompensationFailed,
		fmt.Sprintf("failed to restore stock for %d item(s) of purchase %d", len(r.Failures), r.PurchaseID)).
		WithDetail("product_ids", products)
}

// CompensationRunner gives back the stock a cancelled purchase reserved at
// checkout. Each line is restored independently; failures are logged for
// reconciliation and never stop the loop.
type CompensationRunner struct {
	inventoryRepo inventory.InventoryRepository
	metrics       *telemetry.OrderMetrics
	logger        *zap.Logger
}

// NewCompensationRunner creates a new CompensationRunner.
// metrics may be nil.
func NewCompensationRunner(inventoryRepo inventory.InventoryRepository, metrics *telemetry.OrderMetrics, logger *zap.Logger) *CompensationRunner {
	return &CompensationRunner{
		inventoryRepo: inventoryRepo,
		metrics:       metrics,
		logger:        logger,
	}
}

// Restore increments stock for every line of p
func (r *CompensationRunner) Restore(ctx context.Context, p *order.Purchase) CompensationReport {
	ctx, span := telemetry.StartServiceSpan(ctx, "compensation", "restore",
		telemetry.SpanAttrPurchaseID, p.ID,
		telemetry.SpanAttrItemCount, len(p.Items),
	)
	defer span.End()

	report := CompensationReport{PurchaseID: p.ID}
	for _, item := range p.Items {
		if err := r.inventoryRepo.Restore(ctx, item.ProductID, item.Quantity); err != nil {
			report.Failures = append(report.Failures, CompensationFailure{
				PurchaseID: p.ID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				Err:        err,
			})
			r.metrics.RecordCompensationFailure(ctx)
			r.logger.Error("inventory restore failed",
				zap.Bool("reconcile", true),
				zap.Int64("purchase_id", p.ID),
				zap.Int64("product_id", item.ProductID),
				zap.Int64("quantity", item.Quantity),
				zap.Error(err),
			)
			continue
		}
		report.RestoredItems++
		report.RestoredUnits += item.Quantity
	}

	r.metrics.RecordRestore(ctx, report.RestoredUnits)
	if err := report.Err(); err != nil {
		telemetry.RecordError(span, err)
	}
	return report
}
