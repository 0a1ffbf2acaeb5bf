package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService handles admin stock management
type InventoryService struct {
	inventoryRepo inventory.InventoryRepository
	productRepo   catalog.ProductRepository
	logger        *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	inventoryRepo inventory.InventoryRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

// GetStock returns the stock level of a product.
// A catalog product that was never stocked reports zero.
func (s *InventoryService) GetStock(ctx context.Context, productID int64) (*StockResponse, error) {
	record, err := s.inventoryRepo.FindByProductID(ctx, productID)
	if err == nil {
		resp := ToStockResponse(record)
		return &resp, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return &StockResponse{ProductID: productID}, nil
}

// ListStock returns stock levels for the given products, in request order.
// Products without a record report zero.
func (s *InventoryService) ListStock(ctx context.Context, productIDs []int64) ([]StockResponse, error) {
	records, err := s.inventoryRepo.FindByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	result := make([]StockResponse, 0, len(productIDs))
	for _, id := range productIDs {
		if record, ok := records[id]; ok {
			result = append(result, ToStockResponse(record))
			continue
		}
		result = append(result, StockResponse{ProductID: id})
	}
	return result, nil
}

// SetStock overwrites the stock level of a catalog product
func (s *InventoryService) SetStock(ctx context.Context, productID, quantity int64) (*StockResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	record, err := inventory.NewInventoryRecord(productID, quantity)
	if err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save stock for product %d: %w", productID, err)
	}

	s.logger.Info("stock level set",
		zap.Int64("product_id", productID),
		zap.Int64("quantity", quantity),
	)
	resp := ToStockResponse(record)
	return &resp, nil
}
