package order

import (
	"context"

	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
)

// TransactionScope runs checkout's commit phase atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to the same transaction.
type TransactionalRepositories interface {
	InventoryRepo() inventory.InventoryRepository
	PurchaseRepo() order.PurchaseRepository
}

// NoOpTransactionScope runs the function against plain repositories without
// a transaction. Used where the store has no transaction support, and in tests.
type NoOpTransactionScope struct {
	inventoryRepo inventory.InventoryRepository
	purchaseRepo  order.PurchaseRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(inventoryRepo inventory.InventoryRepository, purchaseRepo order.PurchaseRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		inventoryRepo: inventoryRepo,
		purchaseRepo:  purchaseRepo,
	}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InventoryRepo returns the inventory repository
func (s *NoOpTransactionScope) InventoryRepo() inventory.InventoryRepository {
	return s.inventoryRepo
}

// PurchaseRepo returns the purchase repository
func (s *NoOpTransactionScope) PurchaseRepo() order.PurchaseRepository {
	return s.purchaseRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
