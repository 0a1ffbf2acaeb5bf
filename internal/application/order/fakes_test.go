package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appcustomer "github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// fakeInventoryRepo mirrors the conditional-update semantics of the SQL ledger
type fakeInventoryRepo struct {
	mu         sync.Mutex
	stock      map[int64]int64
	restoreErr map[int64]error
	reserveErr error
}

func newFakeInventoryRepo(stock map[int64]int64) *fakeInventoryRepo {
	return &fakeInventoryRepo{stock: stock, restoreErr: make(map[int64]error)}
}

func (r *fakeInventoryRepo) FindByProductID(_ context.Context, productID int64) (*inventory.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	qty, ok := r.stock[productID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &inventory.InventoryRecord{ProductID: productID, Quantity: qty}, nil
}

func (r *fakeInventoryRepo) FindByProductIDs(_ context.Context, productIDs []int64) (map[int64]*inventory.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[int64]*inventory.InventoryRecord)
	for _, id := range productIDs {
		if qty, ok := r.stock[id]; ok {
			result[id] = &inventory.InventoryRecord{ProductID: id, Quantity: qty}
		}
	}
	return result, nil
}

func (r *fakeInventoryRepo) Reserve(_ context.Context, productID, qty int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reserveErr != nil {
		return r.reserveErr
	}
	if err := inventory.ValidateQuantity(qty); err != nil {
		return err
	}
	available := r.stock[productID]
	if available < qty {
		return inventory.NewInsufficientStockError(productID, qty, available)
	}
	r.stock[productID] = available - qty
	return nil
}

func (r *fakeInventoryRepo) Restore(_ context.Context, productID, qty int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.restoreErr[productID]; err != nil {
		return err
	}
	if err := inventory.ValidateQuantity(qty); err != nil {
		return err
	}
	if _, ok := r.stock[productID]; !ok {
		return shared.ErrNotFound
	}
	r.stock[productID] += qty
	return nil
}

func (r *fakeInventoryRepo) Save(_ context.Context, record *inventory.InventoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[record.ProductID] = record.Quantity
	return nil
}

func (r *fakeInventoryRepo) quantity(productID int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stock[productID]
}

// fakePurchaseRepo stores purchases by value and implements CAS on status
type fakePurchaseRepo struct {
	mu        sync.Mutex
	nextID    int64
	purchases map[int64]order.Purchase
	createErr error
	// beforeCAS runs inside CompareAndSetStatus before the status check,
	// letting tests simulate a concurrent writer.
	beforeCAS func(id int64)
	casCalls  int
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: make(map[int64]order.Purchase)}
}

func (r *fakePurchaseRepo) FindByID(_ context.Context, id int64) (*order.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	p.ClearDomainEvents()
	return &p, nil
}

func (r *fakePurchaseRepo) list(match func(order.Purchase) bool, filter shared.Filter) ([]order.Purchase, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]order.Purchase, 0)
	for _, p := range r.purchases {
		if match(p) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	total := int64(len(result))
	start := min(filter.Offset(), len(result))
	end := min(start+filter.PageSize, len(result))
	return result[start:end], total
}

func (r *fakePurchaseRepo) FindByUserID(_ context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Purchase, int64, error) {
	status, hasStatus := filter.Filters["status"].(order.Status)
	items, total := r.list(func(p order.Purchase) bool {
		return p.UserID == userID && (!hasStatus || p.Status == status)
	}, filter)
	return items, total, nil
}

func (r *fakePurchaseRepo) FindByStatus(_ context.Context, status order.Status, filter shared.Filter) ([]order.Purchase, int64, error) {
	items, total := r.list(func(p order.Purchase) bool { return p.Status == status }, filter)
	return items, total, nil
}

func (r *fakePurchaseRepo) CountByStatus(_ context.Context) (map[order.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[order.Status]int64)
	for _, p := range r.purchases {
		counts[p.Status]++
	}
	return counts, nil
}

func (r *fakePurchaseRepo) Create(_ context.Context, p *order.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	p.ID = r.nextID
	for i := range p.Items {
		p.Items[i].ID = p.ID*100 + int64(i)
		p.Items[i].PurchaseID = p.ID
	}
	stored := *p
	stored.Items = append([]order.PurchaseItem(nil), p.Items...)
	stored.ClearDomainEvents()
	r.purchases[p.ID] = stored
	return nil
}

func (r *fakePurchaseRepo) CompareAndSetStatus(_ context.Context, id int64, from, to order.Status, at time.Time) (bool, error) {
	if r.beforeCAS != nil {
		r.beforeCAS(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.casCalls++
	p, ok := r.purchases[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = at
	p.Version++
	r.purchases[id] = p
	return true, nil
}

// forceStatus overwrites a stored status, as a concurrent writer would
func (r *fakePurchaseRepo) forceStatus(id int64, status order.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.purchases[id]
	p.Status = status
	r.purchases[id] = p
}

func (r *fakePurchaseRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.purchases)
}

type fakeProductRepo struct {
	products map[int64]*catalog.Product
}

func newFakeProductRepo(prices map[int64]int64) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[int64]*catalog.Product)}
	for id, price := range prices {
		p, _ := catalog.NewProduct("Product", decimal.NewFromInt(price))
		p.ID = id
		repo.products[id] = p
	}
	return repo
}

func (r *fakeProductRepo) FindByID(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []int64) (map[int64]*catalog.Product, error) {
	result := make(map[int64]*catalog.Product)
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

// stubResolver answers profile and address questions from fixed values
type stubResolver struct {
	profileMissing  []string
	approvalMissing []string
	noAddress       bool
	approvalErr     error
}

func (s *stubResolver) RequireCompleteProfile(_ context.Context, _ uuid.UUID) error {
	if len(s.profileMissing) > 0 {
		return customer.NewIncompleteProfileError(s.profileMissing...)
	}
	return nil
}

func (s *stubResolver) ResolveForCheckout(_ context.Context, _ uuid.UUID, addressID *int64) (*appcustomer.CheckoutAddress, error) {
	if s.noAddress {
		return nil, customer.NewIncompleteProfileError(customer.FieldAddress)
	}
	id := int64(1)
	if addressID != nil {
		id = *addressID
	}
	return &appcustomer.CheckoutAddress{
		AddressID: id,
		Details: order.TransactionDetails{
			RecipientName: "Juan Dela Cruz",
			Address:       "12 Mabini St, Quezon City",
			Phone:         "09171234567",
		},
	}, nil
}

func (s *stubResolver) ApprovalCheck(_ context.Context, _ *order.Purchase) ([]string, error) {
	return s.approvalMissing, s.approvalErr
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range p.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

var errDatabaseDown = errors.New("database down")

// rollbackScope gives the fakes transaction semantics: stock and purchases
// are put back when fn fails.
type rollbackScope struct {
	inventory *fakeInventoryRepo
	purchases *fakePurchaseRepo
}

func (s *rollbackScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.inventory.mu.Lock()
	stock := make(map[int64]int64, len(s.inventory.stock))
	for k, v := range s.inventory.stock {
		stock[k] = v
	}
	s.inventory.mu.Unlock()

	if err := fn(NewNoOpTransactionScope(s.inventory, s.purchases)); err != nil {
		s.inventory.mu.Lock()
		s.inventory.stock = stock
		s.inventory.mu.Unlock()
		return err
	}
	return nil
}
