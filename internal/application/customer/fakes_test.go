package customer

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
)

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]customer.Profile
	err      error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]customer.Profile)}
}

func (r *fakeProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*customer.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.profiles[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) Save(_ context.Context, p *customer.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = *p
	return nil
}

type fakeAddressRepo struct {
	mu        sync.Mutex
	nextID    int64
	addresses map[int64]customer.Address
	deleteErr error
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[int64]customer.Address)}
}

func (r *fakeAddressRepo) FindByID(_ context.Context, id int64) (*customer.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAddressRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]customer.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]customer.Address, 0)
	for _, a := range r.addresses {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeAddressRepo) Save(_ context.Context, a *customer.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == 0 {
		r.nextID++
		a.ID = r.nextID
	}
	r.addresses[a.ID] = *a
	return nil
}

func (r *fakeAddressRepo) Delete(_ context.Context, userID uuid.UUID, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	target, ok := r.addresses[id]
	if !ok || target.UserID != userID {
		return 0, shared.ErrNotFound
	}
	delete(r.addresses, id)
	if !target.IsDefault {
		return 0, nil
	}
	var next int64
	for aid, a := range r.addresses {
		if a.UserID == userID && (next == 0 || aid < next) {
			next = aid
		}
	}
	if next != 0 {
		a := r.addresses[next]
		a.IsDefault = true
		r.addresses[next] = a
	}
	return next, nil
}

func (r *fakeAddressRepo) SetDefault(_ context.Context, userID uuid.UUID, addressID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.addresses[addressID]
	if !ok || target.UserID != userID {
		return shared.ErrNotFound
	}
	for id, a := range r.addresses {
		if a.UserID == userID {
			a.IsDefault = id == addressID
			r.addresses[id] = a
		}
	}
	return nil
}

func (r *fakeAddressRepo) UpdateRecipientName(_ context.Context, userID uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.addresses {
		if a.UserID == userID {
			a.RecipientName = name
			r.addresses[id] = a
		}
	}
	return nil
}

func (r *fakeAddressRepo) defaults(userID uuid.UUID) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0)
	for id, a := range r.addresses {
		if a.UserID == userID && a.IsDefault {
			ids = append(ids, id)
		}
	}
	return ids
}

var errStoreDown = errors.New("store down")
