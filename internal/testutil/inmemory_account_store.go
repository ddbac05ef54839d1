package testutil

import (
	"context"
	"sync/atomic"

	"github.com/flexprice/junction/internal/domain/account"
	"github.com/flexprice/junction/internal/types"
)

// InMemoryAccountStore implements account.Repository
type InMemoryAccountStore struct {
	*InMemoryStore[*account.Account]
	bcdWrites atomic.Int32
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		InMemoryStore: NewInMemoryStore[*account.Account](),
	}
}

func copyAccount(a *account.Account) *account.Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (s *InMemoryAccountStore) Create(ctx context.Context, a *account.Account) error {
	if a.TenantID == "" {
		a.BaseModel = types.GetDefaultBaseModel(ctx)
	}
	return s.InMemoryStore.Create(ctx, a.ID, copyAccount(a))
}

func (s *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	a, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyAccount(a), nil
}

func (s *InMemoryAccountStore) SetBillCycleDayIfUnset(ctx context.Context, id string, bcd int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.items[id]
	if !ok || a.BillCycleDayLocal != 0 {
		return false, nil
	}
	c := copyAccount(a)
	c.BillCycleDayLocal = bcd
	s.items[id] = c
	s.bcdWrites.Add(1)
	return true, nil
}

// BillCycleDayWrites counts the successful bill cycle day updates
func (s *InMemoryAccountStore) BillCycleDayWrites() int {
	return int(s.bcdWrites.Load())
}

func (s *InMemoryAccountStore) Clear() {
	s.InMemoryStore.Clear()
	s.bcdWrites.Store(0)
}
