package testutil

import (
	"context"

	"github.com/flexprice/junction/internal/domain/blocking"
	"github.com/flexprice/junction/internal/types"
	"github.com/samber/lo"
)

// InMemoryBlockingStore implements blocking.Repository
type InMemoryBlockingStore struct {
	*InMemoryStore[*blocking.BlockingState]
}

func NewInMemoryBlockingStore() *InMemoryBlockingStore {
	return &InMemoryBlockingStore{
		InMemoryStore: NewInMemoryStore[*blocking.BlockingState](),
	}
}

func (s *InMemoryBlockingStore) Create(ctx context.Context, state *blocking.BlockingState) error {
	if state.TenantID == "" {
		state.BaseModel = types.GetDefaultBaseModel(ctx)
	}
	c := *state
	return s.InMemoryStore.Create(ctx, state.ID, &c)
}

func (s *InMemoryBlockingStore) ListByBlockable(ctx context.Context, blockableType types.ObjectType, blockableID string) ([]*blocking.BlockingState, error) {
	states := s.List(ctx, func(ctx context.Context, state *blocking.BlockingState) bool {
		return state.BlockableType == blockableType &&
			state.BlockableID == blockableID &&
			CheckTenantFilter(ctx, state.TenantID)
	}, func(a, b *blocking.BlockingState) bool {
		if !a.EffectiveDate.Equal(b.EffectiveDate) {
			return a.EffectiveDate.Before(b.EffectiveDate)
		}
		return a.ID < b.ID
	})
	return lo.Map(states, func(state *blocking.BlockingState, _ int) *blocking.BlockingState {
		c := *state
		return &c
	}), nil
}
