package testutil

import (
	"context"

	"github.com/flexprice/junction/internal/domain/tag"
	"github.com/flexprice/junction/internal/types"
)

// InMemoryTagStore implements tag.Repository
type InMemoryTagStore struct {
	*InMemoryStore[*tag.Tag]
}

func NewInMemoryTagStore() *InMemoryTagStore {
	return &InMemoryTagStore{
		InMemoryStore: NewInMemoryStore[*tag.Tag](),
	}
}

// AddControlTag tags the object with tagType
func (s *InMemoryTagStore) AddControlTag(ctx context.Context, objectType types.ObjectType, objectID string, tagType types.ControlTagType) error {
	t := &tag.Tag{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAG),
		ObjectID:   objectID,
		ObjectType: objectType,
		TagType:    tagType,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
	return s.InMemoryStore.Create(ctx, t.ID, t)
}

func (s *InMemoryTagStore) HasControlTag(ctx context.Context, objectType types.ObjectType, objectID string, tagType types.ControlTagType) (bool, error) {
	tags := s.List(ctx, func(ctx context.Context, t *tag.Tag) bool {
		return t.ObjectType == objectType &&
			t.ObjectID == objectID &&
			t.TagType == tagType &&
			CheckTenantFilter(ctx, t.TenantID)
	}, nil)
	return len(tags) > 0, nil
}
