package tag

import "github.com/flexprice/junction/internal/types"

// Tag is a control tag attached to an account or a bundle
type Tag struct {
	ID         string               `db:"id" json:"id"`
	ObjectID   string               `db:"object_id" json:"object_id"`
	ObjectType types.ObjectType     `db:"object_type" json:"object_type"`
	TagType    types.ControlTagType `db:"tag_type" json:"tag_type"`

	types.BaseModel
}
