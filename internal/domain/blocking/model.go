package blocking

import (
	"fmt"
	"time"

	"github.com/flexprice/junction/internal/types"
)

// BlockingState is one persisted change of blocking state for an account or
// a bundle, emitted by a service such as overdue or a manual block.
type BlockingState struct {
	ID                string           `db:"id" json:"id"`
	BlockableID       string           `db:"blockable_id" json:"blockable_id"`
	BlockableType     types.ObjectType `db:"blockable_type" json:"blockable_type"`
	Service           string           `db:"service" json:"service"`
	StateName         string           `db:"state_name" json:"state_name"`
	IsBlockingBilling bool             `db:"block_billing" json:"block_billing"`
	EffectiveDate     time.Time        `db:"effective_date" json:"effective_date"`

	types.BaseModel
}

// source identifies the owner of a blocking state stream
func (s *BlockingState) source() string {
	return string(s.BlockableType) + ":" + s.BlockableID + ":" + s.Service
}

// DisabledInterval is a maximal period [Start, End) during which billing is
// blocked. A nil End means still blocked.
type DisabledInterval struct {
	Start time.Time
	End   *time.Time
}

func (d DisabledInterval) IsOpen() bool {
	return d.End == nil
}

// StrictlyContains reports whether t lies after Start and, for a closed
// interval, before End
func (d DisabledInterval) StrictlyContains(t time.Time) bool {
	if !t.After(d.Start) {
		return false
	}
	return d.End == nil || t.Before(*d.End)
}

func (d DisabledInterval) String() string {
	if d.End == nil {
		return fmt.Sprintf("[%s, open)", d.Start.Format(time.RFC3339))
	}
	return fmt.Sprintf("[%s, %s)", d.Start.Format(time.RFC3339), d.End.Format(time.RFC3339))
}
