package blocking

import (
	"slices"
	"time"
)

// ExtractDisabledIntervals turns blocking history into ascending, disjoint
// disabled intervals. States may come from several sources (the account, a
// bundle, different services); billing is disabled while at least one source
// blocks it. Repeated blocking states of one source without an unblock in
// between do not open a new interval. An interval that starts exactly where
// the previous one ended is merged into it.
func ExtractDisabledIntervals(states []*BlockingState) []DisabledInterval {
	ordered := slices.Clone(states)
	slices.SortStableFunc(ordered, func(a, b *BlockingState) int {
		return a.EffectiveDate.Compare(b.EffectiveDate)
	})

	var result []DisabledInterval
	blocking := make(map[string]bool)
	var openedAt *time.Time

	for _, state := range ordered {
		if state.IsBlockingBilling {
			blocking[state.source()] = true
		} else {
			delete(blocking, state.source())
		}

		switch {
		case len(blocking) > 0 && openedAt == nil:
			at := state.EffectiveDate
			openedAt = &at
		case len(blocking) == 0 && openedAt != nil:
			end := state.EffectiveDate
			result = appendInterval(result, *openedAt, &end)
			openedAt = nil
		}
	}

	if openedAt != nil {
		result = appendInterval(result, *openedAt, nil)
	}

	return result
}

func appendInterval(result []DisabledInterval, start time.Time, end *time.Time) []DisabledInterval {
	if n := len(result); n > 0 {
		last := &result[n-1]
		if last.End != nil && last.End.Equal(start) {
			last.End = end
			return result
		}
	}
	return append(result, DisabledInterval{Start: start, End: end})
}
