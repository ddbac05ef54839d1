package billingevent

import "sync/atomic"

// OrderingService hands out the TotalOrdering tie-break keys. Values are
// unique and increasing for the lifetime of the service so it can be shared
// by concurrent timeline builds.
type OrderingService interface {
	Next() int64
}

type atomicOrdering struct {
	next atomic.Int64
}

// NewOrderingService returns an OrderingService whose first value is start
func NewOrderingService(start int64) OrderingService {
	o := &atomicOrdering{}
	o.next.Store(start)
	return o
}

func (o *atomicOrdering) Next() int64 {
	return o.next.Add(1) - 1
}
