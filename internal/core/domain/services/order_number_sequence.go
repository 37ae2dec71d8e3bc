package services

import (
	"sync/atomic"

	"kitchen/internal/core/domain/model/kernel"
)

// OrderNumberSequence hands out strictly increasing order numbers for the
// lifetime of the process. It is seeded with the highest number already
// stored so a restart never reissues a number.
type OrderNumberSequence struct {
	last atomic.Int64
}

// NewOrderNumberSequence starts after last. Numbers begin at 1 when last is
// zero or negative.
func NewOrderNumberSequence(last int64) *OrderNumberSequence {
	s := &OrderNumberSequence{}
	if last > 0 {
		s.last.Store(last)
	}
	return s
}

// Next allocates the following number. A number is never handed out twice,
// even if the order it was allocated for is later rejected.
func (s *OrderNumberSequence) Next() kernel.OrderNumber {
	n, _ := kernel.NewOrderNumber(s.last.Add(1))
	return n
}

// AdvanceTo moves the sequence forward so the next number is above n. It
// never moves backwards.
func (s *OrderNumberSequence) AdvanceTo(n int64) {
	for {
		cur := s.last.Load()
		if n <= cur || s.last.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Last returns the most recently allocated value.
func (s *OrderNumberSequence) Last() int64 {
	return s.last.Load()
}
