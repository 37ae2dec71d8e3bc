package kernel

import (
	"fmt"
	"strconv"
	"strings"

	"kitchen/internal/pkg/errs"
)

const orderNumberPrefix = "ORD-"

// OrderNumber is the human-readable order label shown to kitchen staff.
// It is rendered as ORD-<n> with n zero-padded to four digits.
type OrderNumber struct {
	value int64
}

// NewOrderNumber returns the number for sequence value n. n must be positive.
func NewOrderNumber(n int64) (OrderNumber, error) {
	if n <= 0 {
		return OrderNumber{}, errs.NewValueIsOutOfRangeError("orderNumber", n, int64(1), "unbounded")
	}
	return OrderNumber{value: n}, nil
}

// ParseOrderNumber accepts the ORD-<n> form produced by String.
func ParseOrderNumber(s string) (OrderNumber, error) {
	digits, ok := strings.CutPrefix(s, orderNumberPrefix)
	if !ok {
		return OrderNumber{}, errs.NewValueIsInvalidErrorWithCause(
			"orderNumber", fmt.Errorf("%q does not start with %s", s, orderNumberPrefix),
		)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return OrderNumber{}, errs.NewValueIsInvalidErrorWithCause("orderNumber", err)
	}
	return NewOrderNumber(n)
}

// Value returns the sequence value.
func (n OrderNumber) Value() int64 {
	return n.value
}

func (n OrderNumber) String() string {
	return fmt.Sprintf("%s%04d", orderNumberPrefix, n.value)
}

// IsEqual reports whether both numbers hold the same sequence value.
func (n OrderNumber) IsEqual(other OrderNumber) bool {
	return n.value == other.value
}

// Validate rejects the zero value.
func (n OrderNumber) Validate() error {
	if n.value <= 0 {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	return nil
}
