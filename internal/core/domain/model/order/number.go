package order

import (
	"fmt"
	"strings"

	"laundry/internal/pkg/errs"
)

const numberPrefix = "ORD-"

// Number is the human-readable order reference, e.g. "ORD-0042". It is derived from a
// strictly increasing sequence value; sequences above 9999 simply use more digits.
type Number struct {
	seq int64
}

// NewNumber wraps a sequence value drawn from the order sequence.
func NewNumber(seq int64) (Number, error) {
	if seq <= 0 {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("sequence %d is not greater than 0", seq))
	}
	return Number{seq: seq}, nil
}

// ParseNumber accepts the rendered form produced by String.
func ParseNumber(s string) (Number, error) {
	raw := strings.TrimSpace(s)
	if !strings.HasPrefix(raw, numberPrefix) {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q has no %s prefix", s, numberPrefix))
	}

	var seq int64
	if _, err := fmt.Sscanf(strings.TrimPrefix(raw, numberPrefix), "%d", &seq); err != nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number", err)
	}
	if fmt.Sprintf("%s%04d", numberPrefix, seq) != raw {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q is not canonical", s))
	}
	return NewNumber(seq)
}

func (n Number) Seq() int64 {
	return n.seq
}

func (n Number) String() string {
	return fmt.Sprintf("%s%04d", numberPrefix, n.seq)
}

func (n Number) IsZero() bool {
	return n.seq == 0
}

func (n Number) Validate() error {
	if n.seq <= 0 {
		return errs.NewValueIsRequiredError("order number")
	}
	return nil
}
