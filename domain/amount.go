package domain

import (
	"fmt"
	"math/big"
)

// ParseAmount parses a whole, non-negative amount of arbitrary size.
// Only ASCII digits are accepted; signs, separators and fractions are rejected.
func ParseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return amount, nil
}
