package inventory

import (
	"errors"
	"fmt"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// StockPolicy decides the stock level left after removing qty units.
type StockPolicy interface {
	Name() string
	Apply(current, qty int) (int, error)
}

// ClampFloor never fails: overselling leaves the part at zero.
type ClampFloor struct{}

func (ClampFloor) Name() string { return "clamp" }

func (ClampFloor) Apply(current, qty int) (int, error) {
	if next := current - qty; next > 0 {
		return next, nil
	}
	return 0, nil
}

// RejectOversell refuses a removal larger than the stock on hand.
type RejectOversell struct{}

func (RejectOversell) Name() string { return "reject" }

func (RejectOversell) Apply(current, qty int) (int, error) {
	if qty > current {
		return current, ErrInsufficientStock
	}
	return current - qty, nil
}

// PolicyByName resolves the configured policy. An empty name selects ClampFloor.
func PolicyByName(name string) (StockPolicy, error) {
	switch name {
	case "", ClampFloor{}.Name():
		return ClampFloor{}, nil
	case RejectOversell{}.Name():
		return RejectOversell{}, nil
	}
	return nil, fmt.Errorf("unknown stock policy %q", name)
}
