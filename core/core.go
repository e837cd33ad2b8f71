// Package core defines the identity and kind types every other package shares.
package core

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrOutOfBounds   = errors.New("position outside map bounds")
	ErrNoCell        = errors.New("no grid cell for position")
	ErrOverAllocated = errors.New("allocation exceeds granted points")
	ErrIDReassigned  = errors.New("object id already assigned")
	ErrIDExhausted   = errors.New("object id space exhausted")
	ErrUnknownEntity = errors.New("unknown or destroyed object")
	ErrUnknownPolicy = errors.New("unknown policy")
)

// ObjectID identifies an object for its whole life. IDs are never reused.
type ObjectID uint64

// Kind distinguishes the entity variants.
type Kind uint8

const (
	KindBot Kind = iota
	KindFood
	KindTree
)

func (k Kind) String() string {
	switch k {
	case KindBot:
		return "bot"
	case KindFood:
		return "food"
	case KindTree:
		return "tree"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IDAllocator hands out sequential ids starting at zero.
type IDAllocator struct {
	next      ObjectID
	exhausted bool
}

// Next returns a fresh id.
func (a *IDAllocator) Next() (ObjectID, error) {
	if a.exhausted {
		return 0, ErrIDExhausted
	}
	id := a.next
	if a.next == math.MaxUint64 {
		a.exhausted = true
	} else {
		a.next++
	}
	return id, nil
}

// Issued reports how many ids have been handed out.
func (a *IDAllocator) Issued() uint64 {
	if a.exhausted {
		return math.MaxUint64
	}
	return uint64(a.next)
}

// IDSlot holds an id that may be written exactly once.
type IDSlot struct {
	id  ObjectID
	set bool
}

// Set stores id. A second call fails with ErrIDReassigned.
func (s *IDSlot) Set(id ObjectID) error {
	if s.set {
		return fmt.Errorf("assigning %d over %d: %w", id, s.id, ErrIDReassigned)
	}
	s.id, s.set = id, true
	return nil
}

// Get returns the stored id and whether one was set.
func (s IDSlot) Get() (ObjectID, bool) { return s.id, s.set }

// CellRef indexes a grid cell in row-major order. NoCell marks an object
// that has not been placed yet.
type CellRef int32

const NoCell CellRef = -1

// Valid reports whether r points at a cell.
func (r CellRef) Valid() bool { return r >= 0 }
