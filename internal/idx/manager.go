// Package idx manages tape identifiers: the integer handles correlating an
// active value with its adjoint slot.
//
// Identifier 0 is reserved for passive values (not dependent on any input).
// Two managers are provided: Linear hands out monotonically increasing
// identifiers and never reuses them; Reuse recycles freed identifiers
// through a free list, which keeps the adjoint vector small for long
// recordings at the cost of requiring explicit release.
package idx

import (
	"math"
	"sort"

	"github.com/spool-ml/spool/internal/check"
)

// Identifier is an index into tape-managed storage.
type Identifier int32

// Passive is the identifier of values that carry no derivative dependency.
const Passive Identifier = 0

// Manager allocates and releases identifiers.
type Manager interface {
	// Assign returns a fresh identifier.
	Assign() Identifier
	// Free releases an identifier for potential reuse. Passing Passive is
	// a no-op.
	Free(Identifier)
	// Largest returns the high-water mark of assigned identifiers.
	Largest() Identifier
	// Reset returns the manager to its initial state.
	Reset()
}

// Linear is the monotone manager: identifiers count upward and Free is a
// no-op. Reset renumbers from scratch.
type Linear struct {
	next          Identifier
	overflowCheck bool
}

// NewLinear creates a linear manager. overflowCheck makes identifier-space
// exhaustion fatal instead of silently wrapping.
func NewLinear(overflowCheck bool) *Linear {
	return &Linear{overflowCheck: overflowCheck}
}

// NewLinearAt creates a linear manager whose next assignment follows
// largest. Used when restoring a persisted tape.
func NewLinearAt(largest Identifier, overflowCheck bool) *Linear {
	return &Linear{next: largest, overflowCheck: overflowCheck}
}

func (m *Linear) Assign() Identifier {
	if m.overflowCheck && m.next == math.MaxInt32 {
		check.Fatalf("idx: identifier space exhausted at %d", m.next)
	}
	m.next++
	return m.next
}

func (m *Linear) Free(Identifier) {}

func (m *Linear) Largest() Identifier { return m.next }

func (m *Linear) Reset() { m.next = 0 }

// Reuse recycles freed identifiers through a free list.
type Reuse struct {
	next          Identifier
	free          []Identifier
	overflowCheck bool
	sortOnReset   bool
}

// NewReuse creates a reuse manager. sortOnReset sorts the free list on
// Reset so replayed recordings assign identifiers deterministically.
func NewReuse(overflowCheck, sortOnReset bool) *Reuse {
	return &Reuse{overflowCheck: overflowCheck, sortOnReset: sortOnReset}
}

func (m *Reuse) Assign() Identifier {
	if n := len(m.free); n > 0 {
		id := m.free[n-1]
		m.free = m.free[:n-1]
		return id
	}
	if m.overflowCheck && m.next == math.MaxInt32 {
		check.Fatalf("idx: identifier space exhausted at %d", m.next)
	}
	m.next++
	return m.next
}

func (m *Reuse) Free(id Identifier) {
	if id == Passive {
		return
	}
	m.free = append(m.free, id)
}

func (m *Reuse) Largest() Identifier { return m.next }

func (m *Reuse) Reset() {
	if m.sortOnReset {
		sort.Slice(m.free, func(i, j int) bool { return m.free[i] > m.free[j] })
		return
	}
	m.free = m.free[:0]
	m.next = 0
}
