package idx

import "testing"

func TestLinearAssign(t *testing.T) {
	m := NewLinear(true)

	if got := m.Assign(); got != 1 {
		t.Errorf("first Assign = %d, want 1", got)
	}
	if got := m.Assign(); got != 2 {
		t.Errorf("second Assign = %d, want 2", got)
	}

	// Free is a no-op for the linear manager.
	m.Free(2)
	if got := m.Assign(); got != 3 {
		t.Errorf("Assign after Free = %d, want 3", got)
	}
	if got := m.Largest(); got != 3 {
		t.Errorf("Largest = %d, want 3", got)
	}

	m.Reset()
	if got := m.Assign(); got != 1 {
		t.Errorf("Assign after Reset = %d, want 1", got)
	}
}

func TestLinearAt(t *testing.T) {
	m := NewLinearAt(10, true)
	if got := m.Assign(); got != 11 {
		t.Errorf("Assign = %d, want 11", got)
	}
}

func TestReuseRecycles(t *testing.T) {
	m := NewReuse(true, false)

	a := m.Assign()
	b := m.Assign()
	c := m.Assign()
	if a != 1 || b != 2 || c != 3 {
		t.Fatalf("Assign sequence = %d,%d,%d, want 1,2,3", a, b, c)
	}

	m.Free(b)
	if got := m.Assign(); got != b {
		t.Errorf("Assign after Free(%d) = %d, want the freed identifier", b, got)
	}
	if got := m.Largest(); got != 3 {
		t.Errorf("Largest = %d, want 3", got)
	}
}

func TestReuseFreePassive(t *testing.T) {
	m := NewReuse(true, false)
	m.Free(Passive)
	if got := m.Assign(); got != 1 {
		t.Errorf("Assign after Free(Passive) = %d, want 1", got)
	}
}

func TestReuseSortOnReset(t *testing.T) {
	m := NewReuse(true, true)

	for i := 0; i < 5; i++ {
		m.Assign()
	}
	// Free out of order; after Reset the smallest must come back first.
	m.Free(4)
	m.Free(2)
	m.Free(5)
	m.Reset()

	if got := m.Assign(); got != 2 {
		t.Errorf("first Assign after sorted Reset = %d, want 2", got)
	}
	if got := m.Assign(); got != 4 {
		t.Errorf("second Assign after sorted Reset = %d, want 4", got)
	}
	if got := m.Assign(); got != 5 {
		t.Errorf("third Assign after sorted Reset = %d, want 5", got)
	}
}

func TestReuseResetWithoutSort(t *testing.T) {
	m := NewReuse(true, false)
	m.Assign()
	m.Assign()
	m.Free(1)
	m.Reset()

	// Renumbered from scratch.
	if got := m.Assign(); got != 1 {
		t.Errorf("Assign after Reset = %d, want 1", got)
	}
	if got := m.Largest(); got != 1 {
		t.Errorf("Largest after Reset = %d, want 1", got)
	}
}
