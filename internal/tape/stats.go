package tape

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/spool-ml/spool/internal/check"
)

// Statistics is a structured snapshot of a tape's resource usage: named
// numeric entries grouped into sections. Instances from different tapes
// (or processes) combine element-wise for multi-run comparison.
type Statistics struct {
	Sections []StatsSection
}

// StatsSection groups related entries under a heading.
type StatsSection struct {
	Name    string
	Entries []StatsEntry
}

// StatsEntry is one named numeric value.
type StatsEntry struct {
	Name  string
	Value float64
}

// CombineMode selects how matching entries merge.
type CombineMode int

const (
	CombineSum CombineMode = iota
	CombineMax
)

// Combine merges o into s element-wise. The structures must match
// exactly (section count, section names, entry count, entry names);
// a mismatch is a fatal consistency error.
func (s *Statistics) Combine(o *Statistics, mode CombineMode) {
	if len(s.Sections) != len(o.Sections) {
		check.Fatalf("statistics: section count mismatch: %d vs %d", len(s.Sections), len(o.Sections))
	}
	for i := range s.Sections {
		a, b := &s.Sections[i], &o.Sections[i]
		if a.Name != b.Name {
			check.Fatalf("statistics: section name mismatch: %q vs %q", a.Name, b.Name)
		}
		if len(a.Entries) != len(b.Entries) {
			check.Fatalf("statistics: entry count mismatch in %q: %d vs %d", a.Name, len(a.Entries), len(b.Entries))
		}
		for j := range a.Entries {
			if a.Entries[j].Name != b.Entries[j].Name {
				check.Fatalf("statistics: entry name mismatch in %q: %q vs %q",
					a.Name, a.Entries[j].Name, b.Entries[j].Name)
			}
			switch mode {
			case CombineSum:
				a.Entries[j].Value += b.Entries[j].Value
			case CombineMax:
				if b.Entries[j].Value > a.Entries[j].Value {
					a.Entries[j].Value = b.Entries[j].Value
				}
			}
		}
	}
}

// FormatBlock renders a human-readable report.
func (s *Statistics) FormatBlock() string {
	var b strings.Builder
	for _, sec := range s.Sections {
		fmt.Fprintf(&b, "%s\n", sec.Name)
		fmt.Fprintf(&b, "%s\n", strings.Repeat("-", len(sec.Name)))
		for _, e := range sec.Entries {
			fmt.Fprintf(&b, "  %-28s %14.6g\n", e.Name, e.Value)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatRow renders one ';'-delimited row of all values, for batch
// comparison across configurations.
func (s *Statistics) FormatRow() string {
	var vals []string
	for _, sec := range s.Sections {
		for _, e := range sec.Entries {
			vals = append(vals, fmt.Sprintf("%g", e.Value))
		}
	}
	return strings.Join(vals, ";")
}

// FormatHeaderRow renders the ';'-delimited column names matching
// FormatRow.
func (s *Statistics) FormatHeaderRow() string {
	var names []string
	for _, sec := range s.Sections {
		for _, e := range sec.Entries {
			names = append(names, sec.Name+"/"+e.Name)
		}
	}
	return strings.Join(names, ";")
}

// Statistics returns a snapshot of the tape's usage.
func (t *Tape[T]) Statistics() *Statistics {
	var elem T
	elemSize := float64(unsafe.Sizeof(elem))
	return &Statistics{Sections: []StatsSection{
		{Name: "Statements", Entries: []StatsEntry{
			{Name: "Recorded", Value: float64(t.stmts.len())},
			{Name: "Allocated", Value: float64(t.stmts.allocated())},
			{Name: "Memory bytes", Value: float64(t.stmts.allocated()) * float64(unsafe.Sizeof(statement{}))},
		}},
		{Name: "Jacobian entries", Entries: []StatsEntry{
			{Name: "Recorded", Value: float64(t.rhs.len())},
			{Name: "Allocated", Value: float64(t.rhs.allocated())},
			{Name: "Memory bytes", Value: float64(t.jacs.allocated())*elemSize + float64(t.rhs.allocated())*4},
		}},
		{Name: "Adjoint vector", Entries: []StatsEntry{
			{Name: "Size", Value: float64(len(t.adjoints))},
			{Name: "Memory bytes", Value: float64(len(t.adjoints)) * elemSize},
		}},
		{Name: "Identifiers", Entries: []StatsEntry{
			{Name: "Largest", Value: float64(t.ids.Largest())},
		}},
		{Name: "External functions", Entries: []StatsEntry{
			{Name: "Recorded", Value: float64(len(t.ext))},
		}},
	}}
}
