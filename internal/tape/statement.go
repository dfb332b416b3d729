package tape

import "github.com/spool-ml/spool/internal/idx"

// statement is one recorded assignment, reduced to its output identifier
// and a span over the rhs identifier / Jacobian streams. Statements are
// never mutated after being appended.
type statement struct {
	lhs   idx.Identifier
	first int64 // offset of the first entry in the rhs/jacobian streams
	n     int32 // number of entries
}

// Position marks a point in the recording, used to truncate a speculative
// suffix with ResetTo.
type Position struct {
	Statements        int
	Entries           int
	ExternalFunctions int
}

// Before reports whether p was recorded at or before q.
func (p Position) Before(q Position) bool {
	return p.Statements <= q.Statements && p.Entries <= q.Entries &&
		p.ExternalFunctions <= q.ExternalFunctions
}
