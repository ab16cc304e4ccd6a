// Package filter builds row filter expressions for scans.
//
// A Filter is an immutable expression tree. Leaves match on family,
// qualifier, value, row key or timestamp, or cap how many cells come back;
// Chain and Interleave combine them. Filters do no I/O and are translated to
// the storage client's own filter type only when a scan is issued.
//
//	f := filter.Chain(
//		filter.KeyPrefix("user#"),
//		filter.Column("profile", "email"),
//		filter.Latest(),
//	)
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter is one node of a filter expression. The set of node types is closed.
type Filter interface {
	isFilter()
	String() string
}

type (
	// FamilyMatch keeps cells whose family equals Name.
	FamilyMatch struct{ Name string }

	// QualifierMatch keeps cells whose qualifier equals Qualifier.
	QualifierMatch struct{ Qualifier []byte }

	// ValueMatch keeps cells whose value equals Value.
	ValueMatch struct{ Value []byte }

	// ValuePrefixMatch keeps cells whose value starts with Prefix.
	ValuePrefixMatch struct{ Prefix []byte }

	// KeyPrefixMatch keeps rows whose key starts with Prefix.
	KeyPrefixMatch struct{ Prefix string }

	// KeyRangeMatch keeps rows with Start <= key < End. An empty End is unbounded.
	KeyRangeMatch struct{ Start, End string }

	// TimestampRangeMatch keeps cells with Start <= timestamp < End, in
	// microseconds. A zero End is unbounded.
	TimestampRangeMatch struct{ Start, End int64 }

	// CellsPerRowLimit returns at most N cells from each row.
	CellsPerRowLimit struct{ N int }

	// VersionsLimit returns at most N versions of each column, newest first.
	VersionsLimit struct{ N int }

	// ChainFilter applies Filters in order; a cell must pass all of them.
	ChainFilter struct{ Filters []Filter }

	// InterleaveFilter unions the cells passed by each of Filters.
	InterleaveFilter struct{ Filters []Filter }
)

func (FamilyMatch) isFilter()         {}
func (QualifierMatch) isFilter()      {}
func (ValueMatch) isFilter()          {}
func (ValuePrefixMatch) isFilter()    {}
func (KeyPrefixMatch) isFilter()      {}
func (KeyRangeMatch) isFilter()       {}
func (TimestampRangeMatch) isFilter() {}
func (CellsPerRowLimit) isFilter()    {}
func (VersionsLimit) isFilter()       {}
func (ChainFilter) isFilter()         {}
func (InterleaveFilter) isFilter()    {}

func (f FamilyMatch) String() string { return "family(" + strconv.Quote(f.Name) + ")" }
func (f QualifierMatch) String() string {
	return "qualifier(" + strconv.Quote(string(f.Qualifier)) + ")"
}
func (f ValueMatch) String() string { return "value(" + strconv.Quote(string(f.Value)) + ")" }
func (f ValuePrefixMatch) String() string {
	return "valuePrefix(" + strconv.Quote(string(f.Prefix)) + ")"
}
func (f KeyPrefixMatch) String() string { return "keyPrefix(" + strconv.Quote(f.Prefix) + ")" }
func (f KeyRangeMatch) String() string {
	return fmt.Sprintf("keyRange(%q, %q)", f.Start, f.End)
}
func (f TimestampRangeMatch) String() string {
	return fmt.Sprintf("timestampRange(%d, %d)", f.Start, f.End)
}
func (f CellsPerRowLimit) String() string { return fmt.Sprintf("cellsPerRow(%d)", f.N) }
func (f VersionsLimit) String() string    { return fmt.Sprintf("versions(%d)", f.N) }
func (f ChainFilter) String() string      { return join("chain", f.Filters) }
func (f InterleaveFilter) String() string { return join("interleave", f.Filters) }

func join(name string, filters []Filter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			parts = append(parts, "<nil>")
			continue
		}
		parts = append(parts, f.String())
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
