package gateway

import (
	"cloud.google.com/go/bigtable"
	"fmt"
	"github.com/tablegate/tablegate/internal/filter"
	"github.com/tablegate/tablegate/internal/tablegate"
	"regexp"
	"sort"
	"strings"
)

// convertRow flattens a client row into cells ordered by family name. Within
// a family the service order (qualifier, then newest first) is kept.
func convertRow(key string, r bigtable.Row) *tablegate.Row {
	families := make([]string, 0, len(r))
	for family := range r {
		families = append(families, family)
	}
	sort.Strings(families)

	row := &tablegate.Row{Key: key, Cells: []tablegate.Cell{}}
	for _, family := range families {
		for _, item := range r[family] {
			row.Cells = append(row.Cells, tablegate.Cell{
				Family:    family,
				Qualifier: []byte(strings.TrimPrefix(item.Column, family+":")),
				Value:     item.Value,
				Timestamp: int64(item.Timestamp),
			})
		}
	}
	return row
}

// convertMutations folds an ordered list into one atomic row mutation.
func convertMutations(mutations []tablegate.Mutation) (*bigtable.Mutation, error) {
	mut := bigtable.NewMutation()
	for i, m := range mutations {
		if m == nil {
			return nil, newError(ErrValidation, "mutation %d is empty", i)
		}
		if err := m.Validate(); err != nil {
			return nil, newError(ErrValidation, "mutation %d: %v", i, err)
		}

		switch v := m.(type) {
		case tablegate.SetCell:
			ts := bigtable.Timestamp(v.Timestamp)
			if ts == 0 {
				ts = bigtable.Now()
			}
			mut.Set(v.Family, string(v.Qualifier), ts, v.Value)
		case tablegate.DeleteRow:
			mut.DeleteRow()
		case tablegate.DeleteCells:
			mut.DeleteCellsInColumn(v.Family, string(v.Qualifier))
		case tablegate.DeleteFamily:
			mut.DeleteCellsInFamily(v.Family)
		default:
			return nil, newError(ErrValidation, "mutation %d: unsupported type %T", i, m)
		}
	}
	return mut, nil
}

// keyRange is a half-open row key interval; an empty end is unbounded.
type keyRange struct {
	start, end string
}

func (r keyRange) empty() bool {
	return r.end != "" && r.start >= r.end
}

func (r keyRange) intersect(o keyRange) keyRange {
	out := r
	if o.start > out.start {
		out.start = o.start
	}
	if out.end == "" || (o.end != "" && o.end < out.end) {
		out.end = o.end
	}
	return out
}

func (r keyRange) rowSet() bigtable.RowSet {
	if r.end == "" {
		return bigtable.InfiniteRange(r.start)
	}
	return bigtable.NewRange(r.start, r.end)
}

func prefixRange(prefix string) keyRange {
	return keyRange{start: prefix, end: prefixSuccessor(prefix)}
}

// prefixSuccessor is the smallest key greater than every key with the prefix,
// or "" when no such key exists.
func prefixSuccessor(prefix string) string {
	b := []byte(prefix)
	for len(b) > 0 {
		last := len(b) - 1
		if b[last] != 0xff {
			b[last]++
			return string(b[:last+1])
		}
		b = b[:last]
	}
	return ""
}

// scanPlan lifts row key predicates at the top of f into the scanned row range
// and returns what is left to evaluate as a row filter.
func scanPlan(f filter.Filter) (keyRange, filter.Filter) {
	full := keyRange{}

	switch v := f.(type) {
	case nil:
		return full, nil
	case filter.KeyPrefixMatch:
		return prefixRange(v.Prefix), nil
	case filter.KeyRangeMatch:
		return keyRange{start: v.Start, end: v.End}, nil
	case filter.ChainFilter:
		r := full
		var rest []filter.Filter
		for _, member := range v.Filters {
			switch m := member.(type) {
			case filter.KeyPrefixMatch:
				r = r.intersect(prefixRange(m.Prefix))
			case filter.KeyRangeMatch:
				r = r.intersect(keyRange{start: m.Start, end: m.End})
			default:
				rest = append(rest, member)
			}
		}
		if len(rest) == len(v.Filters) {
			return r, f
		}
		switch len(rest) {
		case 0:
			return r, nil
		case 1:
			return r, rest[0]
		default:
			return r, filter.Chain(rest...)
		}
	default:
		return full, f
	}
}

// compileFilter translates a filter tree into the client's filter type.
// Matches are full-string RE2 patterns on the service side, so literals are
// quoted and prefixes get a trailing wildcard.
func compileFilter(f filter.Filter) (bigtable.Filter, error) {
	switch v := f.(type) {
	case nil:
		return nil, newError(ErrValidation, "filter is empty")
	case filter.FamilyMatch:
		return bigtable.FamilyFilter(regexp.QuoteMeta(v.Name)), nil
	case filter.QualifierMatch:
		return bigtable.ColumnFilter(regexp.QuoteMeta(string(v.Qualifier))), nil
	case filter.ValueMatch:
		return bigtable.ValueFilter(regexp.QuoteMeta(string(v.Value))), nil
	case filter.ValuePrefixMatch:
		return bigtable.ValueFilter(prefixPattern(string(v.Prefix))), nil
	case filter.KeyPrefixMatch:
		return bigtable.RowKeyFilter(prefixPattern(v.Prefix)), nil
	case filter.KeyRangeMatch:
		return nil, newError(ErrValidation,
			"%s can only be used at the top level of a scan filter or chain", v)
	case filter.TimestampRangeMatch:
		return bigtable.TimestampRangeFilterMicros(bigtable.Timestamp(v.Start), bigtable.Timestamp(v.End)), nil
	case filter.CellsPerRowLimit:
		return bigtable.CellsPerRowLimitFilter(v.N), nil
	case filter.VersionsLimit:
		return bigtable.LatestNFilter(v.N), nil
	case filter.ChainFilter:
		members, err := compileAll(v.Filters)
		if err != nil {
			return nil, err
		}
		return bigtable.ChainFilters(members...), nil
	case filter.InterleaveFilter:
		members, err := compileAll(v.Filters)
		if err != nil {
			return nil, err
		}
		return bigtable.InterleaveFilters(members...), nil
	default:
		return nil, newError(ErrValidation, "unsupported filter %T", f)
	}
}

func compileAll(filters []filter.Filter) ([]bigtable.Filter, error) {
	out := make([]bigtable.Filter, 0, len(filters))
	for _, f := range filters {
		c, err := compileFilter(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func prefixPattern(prefix string) string {
	return fmt.Sprintf("(?s)%s.*", regexp.QuoteMeta(prefix))
}
