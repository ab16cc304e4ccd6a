package filter

// Family matches cells in the named column family.
func Family(name string) Filter {
	return FamilyMatch{Name: name}
}

// Qualifier matches cells whose column qualifier is exactly q.
func Qualifier(q string) Filter {
	return QualifierMatch{Qualifier: []byte(q)}
}

// Value matches cells whose value is exactly v.
func Value(v []byte) Filter {
	return ValueMatch{Value: clone(v)}
}

// ValuePrefix matches cells whose value starts with p.
func ValuePrefix(p []byte) Filter {
	return ValuePrefixMatch{Prefix: clone(p)}
}

// KeyPrefix matches rows whose key starts with p.
func KeyPrefix(p string) Filter {
	return KeyPrefixMatch{Prefix: p}
}

// KeyRange matches rows in [start, end).
func KeyRange(start, end string) Filter {
	return KeyRangeMatch{Start: start, End: end}
}

// TimestampRange matches cells written in [start, end) microseconds.
func TimestampRange(start, end int64) Filter {
	return TimestampRangeMatch{Start: start, End: end}
}

// CellsPerRow caps the cells returned per row.
func CellsPerRow(n int) Filter {
	return CellsPerRowLimit{N: n}
}

// LatestVersions caps the versions returned per column.
func LatestVersions(n int) Filter {
	return VersionsLimit{N: n}
}

// Latest keeps only the newest version of each column.
func Latest() Filter {
	return LatestVersions(1)
}

// Chain is a logical AND evaluated in the listed order.
func Chain(filters ...Filter) Filter {
	return ChainFilter{Filters: append([]Filter(nil), filters...)}
}

// Interleave is a logical OR: the union of what each filter passes.
func Interleave(filters ...Filter) Filter {
	return InterleaveFilter{Filters: append([]Filter(nil), filters...)}
}

// Column matches a single family:qualifier column.
func Column(family, qualifier string) Filter {
	return Chain(Family(family), Qualifier(qualifier))
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
