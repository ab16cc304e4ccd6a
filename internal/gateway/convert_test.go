package gateway

import (
	"cloud.google.com/go/bigtable"
	"github.com/stretchr/testify/require"
	"github.com/tablegate/tablegate/internal/filter"
	"github.com/tablegate/tablegate/internal/tablegate"
	"testing"
)

func TestConvertRow(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	got := convertRow("r1", bigtable.Row{
		"zeta": {
			{Row: "r1", Column: "zeta:q", Timestamp: 3000, Value: []byte("z")},
		},
		"alpha": {
			{Row: "r1", Column: "alpha:a", Timestamp: 2000, Value: []byte("new")},
			{Row: "r1", Column: "alpha:a", Timestamp: 1000, Value: []byte("old")},
			{Row: "r1", Column: "alpha:with:colon", Timestamp: 1000, Value: []byte("c")},
		},
	})

	req.Equal(&tablegate.Row{
		Key: "r1",
		Cells: []tablegate.Cell{
			{Family: "alpha", Qualifier: []byte("a"), Value: []byte("new"), Timestamp: 2000},
			{Family: "alpha", Qualifier: []byte("a"), Value: []byte("old"), Timestamp: 1000},
			{Family: "alpha", Qualifier: []byte("with:colon"), Value: []byte("c"), Timestamp: 1000},
			{Family: "zeta", Qualifier: []byte("q"), Value: []byte("z"), Timestamp: 3000},
		},
	}, got)
}

func TestPrefixSuccessor(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		prefix string
		want   string
	}{
		"simple":         {prefix: "abc", want: "abd"},
		"trailing 0xff":  {prefix: "ab\xff", want: "ac"},
		"all 0xff":       {prefix: "\xff\xff", want: ""},
		"empty":          {prefix: "", want: ""},
		"separator char": {prefix: "user#", want: "user$"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, prefixSuccessor(tc.prefix))
		})
	}
}

func TestScanPlan(t *testing.T) {
	t.Parallel()
	family := filter.Family("cf")

	tests := map[string]struct {
		filter       filter.Filter
		wantRange    keyRange
		wantResidual filter.Filter
	}{
		"no filter": {},
		"top level prefix": {
			filter:    filter.KeyPrefix("user#"),
			wantRange: keyRange{start: "user#", end: "user$"},
		},
		"top level range": {
			filter:    filter.KeyRange("a", "m"),
			wantRange: keyRange{start: "a", end: "m"},
		},
		"chain lifts key predicates": {
			filter:       filter.Chain(filter.KeyRange("a", "m"), family, filter.KeyPrefix("b")),
			wantRange:    keyRange{start: "b", end: "c"},
			wantResidual: family,
		},
		"chain keeps several members": {
			filter:       filter.Chain(filter.KeyPrefix("b"), family, filter.Latest()),
			wantRange:    keyRange{start: "b", end: "c"},
			wantResidual: filter.Chain(family, filter.Latest()),
		},
		"chain with only key predicates": {
			filter:    filter.Chain(filter.KeyRange("a", ""), filter.KeyRange("", "k")),
			wantRange: keyRange{start: "a", end: "k"},
		},
		"chain without key predicates is untouched": {
			filter:       filter.Chain(family, filter.Latest()),
			wantResidual: filter.Chain(family, filter.Latest()),
		},
		"interleave is untouched": {
			filter:       filter.Interleave(filter.KeyPrefix("a"), family),
			wantResidual: filter.Interleave(filter.KeyPrefix("a"), family),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			gotRange, gotResidual := scanPlan(tc.filter)
			req.Equal(tc.wantRange, gotRange)
			req.Equal(tc.wantResidual, gotResidual)
		})
	}
}

func TestKeyRange(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	req.False(keyRange{}.empty())
	req.False(keyRange{start: "a", end: "b"}.empty())
	req.True(keyRange{start: "b", end: "b"}.empty())
	req.True(keyRange{start: "c", end: "b"}.empty())

	req.Equal(keyRange{start: "b", end: "c"}, keyRange{start: "a", end: "c"}.intersect(keyRange{start: "b"}))
	req.Equal(keyRange{start: "a", end: "b"}, keyRange{start: "a"}.intersect(keyRange{end: "b"}))

	req.Equal(bigtable.InfiniteRange("a"), keyRange{start: "a"}.rowSet())
	req.Equal(bigtable.NewRange("a", "b"), keyRange{start: "a", end: "b"}.rowSet())
}

func TestCompileFilter(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		filter  filter.Filter
		wantErr string
	}{
		"family": {
			filter: filter.Family("c.f"),
		},
		"chain": {
			filter: filter.Column("cf", "q1"),
		},
		"nil": {
			filter:  nil,
			wantErr: "invalid request: filter is empty",
		},
		"nested key range": {
			filter:  filter.Chain(filter.Interleave(filter.KeyRange("a", "b"))),
			wantErr: `invalid request: keyRange("a", "b") can only be used at the top level of a scan filter or chain`,
		},
		"nil member": {
			filter:  filter.Interleave(filter.Family("a"), nil),
			wantErr: "invalid request: filter is empty",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			got, err := compileFilter(tc.filter)
			if tc.wantErr != "" {
				req.ErrorIs(err, ErrValidation)
				req.EqualError(err, tc.wantErr)
				return
			}
			req.NoError(err)
			req.NotNil(got)
		})
	}
}

func TestCompileFilter_Types(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		filter filter.Filter
		want   bigtable.Filter
	}{
		"qualifier":   {filter: filter.Qualifier("a+b"), want: bigtable.ColumnFilter(`a\+b`)},
		"value":       {filter: filter.Value([]byte("v")), want: bigtable.ValueFilter("v")},
		"value pre":   {filter: filter.ValuePrefix([]byte("v.")), want: bigtable.ValueFilter(`(?s)v\..*`)},
		"key pre":     {filter: filter.KeyPrefix("k"), want: bigtable.RowKeyFilter(`(?s)k.*`)},
		"timestamps":  {filter: filter.TimestampRange(1000, 2000), want: bigtable.TimestampRangeFilterMicros(1000, 2000)},
		"cells limit": {filter: filter.CellsPerRow(2), want: bigtable.CellsPerRowLimitFilter(2)},
		"latest":      {filter: filter.Latest(), want: bigtable.LatestNFilter(1)},
		"chain": {
			filter: filter.Column("cf", "q"),
			want:   bigtable.ChainFilters(bigtable.FamilyFilter("cf"), bigtable.ColumnFilter("q")),
		},
		"interleave": {
			filter: filter.Interleave(filter.Family("a"), filter.Family("b")),
			want:   bigtable.InterleaveFilters(bigtable.FamilyFilter("a"), bigtable.FamilyFilter("b")),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			got, err := compileFilter(tc.filter)
			req.NoError(err)
			req.Equal(tc.want, got)
		})
	}
}

func TestConvertMutations(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	got, err := convertMutations([]tablegate.Mutation{
		tablegate.SetCell{Family: "cf", Qualifier: []byte("q"), Value: []byte("v"), Timestamp: 1000},
		tablegate.DeleteCells{Family: "cf", Qualifier: []byte("old")},
		tablegate.DeleteFamily{Family: "tmp"},
		tablegate.DeleteRow{},
	})
	req.NoError(err)

	want := bigtable.NewMutation()
	want.Set("cf", "q", 1000, []byte("v"))
	want.DeleteCellsInColumn("cf", "old")
	want.DeleteCellsInFamily("tmp")
	want.DeleteRow()
	req.Equal(want, got)

	_, err = convertMutations([]tablegate.Mutation{tablegate.DeleteFamily{}})
	req.ErrorIs(err, ErrValidation)
}
