package gateway

import (
	"cloud.google.com/go/bigtable"
	"context"
	"github.com/rs/zerolog/log"
	"github.com/tablegate/tablegate/internal/changefeed"
	"github.com/tablegate/tablegate/internal/filter"
	"github.com/tablegate/tablegate/internal/tablegate"
	"github.com/tablegate/tablegate/internal/worker"
	"sort"
)

// ReadRow fetches a single row. A missing row yields (nil, nil).
func (g *Gateway) ReadRow(ctx context.Context, tableID, rowKey string) *worker.Future[*tablegate.Row] {
	if err := requireKey(tableID, rowKey); err != nil {
		return worker.Resolved[*tablegate.Row](nil, err)
	}

	return run(ctx, g, "read row", func(ctx context.Context) (*tablegate.Row, error) {
		r, err := g.data.Open(tableID).ReadRow(ctx, rowKey)
		if err != nil {
			return nil, err
		}
		if len(r) == 0 {
			return nil, nil
		}
		return convertRow(rowKey, r), nil
	})
}

// ReadRows fetches several rows in one call. Keys with no row are left out of
// the result.
func (g *Gateway) ReadRows(ctx context.Context, tableID string, rowKeys []string) *worker.Future[map[string]*tablegate.Row] {
	if tableID == "" {
		return invalid[map[string]*tablegate.Row]("tableId required")
	}
	keys := dedupe(rowKeys)
	if len(keys) == 0 {
		return invalid[map[string]*tablegate.Row]("rowKeys required")
	}

	return run(ctx, g, "read rows", func(ctx context.Context) (map[string]*tablegate.Row, error) {
		out := make(map[string]*tablegate.Row, len(keys))
		err := g.data.Open(tableID).ReadRows(ctx, bigtable.RowList(keys), func(r bigtable.Row) bool {
			out[r.Key()] = convertRow(r.Key(), r)
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

// WriteValue sets a single cell at the current time.
func (g *Gateway) WriteValue(ctx context.Context, tableID, rowKey, family, qualifier string, value []byte) *worker.Future[struct{}] {
	return g.WriteRow(ctx, tableID, rowKey, []tablegate.Mutation{
		tablegate.SetCell{Family: family, Qualifier: []byte(qualifier), Value: value},
	})
}

// WriteRow applies mutations to one row as a single atomic operation.
func (g *Gateway) WriteRow(ctx context.Context, tableID, rowKey string, mutations []tablegate.Mutation) *worker.Future[struct{}] {
	if err := requireKey(tableID, rowKey); err != nil {
		return worker.Resolved(struct{}{}, err)
	}
	if len(mutations) == 0 {
		return invalid[struct{}]("mutations required")
	}
	mut, err := convertMutations(mutations)
	if err != nil {
		return worker.Resolved(struct{}{}, err)
	}

	return run(ctx, g, "write row", func(ctx context.Context) (struct{}, error) {
		if err := g.data.Open(tableID).Apply(ctx, rowKey, mut); err != nil {
			return struct{}{}, err
		}
		g.emit(changefeed.NewEvent(tablegate.OperationWrite, tableID, rowKey, mutations))
		return struct{}{}, nil
	})
}

// DeleteRow removes a row unconditionally. Deleting a missing row succeeds.
func (g *Gateway) DeleteRow(ctx context.Context, tableID, rowKey string) *worker.Future[struct{}] {
	if err := requireKey(tableID, rowKey); err != nil {
		return worker.Resolved(struct{}{}, err)
	}

	mut := bigtable.NewMutation()
	mut.DeleteRow()

	return run(ctx, g, "delete row", func(ctx context.Context) (struct{}, error) {
		if err := g.data.Open(tableID).Apply(ctx, rowKey, mut); err != nil {
			return struct{}{}, err
		}
		g.emit(changefeed.NewEvent(tablegate.OperationDeleteRow, tableID, rowKey, nil))
		return struct{}{}, nil
	})
}

// ScanRows reads rows in ascending key order. A nil filter scans the whole
// table; limit <= 0 means no cap on the number of rows.
func (g *Gateway) ScanRows(ctx context.Context, tableID string, f filter.Filter, limit int) *worker.Future[[]*tablegate.Row] {
	if tableID == "" {
		return invalid[[]*tablegate.Row]("tableId required")
	}

	keys, residual := scanPlan(f)
	var opts []bigtable.ReadOption
	if residual != nil {
		compiled, err := compileFilter(residual)
		if err != nil {
			return worker.Resolved[[]*tablegate.Row](nil, err)
		}
		opts = append(opts, bigtable.RowFilter(compiled))
	}
	if limit > 0 {
		opts = append(opts, bigtable.LimitRows(int64(limit)))
	}
	if keys.empty() {
		log.Debug().Str("table", tableID).Msg("scan range is empty, skipping call")
		return worker.Resolved([]*tablegate.Row{}, nil)
	}

	return run(ctx, g, "scan rows", func(ctx context.Context) ([]*tablegate.Row, error) {
		rows := []*tablegate.Row{}
		err := g.data.Open(tableID).ReadRows(ctx, keys.rowSet(), func(r bigtable.Row) bool {
			rows = append(rows, convertRow(r.Key(), r))
			return limit <= 0 || len(rows) < limit
		}, opts...)
		if err != nil {
			return nil, err
		}
		return rows, nil
	})
}

func requireKey(tableID, rowKey string) error {
	switch {
	case tableID == "":
		return newError(ErrValidation, "tableId required")
	case rowKey == "":
		return newError(ErrValidation, "rowKey required")
	}
	return nil
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
