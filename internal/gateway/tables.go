package gateway

import (
	"cloud.google.com/go/bigtable"
	"context"
	"github.com/rs/zerolog/log"
	"github.com/tablegate/tablegate/internal/changefeed"
	"github.com/tablegate/tablegate/internal/tablegate"
	"github.com/tablegate/tablegate/internal/worker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"sort"
)

// ListTables returns the ids of every table in the instance.
func (g *Gateway) ListTables(ctx context.Context) *worker.Future[[]string] {
	return run(ctx, g, "list tables", func(ctx context.Context) ([]string, error) {
		tables, err := g.admin.Tables(ctx)
		if err != nil {
			return nil, err
		}
		sort.Strings(tables)
		return tables, nil
	})
}

// CreateTable creates tableID with the given family -> max versions policy.
// A table that already exists is left untouched and reported as success.
func (g *Gateway) CreateTable(ctx context.Context, tableID string, families map[string]int) *worker.Future[struct{}] {
	if tableID == "" {
		return invalid[struct{}]("tableId required")
	}
	if len(families) == 0 {
		return invalid[struct{}]("families required")
	}

	conf := &bigtable.TableConf{
		TableID:  tableID,
		Families: make(map[string]bigtable.GCPolicy, len(families)),
	}
	for family, maxVersions := range families {
		if family == "" {
			return invalid[struct{}]("family name required")
		}
		if maxVersions < 1 {
			return invalid[struct{}]("maxVersions for family %q must be a positive integer, got %d", family, maxVersions)
		}
		conf.Families[family] = bigtable.MaxVersionsPolicy(maxVersions)
	}

	return run(ctx, g, "create table", func(ctx context.Context) (struct{}, error) {
		err := g.admin.CreateTableFromConf(ctx, conf)
		if status.Code(err) == codes.AlreadyExists {
			log.Warn().Str("table", tableID).Msg("table already exists, leaving it unchanged")
			return struct{}{}, nil
		}
		if err != nil {
			return struct{}{}, err
		}
		g.emit(changefeed.NewEvent(tablegate.OperationCreateTable, tableID, "", nil))
		return struct{}{}, nil
	})
}

// DeleteTable drops tableID. A missing table is not an error.
func (g *Gateway) DeleteTable(ctx context.Context, tableID string) *worker.Future[struct{}] {
	if tableID == "" {
		return invalid[struct{}]("tableId required")
	}

	return run(ctx, g, "delete table", func(ctx context.Context) (struct{}, error) {
		err := g.admin.DeleteTable(ctx, tableID)
		if status.Code(err) == codes.NotFound {
			log.Warn().Str("table", tableID).Msg("table does not exist, nothing to delete")
			return struct{}{}, nil
		}
		if err != nil {
			return struct{}{}, err
		}
		g.emit(changefeed.NewEvent(tablegate.OperationDeleteTable, tableID, "", nil))
		return struct{}{}, nil
	})
}

// TableExists reports whether tableID exists. Every call asks the service.
func (g *Gateway) TableExists(ctx context.Context, tableID string) *worker.Future[bool] {
	if tableID == "" {
		return invalid[bool]("tableId required")
	}

	return run(ctx, g, "get table", func(ctx context.Context) (bool, error) {
		_, err := g.admin.TableInfo(ctx, tableID)
		switch status.Code(err) {
		case codes.OK:
			return true, nil
		case codes.NotFound:
			return false, nil
		default:
			return false, err
		}
	})
}
