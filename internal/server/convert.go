package server

import (
	"errors"
	"fmt"
	"github.com/tablegate/tablegate/internal/filter"
	"github.com/tablegate/tablegate/internal/tablegate"
	"net/url"
	"strconv"
)

const (
	mutationSet          = "set"
	mutationDeleteCells  = "deleteCells"
	mutationDeleteFamily = "deleteFamily"
	mutationDeleteRow    = "deleteRow"
)

type cellJSON struct {
	Family    string `json:"family"`
	Qualifier string `json:"qualifier"`
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

type rowJSON struct {
	Key   string     `json:"key"`
	Cells []cellJSON `json:"cells"`
}

type createTableRequest struct {
	TableID  string         `json:"tableId"`
	Families map[string]int `json:"families"`
}

type writeValueRequest struct {
	TableID   string  `json:"tableId"`
	RowKey    string  `json:"rowKey"`
	Family    string  `json:"family"`
	Qualifier string  `json:"qualifier"`
	Value     *string `json:"value"`
}

type mutationJSON struct {
	Type      string  `json:"type"`
	Family    string  `json:"family,omitempty"`
	Qualifier string  `json:"qualifier,omitempty"`
	Value     *string `json:"value,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

type writeRowRequest struct {
	Mutations []mutationJSON `json:"mutations"`
}

type readRowsRequest struct {
	RowKeys []string `json:"rowKeys"`
}

func toRowJSON(r *tablegate.Row) rowJSON {
	out := rowJSON{Key: r.Key, Cells: make([]cellJSON, 0, len(r.Cells))}
	for _, c := range r.Cells {
		out.Cells = append(out.Cells, cellJSON{
			Family:    c.Family,
			Qualifier: string(c.Qualifier),
			Value:     string(c.Value),
			Timestamp: c.Timestamp,
		})
	}
	return out
}

func (c *createTableRequest) validate() error {
	var errGrp []error
	if c.TableID == "" {
		errGrp = append(errGrp, errors.New("tableId required"))
	}
	if len(c.Families) == 0 {
		errGrp = append(errGrp, errors.New("families required"))
	}
	return errors.Join(errGrp...)
}

func (w *writeValueRequest) validate() error {
	var errGrp []error
	if w.TableID == "" {
		errGrp = append(errGrp, errors.New("tableId required"))
	}
	if w.RowKey == "" {
		errGrp = append(errGrp, errors.New("rowKey required"))
	}
	if w.Family == "" {
		errGrp = append(errGrp, errors.New("family required"))
	}
	if w.Qualifier == "" {
		errGrp = append(errGrp, errors.New("qualifier required"))
	}
	if w.Value == nil {
		errGrp = append(errGrp, errors.New("value required"))
	}
	return errors.Join(errGrp...)
}

// mutations converts the request body into domain mutations. Field level
// checks are left to the gateway.
func (w *writeRowRequest) mutations() ([]tablegate.Mutation, error) {
	if len(w.Mutations) == 0 {
		return nil, errors.New("mutations required")
	}

	out := make([]tablegate.Mutation, 0, len(w.Mutations))
	for i, m := range w.Mutations {
		switch m.Type {
		case mutationSet:
			if m.Value == nil {
				return nil, fmt.Errorf("mutation %d: value required", i)
			}
			out = append(out, tablegate.SetCell{
				Family:    m.Family,
				Qualifier: []byte(m.Qualifier),
				Value:     []byte(*m.Value),
				Timestamp: m.Timestamp,
			})
		case mutationDeleteCells:
			out = append(out, tablegate.DeleteCells{Family: m.Family, Qualifier: []byte(m.Qualifier)})
		case mutationDeleteFamily:
			out = append(out, tablegate.DeleteFamily{Family: m.Family})
		case mutationDeleteRow:
			out = append(out, tablegate.DeleteRow{})
		default:
			return nil, fmt.Errorf("mutation %d: unknown type %q", i, m.Type)
		}
	}
	return out, nil
}

// parseScan builds the scan filter and row limit from query parameters.
// Predicates are chained in a fixed order; no parameters means no filter.
func parseScan(q url.Values) (filter.Filter, int, error) {
	var (
		filters []filter.Filter
		errGrp  []error
	)

	limit, err := intParam(q, "limit", 0)
	if err != nil {
		errGrp = append(errGrp, err)
	}

	if p := q.Get("prefix"); p != "" {
		filters = append(filters, filter.KeyPrefix(p))
	}
	if start, end := q.Get("start"), q.Get("end"); start != "" || end != "" {
		filters = append(filters, filter.KeyRange(start, end))
	}
	if f := q.Get("family"); f != "" {
		filters = append(filters, filter.Family(f))
	}
	if qual := q.Get("qualifier"); qual != "" {
		filters = append(filters, filter.Qualifier(qual))
	}
	if q.Has("value") {
		filters = append(filters, filter.Value([]byte(q.Get("value"))))
	}
	if p := q.Get("valuePrefix"); p != "" {
		filters = append(filters, filter.ValuePrefix([]byte(p)))
	}

	startTs, err := int64Param(q, "startTs")
	if err != nil {
		errGrp = append(errGrp, err)
	}
	endTs, err := int64Param(q, "endTs")
	if err != nil {
		errGrp = append(errGrp, err)
	}
	if startTs > 0 || endTs > 0 {
		filters = append(filters, filter.TimestampRange(startTs, endTs))
	}

	if q.Has("cellsPerRow") {
		n, err := intParam(q, "cellsPerRow", 1)
		if err != nil {
			errGrp = append(errGrp, err)
		} else {
			filters = append(filters, filter.CellsPerRow(n))
		}
	}
	if q.Has("versions") {
		n, err := intParam(q, "versions", 1)
		if err != nil {
			errGrp = append(errGrp, err)
		} else {
			filters = append(filters, filter.LatestVersions(n))
		}
	}

	if err := errors.Join(errGrp...); err != nil {
		return nil, 0, err
	}

	switch len(filters) {
	case 0:
		return nil, limit, nil
	case 1:
		return filters[0], limit, nil
	default:
		return filter.Chain(filters...), limit, nil
	}
}

// intParam parses a non-negative integer no smaller than least. A missing
// parameter yields zero.
func intParam(q url.Values, name string, least int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		if q.Has(name) {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	if n < least {
		return 0, fmt.Errorf("%s must be at least %d, got %d", name, least, n)
	}
	return n, nil
}

func int64Param(q url.Values, name string) (int64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", name, n)
	}
	return n, nil
}
