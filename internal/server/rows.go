package server

import (
	"fmt"
	"net/http"
)

type rowsResponse struct {
	Rows []rowJSON `json:"rows"`
}

type rowMapResponse struct {
	Rows map[string]rowJSON `json:"rows"`
}

func (s *Server) readRow(w http.ResponseWriter, r *http.Request) {
	tableID, rowKey := r.PathValue("tableId"), r.PathValue("rowKey")

	row, err := s.store.ReadRow(r.Context(), tableID, rowKey).Await(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if row == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("row %s not found", rowKey))
		return
	}
	writeJSON(w, http.StatusOK, toRowJSON(row))
}

func (s *Server) readRows(w http.ResponseWriter, r *http.Request) {
	var body readRowsRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(body.RowKeys) == 0 {
		writeError(w, http.StatusBadRequest, "rowKeys required")
		return
	}

	rows, err := s.store.ReadRows(r.Context(), r.PathValue("tableId"), body.RowKeys).Await(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	out := rowMapResponse{Rows: make(map[string]rowJSON, len(rows))}
	for key, row := range rows {
		out.Rows[key] = toRowJSON(row)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeValue(w http.ResponseWriter, r *http.Request) {
	var body writeValueRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := s.store.WriteValue(r.Context(), body.TableID, body.RowKey, body.Family, body.Qualifier,
		[]byte(*body.Value)).Await(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("row %s written", body.RowKey),
	})
}

func (s *Server) writeRow(w http.ResponseWriter, r *http.Request) {
	var body writeRowRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mutations, err := body.mutations()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rowKey := r.PathValue("rowKey")
	_, err = s.store.WriteRow(r.Context(), r.PathValue("tableId"), rowKey, mutations).Await(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("applied %d mutations to row %s", len(mutations), rowKey),
	})
}

func (s *Server) deleteRow(w http.ResponseWriter, r *http.Request) {
	rowKey := r.PathValue("rowKey")
	if _, err := s.store.DeleteRow(r.Context(), r.PathValue("tableId"), rowKey).Await(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("row %s deleted", rowKey),
	})
}

func (s *Server) scanRows(w http.ResponseWriter, r *http.Request) {
	f, limit, err := parseScan(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.store.ScanRows(r.Context(), r.PathValue("tableId"), f, limit).Await(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	out := rowsResponse{Rows: make([]rowJSON, 0, len(rows))}
	for _, row := range rows {
		out.Rows = append(out.Rows, toRowJSON(row))
	}
	writeJSON(w, http.StatusOK, out)
}
