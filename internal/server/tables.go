package server

import (
	"fmt"
	"net/http"
)

type tablesResponse struct {
	Tables []string `json:"tables"`
}

type tableResponse struct {
	TableID string `json:"tableId"`
	Exists  bool   `json:"exists"`
}

func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.store.ListTables(r.Context()).Await(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, http.StatusOK, tablesResponse{Tables: tables})
}

func (s *Server) createTable(w http.ResponseWriter, r *http.Request) {
	var body createTableRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := s.store.CreateTable(r.Context(), body.TableID, body.Families).Await(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{
		Message: fmt.Sprintf("table %s created", body.TableID),
	})
}

func (s *Server) tableExists(w http.ResponseWriter, r *http.Request) {
	tableID := r.PathValue("tableId")
	exists, err := s.store.TableExists(r.Context(), tableID).Await(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, fmt.Sprintf("table %s not found", tableID))
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{TableID: tableID, Exists: true})
}

func (s *Server) deleteTable(w http.ResponseWriter, r *http.Request) {
	tableID := r.PathValue("tableId")
	if _, err := s.store.DeleteTable(r.Context(), tableID).Await(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("table %s deleted", tableID),
	})
}
