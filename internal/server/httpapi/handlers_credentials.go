package httpapi

import (
	"net/http"

	"github.com/sbuga/passvault/internal/server/credentials"
)

func (s *Server) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	filter := credentials.Filter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	records, err := s.credentials.List(r.Context(), claims.AccountID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCreateCredential(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var rec credentials.Record
	if err := decodeJSON(r, &rec); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.credentials.Create(r.Context(), claims.AccountID, &rec)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetCredential(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	rec, err := s.credentials.Get(r.Context(), claims.AccountID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateCredential(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var rec credentials.Record
	if err := decodeJSON(r, &rec); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.credentials.Update(r.Context(), claims.AccountID, r.PathValue("id"), &rec)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCredential(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	if err := s.credentials.Delete(r.Context(), claims.AccountID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
