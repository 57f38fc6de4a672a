package httpapi

import (
	"net/http"
)

type snapshotListResponse struct {
	Keys []string `json:"keys"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	snap, err := s.backups.Snapshot(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	keys, err := s.backups.List(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshotListResponse{Keys: keys})
}
