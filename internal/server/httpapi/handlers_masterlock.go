package httpapi

import (
	"net/http"
)

type masterLockStatusResponse struct {
	Status string `json:"status"`
}

type masterLockRequest struct {
	Passphrase string `json:"passphrase"`
}

type masterLockUnlockResponse struct {
	Unlocked bool `json:"unlocked"`
}

func (s *Server) handleMasterLockStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, masterLockStatusResponse{Status: string(s.lock.Status())})
}

func (s *Server) handleMasterLockSetup(w http.ResponseWriter, r *http.Request) {
	var req masterLockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.lock.Setup(req.Passphrase); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, masterLockStatusResponse{Status: string(s.lock.Status())})
}

func (s *Server) handleMasterLockUnlock(w http.ResponseWriter, r *http.Request) {
	var req masterLockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, masterLockUnlockResponse{
		Unlocked: s.lock.Unlock(r.Context(), req.Passphrase),
	})
}
