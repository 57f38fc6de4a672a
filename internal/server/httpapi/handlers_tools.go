package httpapi

import (
	"fmt"
	"net/http"

	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/passgen"
)

type strengthRequest struct {
	Password string `json:"password"`
}

type strengthResponse struct {
	Score    int              `json:"score"`
	Estimate passgen.Estimate `json:"estimate"`
}

type generateRequest struct {
	Length         int  `json:"length"`
	IncludeSpecial bool `json:"includeSpecial"`
}

type generateResponse struct {
	Password string `json:"password"`
	Score    int    `json:"score"`
}

const maxGeneratedLength = 256

func (s *Server) handleStrength(w http.ResponseWriter, r *http.Request) {
	var req strengthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, strengthResponse{
		Score:    passgen.Score(req.Password),
		Estimate: passgen.EstimateStrength(req.Password),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Length <= 0 || req.Length > maxGeneratedLength {
		writeError(w, fmt.Errorf("%w: length must be between 1 and %d", common.ErrValidation, maxGeneratedLength))
		return
	}

	password, err := passgen.Generate(req.Length, req.IncludeSpecial)
	if err != nil {
		writeError(w, common.ErrInternal)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Password: password,
		Score:    passgen.Score(password),
	})
}
