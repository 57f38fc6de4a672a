package httpapi

import (
	"net/http"
	"time"

	"github.com/sbuga/passvault/internal/server/accounts"
)

type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	MasterPassword string `json:"masterPassword"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type authResponse struct {
	Account accountResponse `json:"account"`
	Token   string          `json:"token"`
}

func toAccountResponse(a *accounts.Account) accountResponse {
	return accountResponse{
		ID:              a.ID,
		Email:           a.Email,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		IsEmailVerified: a.IsEmailVerified,
		LastLogin:       a.LastLogin,
		CreatedAt:       a.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.accounts.Register(r.Context(), accounts.RegisterRequest{
		Email:          req.Email,
		Password:       req.Password,
		MasterPassword: req.MasterPassword,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Account: toAccountResponse(res.Account),
		Token:   res.Token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Account: toAccountResponse(res.Account),
		Token:   res.Token,
	})
}

type verifyMasterRequest struct {
	MasterPassword string `json:"masterPassword"`
}

type verifyMasterResponse struct {
	Valid bool `json:"valid"`
}

// handleVerifyMaster checks the caller's per-account master password, the
// second secret required before the client reveals vault contents.
func (s *Server) handleVerifyMaster(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req verifyMasterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	valid, err := s.accounts.VerifyMasterPassword(r.Context(), claims.AccountID, req.MasterPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyMasterResponse{Valid: valid})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	account, err := s.accounts.GetProfile(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}
