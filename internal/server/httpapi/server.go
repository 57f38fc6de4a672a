// Package httpapi exposes the vault over HTTP/JSON: authentication,
// credential CRUD, the master-lock gate, password tooling and backups.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/sbuga/passvault/internal/logging"
	"github.com/sbuga/passvault/internal/server/accounts"
	"github.com/sbuga/passvault/internal/server/backup"
	"github.com/sbuga/passvault/internal/server/credentials"
	"github.com/sbuga/passvault/internal/server/masterlock"
)

// AccountService is the slice of the accounts API the handlers need.
type AccountService interface {
	Register(ctx context.Context, req accounts.RegisterRequest) (*accounts.AuthResult, error)
	Login(ctx context.Context, email, password string) (*accounts.AuthResult, error)
	GetProfile(ctx context.Context, accountID string) (*accounts.Account, error)
	VerifyMasterPassword(ctx context.Context, accountID, plaintext string) (bool, error)
}

// CredentialService is the slice of the credentials API the handlers need.
type CredentialService interface {
	Create(ctx context.Context, ownerID string, rec *credentials.Record) (*credentials.Record, error)
	Get(ctx context.Context, ownerID, id string) (*credentials.Record, error)
	List(ctx context.Context, ownerID string, filter credentials.Filter) ([]*credentials.Record, error)
	Update(ctx context.Context, ownerID, id string, rec *credentials.Record) (*credentials.Record, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// BackupService snapshots and lists vault backups.
type BackupService interface {
	Snapshot(ctx context.Context, ownerID string) (*backup.Snapshot, error)
	List(ctx context.Context, ownerID string) ([]string, error)
}

type Server struct {
	address     string
	logger      logging.Logger
	accounts    AccountService
	credentials CredentialService
	lock        *masterlock.Gate
	backups     BackupService
	jwtSecret   []byte
}

func NewServer(address string, logger logging.Logger,
	as AccountService, cs CredentialService, gate *masterlock.Gate,
	bs BackupService, jwtSecret []byte) *Server {
	return &Server{
		address:     address,
		logger:      logger.With("module", "http_server"),
		accounts:    as,
		credentials: cs,
		lock:        gate,
		backups:     bs,
		jwtSecret:   jwtSecret,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.authenticated(s.handleProfile))
	mux.HandleFunc("POST /api/auth/verify-master", s.authenticated(s.handleVerifyMaster))

	mux.HandleFunc("GET /api/credentials", s.authenticated(s.handleListCredentials))
	mux.HandleFunc("POST /api/credentials", s.authenticated(s.handleCreateCredential))
	mux.HandleFunc("GET /api/credentials/{id}", s.authenticated(s.handleGetCredential))
	mux.HandleFunc("PUT /api/credentials/{id}", s.authenticated(s.handleUpdateCredential))
	mux.HandleFunc("DELETE /api/credentials/{id}", s.authenticated(s.handleDeleteCredential))

	mux.HandleFunc("GET /api/masterlock", s.handleMasterLockStatus)
	mux.HandleFunc("POST /api/masterlock/setup", s.authenticated(s.handleMasterLockSetup))
	mux.HandleFunc("POST /api/masterlock/unlock", s.authenticated(s.handleMasterLockUnlock))

	mux.HandleFunc("POST /api/tools/strength", s.handleStrength)
	mux.HandleFunc("POST /api/tools/generate", s.handleGenerate)

	mux.HandleFunc("POST /api/backup", s.authenticated(s.handleSnapshot))
	mux.HandleFunc("GET /api/backup", s.authenticated(s.handleListSnapshots))

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
