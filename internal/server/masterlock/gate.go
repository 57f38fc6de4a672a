// Package masterlock implements the local vault gate: a fixed-salt digest
// checked before the vault UI opens. It is a speed bump in front of the
// vault, not a second encryption layer; absence of a configured digest
// always reads as "needs setup", never as "open".
package masterlock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/cryptox"
	"github.com/sbuga/passvault/internal/logging"
)

// Status of the gate as reported to clients.
type Status string

const (
	StatusConfigured Status = "configured"
	StatusNeedsSetup Status = "needs_setup"
)

// MinLength is the minimum master-lock passphrase length at setup.
const MinLength = 8

// State is a digest + salt pair under the fixed-salt policy.
type State struct {
	Digest string
	Salt   string
}

// Gate holds the current lock state. A configuration override wins over
// runtime setup; runtime setup is kept in memory only and lost on restart.
type Gate struct {
	mu                    sync.RWMutex
	state                 *State
	fromConfig            bool
	allowInsecureFallback bool
	logger                logging.Logger
}

// NewGate builds the gate. override carries the digest/salt pair from
// configuration when both values are set; allowInsecureFallback enables the
// demo mode that accepts any non-empty input while no state exists. The
// fallback is announced at startup so it cannot be enabled unnoticed.
func NewGate(override *State, allowInsecureFallback bool, logger logging.Logger) *Gate {
	g := &Gate{
		allowInsecureFallback: allowInsecureFallback,
		logger:                logger.With("module", "masterlock"),
	}
	if override != nil && override.Digest != "" && override.Salt != "" {
		g.state = &State{Digest: override.Digest, Salt: override.Salt}
		g.fromConfig = true
	}
	if allowInsecureFallback {
		g.logger.Warn(context.Background(),
			"insecure master-lock fallback is enabled: any non-empty passphrase unlocks while no digest is configured")
	}
	return g
}

// Status reports whether a digest is configured. Clients use this to decide
// between the setup and unlock flows.
func (g *Gate) Status() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state != nil {
		return StatusConfigured
	}
	return StatusNeedsSetup
}

// IsConfigured reports whether any state (config or runtime) is present.
func (g *Gate) IsConfigured() bool {
	return g.Status() == StatusConfigured
}

// Setup installs a new passphrase. It refuses to overwrite a digest that
// came from configuration; runtime re-setup replaces the previous runtime
// state.
func (g *Gate) Setup(plaintext string) error {
	if len(strings.TrimSpace(plaintext)) < MinLength {
		return fmt.Errorf("%w: master passphrase must be at least %d characters long", common.ErrValidation, MinLength)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fromConfig {
		return fmt.Errorf("%w: master lock is fixed by configuration", common.ErrValidation)
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return common.ErrInternal
	}
	g.state = &State{
		Digest: cryptox.DigestWithSalt(plaintext, salt),
		Salt:   salt,
	}
	g.logger.Info(context.Background(), "master lock configured")
	return nil
}

// Unlock checks a passphrase attempt. With no state configured it fails
// unless the insecure fallback is enabled, in which case any non-empty
// input passes and each acceptance is logged.
func (g *Gate) Unlock(ctx context.Context, plaintext string) bool {
	g.mu.RLock()
	state := g.state
	g.mu.RUnlock()

	if state == nil {
		if g.allowInsecureFallback && plaintext != "" {
			g.logger.Warn(ctx, "master lock opened via insecure fallback")
			return true
		}
		return false
	}

	return cryptox.VerifyDigest(plaintext, state.Digest, state.Salt)
}
