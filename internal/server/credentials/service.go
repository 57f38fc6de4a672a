package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/logging"
)

// Service is the owner-facing credential API. It seals records on the way
// into the repository and opens them on the way out; plaintext secrets only
// ever exist transiently inside a request.
type Service struct {
	repo   Repository
	codec  *Codec
	logger logging.Logger
}

func NewService(repo Repository, codec *Codec, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		codec:  codec,
		logger: logger.With("module", "credentials"),
	}
}

// Create seals and stores a new record for the owner, then echoes it back
// with the plaintext restored so the caller sees what it just saved.
func (s *Service) Create(ctx context.Context, ownerID string, rec *Record) (*Record, error) {
	rec.OwnerID = ownerID
	rec.ID = ""

	plainPassword := rec.Password
	plainTwoFactor := rec.TwoFactorSecret

	if err := s.codec.Seal(rec); err != nil {
		return nil, err
	}

	rec, err := s.repo.Create(ctx, rec)
	if err != nil {
		s.logger.Error(ctx, "credential create failed", "error", err.Error())
		return nil, common.ErrInternal
	}

	rec.Password = plainPassword
	rec.TwoFactorSecret = plainTwoFactor
	s.logger.Info(ctx, "credential created", "credential_id", rec.ID)
	return rec, nil
}

// Get fetches and decrypts one record for its owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	if err := s.codec.Open(rec); err != nil {
		s.logger.Error(ctx, "credential decrypt failed", "credential_id", rec.ID, "error", err.Error())
		return nil, fmt.Errorf("record %s: %w", rec.ID, common.ErrDecryption)
	}
	return rec, nil
}

// List returns the owner's decrypted records, pinned first, newest first.
// A single undecryptable record fails the whole listing rather than
// silently dropping it.
func (s *Service) List(ctx context.Context, ownerID string, filter Filter) ([]*Record, error) {
	records, err := s.repo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, common.ErrInternal
	}
	for _, rec := range records {
		if err := s.codec.Open(rec); err != nil {
			s.logger.Error(ctx, "credential decrypt failed", "credential_id", rec.ID, "error", err.Error())
			return nil, fmt.Errorf("record %s: %w", rec.ID, common.ErrDecryption)
		}
	}
	return records, nil
}

// ListSealed returns the owner's records still encrypted, for consumers
// that must never see plaintext (backups).
func (s *Service) ListSealed(ctx context.Context, ownerID string) ([]*Record, error) {
	records, err := s.repo.ListByOwner(ctx, ownerID, Filter{})
	if err != nil {
		return nil, common.ErrInternal
	}
	return records, nil
}

// Update replaces a record's contents. The incoming record carries
// plaintext secrets and is fully re-sealed; partial updates are not
// supported, last write wins.
func (s *Service) Update(ctx context.Context, ownerID, id string, rec *Record) (*Record, error) {
	rec.ID = id
	rec.OwnerID = ownerID

	plainPassword := rec.Password
	plainTwoFactor := rec.TwoFactorSecret

	if err := s.codec.Seal(rec); err != nil {
		return nil, err
	}

	rec, err := s.repo.Update(ctx, rec)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}

	rec.Password = plainPassword
	rec.TwoFactorSecret = plainTwoFactor
	return rec, nil
}

// Delete removes a record for its owner.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return common.ErrInternal
	}
	s.logger.Info(ctx, "credential deleted", "credential_id", id)
	return nil
}
