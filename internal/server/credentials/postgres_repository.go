package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/dbx"
)

// PostgresRepository implements credential storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const recordColumns = `id, owner_id, service_name, service_url, username, email,
       password_enc, category, is_pinned, two_factor_secret_enc, notes,
       created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, rec *Record) (*Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := `
		INSERT INTO credentials (id, owner_id, service_name, service_url, username, email,
		                         password_enc, category, is_pinned, two_factor_secret_enc, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.OwnerID, rec.ServiceName, rec.ServiceURL, rec.Username, rec.Email,
		rec.Password, rec.Category, rec.IsPinned, nullable(rec.TwoFactorSecret), nullable(rec.Notes),
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM credentials WHERE id = $1 AND owner_id = $2`
	return scanRecord(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// ListByOwner returns the owner's records, pinned first, newest first.
// Category matches exactly; search matches service name, username or email
// case-insensitively.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, filter Filter) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM credentials WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (service_name ILIKE $%d OR username ILIKE $%d OR email ILIKE $%d)", n, n, n)
	}
	query += " ORDER BY is_pinned DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return records, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rec *Record) (*Record, error) {
	query := `
		UPDATE credentials
		SET service_name = $3, service_url = $4, username = $5, email = $6,
		    password_enc = $7, category = $8, is_pinned = $9,
		    two_factor_secret_enc = $10, notes = $11, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.OwnerID, rec.ServiceName, rec.ServiceURL, rec.Username, rec.Email,
		rec.Password, rec.Category, rec.IsPinned, nullable(rec.TwoFactorSecret), nullable(rec.Notes),
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	rec := &Record{}
	var twoFactor, notes sql.NullString

	err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.ServiceName, &rec.ServiceURL, &rec.Username, &rec.Email,
		&rec.Password, &rec.Category, &rec.IsPinned, &twoFactor, &notes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	rec.TwoFactorSecret = twoFactor.String
	rec.Notes = notes.String
	return rec, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
