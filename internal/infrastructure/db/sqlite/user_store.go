// Package sqlite implements the user store over a single SQLite table using
// the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	display_name  TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	is_admin      INTEGER NOT NULL DEFAULT 0,
	is_active     INTEGER NOT NULL DEFAULT 1,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);
`

const userColumns = "id, display_name, email, username, password_hash, is_admin, is_active, created_at, updated_at"

// Open opens (or creates) the database file and ensures the schema exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single writer keeps "database is locked" errors away under the
	// concurrent bootstrap path.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// UserStore is the SQLite-backed ports.UserStore.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return s.scanOne(s.db.QueryRowContext(ctx, query, username))
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.Identity, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return s.scanOne(s.db.QueryRowContext(ctx, query, email))
}

func (s *UserStore) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	query := `INSERT INTO users (display_name, email, username, password_hash, is_admin, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		identity.DisplayName, identity.Email, identity.Username, identity.PasswordDigest,
		identity.IsAdmin, identity.IsActive, identity.CreatedAt, identity.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.FindByID(ctx, id)
}

func (s *UserStore) Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	query := `UPDATE users
			SET display_name = ?, email = ?, username = ?, password_hash = ?, is_admin = ?, is_active = ?, updated_at = ?
			WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query,
		identity.DisplayName, identity.Email, identity.Username, identity.PasswordDigest,
		identity.IsAdmin, identity.IsActive, identity.UpdatedAt, identity.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return s.FindByID(ctx, identity.ID)
}

// Deactivate soft-deletes: rows never leave the table.
func (s *UserStore) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE users SET is_active = 0, updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) ListActive(ctx context.Context) ([]domain.Identity, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = 1 ORDER BY username`
	return s.scanAll(ctx, query)
}

func (s *UserStore) ListAdmins(ctx context.Context) ([]domain.Identity, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_admin = 1 AND is_active = 1 ORDER BY username`
	return s.scanAll(ctx, query)
}

func (s *UserStore) scanOne(row *sql.Row) (*domain.Identity, error) {
	var u domain.Identity
	err := row.Scan(&u.ID, &u.DisplayName, &u.Email, &u.Username, &u.PasswordDigest,
		&u.IsAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) scanAll(ctx context.Context, query string) ([]domain.Identity, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var result []domain.Identity
	for rows.Next() {
		var u domain.Identity
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.Email, &u.Username, &u.PasswordDigest,
			&u.IsAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
