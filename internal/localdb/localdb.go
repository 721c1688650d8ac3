// SPDX-License-Identifier: AGPL-3.0-only
package localdb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is the viewer-local durable state: pinned post ids, the saved
// session and the optional app lock. It is a single sqlite file under
// the app data dir.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty store path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) CreatePin(ctx context.Context, viewerID, postID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO pins (viewer_id, post_id, pinned_at) VALUES (?, ?, ?)",
		viewerID, postID, time.Now())
	return err
}

func (s *Store) DeletePin(ctx context.Context, viewerID, postID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM pins WHERE viewer_id = ? AND post_id = ?",
		viewerID, postID)
	return err
}

func (s *Store) HasPin(ctx context.Context, viewerID, postID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM pins WHERE viewer_id = ? AND post_id = ?",
		viewerID, postID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListPins(ctx context.Context, viewerID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT post_id FROM pins WHERE viewer_id = ? ORDER BY pinned_at, post_id",
		viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type Session struct {
	ViewerID       string
	Username       string
	EncryptedToken []byte
	Nonce          []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s *Store) SaveSession(ctx context.Context, sess Session) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, viewer_id, username, encrypted_token, nonce, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			viewer_id = excluded.viewer_id,
			username = excluded.username,
			encrypted_token = excluded.encrypted_token,
			nonce = excluded.nonce,
			updated_at = excluded.updated_at`,
		sess.ViewerID, sess.Username, sess.EncryptedToken, sess.Nonce, now, now)
	return err
}

func (s *Store) GetSession(ctx context.Context) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		"SELECT viewer_id, username, encrypted_token, nonce, created_at, updated_at FROM session WHERE id = 1").
		Scan(&sess.ViewerID, &sess.Username, &sess.EncryptedToken, &sess.Nonce, &sess.CreatedAt, &sess.UpdatedAt)
	return sess, err
}

func (s *Store) DeleteSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE id = 1")
	return err
}

func (s *Store) SetAppLock(ctx context.Context, passphraseHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_lock (id, passphrase_hash, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			passphrase_hash = excluded.passphrase_hash,
			updated_at = excluded.updated_at`,
		passphraseHash, time.Now())
	return err
}

// GetAppLock returns the stored passphrase hash, or "" when no lock is set.
func (s *Store) GetAppLock(ctx context.Context) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, "SELECT passphrase_hash FROM app_lock WHERE id = 1").Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

func (s *Store) DeleteAppLock(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM app_lock WHERE id = 1")
	return err
}
