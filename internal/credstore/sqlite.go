package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/me/yogastudio/internal/auth"
	"github.com/me/yogastudio/internal/logging"
	"github.com/me/yogastudio/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logging.OrDiscard(logger).With("component", "credstore"),
		now:    time.Now,
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates the credentials table and adds any missing columns.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// Save upserts the credential for server. The token expiry is read from the
// JWT claims when the token decodes; an opaque token is stored without one.
func (s *SQLiteStore) Save(ctx context.Context, server string, info *model.SessionInformation) error {
	if info == nil {
		return errors.New("save credential: nil session information")
	}
	s.logger.Debug("sql", "op", "upsert", "table", "credentials", "server", server, "user_id", info.ID)

	var expiresAt string
	if claims, err := auth.InspectToken(info.Token); err == nil && !claims.ExpiresAt.IsZero() {
		expiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (server, token, type, user_id, username, first_name, last_name, admin, saved_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(server) DO UPDATE SET
		   token = excluded.token, type = excluded.type, user_id = excluded.user_id,
		   username = excluded.username, first_name = excluded.first_name, last_name = excluded.last_name,
		   admin = excluded.admin, saved_at = excluded.saved_at, expires_at = excluded.expires_at`,
		server, info.Token, info.TokenType(), info.ID, info.Username, info.FirstName, info.LastName,
		boolToInt(info.Admin), s.now().UTC().Format(time.RFC3339Nano), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("save credential for %s: %w", server, err)
	}
	return nil
}

// Load returns the credential for server, or nil if none is saved.
func (s *SQLiteStore) Load(ctx context.Context, server string) (*Credential, error) {
	s.logger.Debug("sql", "op", "select", "table", "credentials", "server", server)

	row := s.db.QueryRowContext(ctx,
		`SELECT server, token, type, user_id, username, first_name, last_name, admin, saved_at, expires_at
		 FROM credentials WHERE server = ?`, server)
	cred, err := scanCredential(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credential for %s: %w", server, err)
	}
	return cred, nil
}

// Delete removes the credential for server. Deleting a missing row is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, server string) error {
	s.logger.Debug("sql", "op", "delete", "table", "credentials", "server", server)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE server = ?`, server); err != nil {
		return fmt.Errorf("delete credential for %s: %w", server, err)
	}
	return nil
}

// List returns every saved credential ordered by server.
func (s *SQLiteStore) List(ctx context.Context) ([]*Credential, error) {
	s.logger.Debug("sql", "op", "select", "table", "credentials")

	rows, err := s.db.QueryContext(ctx,
		`SELECT server, token, type, user_id, username, first_name, last_name, admin, saved_at, expires_at
		 FROM credentials`)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var creds []*Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("list credentials: %w", err)
		}
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	sort.Slice(creds, func(i, j int) bool { return creds[i].Server < creds[j].Server })
	return creds, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCredential(sc scanner) (*Credential, error) {
	var cred Credential
	var admin int
	var savedAt, expiresAt string
	err := sc.Scan(&cred.Server, &cred.Info.Token, &cred.Info.Type, &cred.Info.ID,
		&cred.Info.Username, &cred.Info.FirstName, &cred.Info.LastName, &admin, &savedAt, &expiresAt)
	if err != nil {
		return nil, err
	}
	cred.Info.Admin = admin != 0
	if cred.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return nil, fmt.Errorf("parse saved_at: %w", err)
	}
	if expiresAt != "" {
		if cred.ExpiresAt, err = time.Parse(time.RFC3339Nano, expiresAt); err != nil {
			return nil, fmt.Errorf("parse expires_at: %w", err)
		}
	}
	return &cred, nil
}

// Expired reports whether the saved token's expiry has passed.
func (c *Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
