package credstore

import (
	"context"
	"database/sql"
	"strings"
)

// schema contains the DDL for the credential tables.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS credentials (
		server      TEXT PRIMARY KEY,
		token       TEXT NOT NULL,
		type        TEXT NOT NULL DEFAULT 'Bearer',
		user_id     INTEGER NOT NULL,
		username    TEXT NOT NULL DEFAULT '',
		first_name  TEXT NOT NULL DEFAULT '',
		last_name   TEXT NOT NULL DEFAULT '',
		admin       INTEGER NOT NULL DEFAULT 0,
		saved_at    TEXT NOT NULL
	)`,
}

// alterStatements are additive column migrations for databases created
// before the column existed.
var alterStatements = []struct {
	table    string
	column   string
	alterSQL string
}{
	{
		table:    "credentials",
		column:   "expires_at",
		alterSQL: "ALTER TABLE credentials ADD COLUMN expires_at TEXT NOT NULL DEFAULT ''",
	},
}

// migrate executes all schema DDL statements and alter migrations.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, alter := range alterStatements {
		if err := addColumnIfNotExists(ctx, db, alter.table, alter.column, alter.alterSQL); err != nil {
			return err
		}
	}
	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(ctx context.Context, db *sql.DB, table, column, alterSQL string) error {
	exists, err := columnExists(ctx, db, table, column)
	if err != nil || exists {
		return err
	}
	_, err = db.ExecContext(ctx, alterSQL)
	return err
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue *string
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}
