package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/comfythings/visaflow/internal/common"
	"github.com/comfythings/visaflow/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS clients (
	id              TEXT PRIMARY KEY,
	full_name       TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL DEFAULT '',
	passport_number TEXT NOT NULL DEFAULT '',
	visa_number     TEXT NOT NULL DEFAULT '',
	birth_date      TEXT NOT NULL DEFAULT '',
	document_type   TEXT NOT NULL,
	photo           TEXT NOT NULL DEFAULT '',
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_clients_created_at ON clients (created_at);
`

// SQLiteRepository is the default local history store.
type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the history database at path and
// applies the schema. Use ":memory:" for an ephemeral store.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening history database", "path", path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.NewAppError("DATABASE_ERROR", fmt.Sprintf("open sqlite: %v", err), common.ErrDatabase)
	}
	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db, logger)
		return nil, common.NewAppError("DATABASE_ERROR", fmt.Sprintf("ping sqlite: %v", err), common.ErrDatabase)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		closeQuietly(db, logger)
		return nil, common.NewAppError("DATABASE_ERROR", fmt.Sprintf("migrate sqlite: %v", err), common.ErrDatabase)
	}

	logger.Info("history database ready", "path", path)
	return &SQLiteRepository{db: db, logger: logger}, nil
}

func closeQuietly(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}

func (r *SQLiteRepository) Create(ctx context.Context, c *entity.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (id, full_name, email, passport_number, visa_number, birth_date, document_type, photo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.FullName, c.Email, c.PassportNumber, c.VisaNumber, c.BirthDate,
		c.DocumentType, c.Photo, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		r.logger.Error("failed to insert client", "id", c.ID, "error", err)
		return common.NewAppError("DATABASE_ERROR", "insert client", common.ErrDatabase)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, passport_number, visa_number, birth_date, document_type, photo, created_at, updated_at
		FROM clients WHERE id = ?`, id.String())
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("client %s not found", id), common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get client", "id", id, "error", err)
		return nil, common.NewAppError("DATABASE_ERROR", "get client", common.ErrDatabase)
	}
	return c, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, email, passport_number, visa_number, birth_date, document_type, photo, created_at, updated_at
		FROM clients ORDER BY created_at DESC, id`)
	if err != nil {
		r.logger.Error("failed to list clients", "error", err)
		return nil, common.NewAppError("DATABASE_ERROR", "list clients", common.ErrDatabase)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, common.NewAppError("DATABASE_ERROR", "scan client", common.ErrDatabase)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DATABASE_ERROR", "iterate clients", common.ErrDatabase)
	}
	return out, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, c *entity.Client) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients
		SET full_name = ?, email = ?, passport_number = ?, visa_number = ?, birth_date = ?, document_type = ?, photo = ?, updated_at = ?
		WHERE id = ?`,
		c.FullName, c.Email, c.PassportNumber, c.VisaNumber, c.BirthDate,
		c.DocumentType, c.Photo, formatTime(c.UpdatedAt), c.ID.String())
	if err != nil {
		r.logger.Error("failed to update client", "id", c.ID, "error", err)
		return common.NewAppError("DATABASE_ERROR", "update client", common.ErrDatabase)
	}
	return requireRow(res, c.ID)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id.String())
	if err != nil {
		r.logger.Error("failed to delete client", "id", id, "error", err)
		return common.NewAppError("DATABASE_ERROR", "delete client", common.ErrDatabase)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func requireRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return common.NewAppError("DATABASE_ERROR", "rows affected", common.ErrDatabase)
	}
	if n == 0 {
		return common.NewAppError("NOT_FOUND", fmt.Sprintf("client %s not found", id), common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*entity.Client, error) {
	var c entity.Client
	var id, createdAt, updatedAt string
	if err := row.Scan(&id, &c.FullName, &c.Email, &c.PassportNumber, &c.VisaNumber,
		&c.BirthDate, &c.DocumentType, &c.Photo, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	c.ID = parsed
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Timestamps are stored as fixed-width RFC 3339 text so lexical
// ordering matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
