package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comfythings/visaflow/internal/common"
	"github.com/comfythings/visaflow/internal/entity"
)

// Applied statement by statement: pgx's extended protocol rejects
// multi-statement strings.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
	id              UUID PRIMARY KEY,
	full_name       TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL DEFAULT '',
	passport_number TEXT NOT NULL DEFAULT '',
	visa_number     TEXT NOT NULL DEFAULT '',
	birth_date      TEXT NOT NULL DEFAULT '',
	document_type   TEXT NOT NULL,
	photo           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_created_at ON clients (created_at)`,
}

// PoolConfig carries the pgx pool knobs for the remote history table.
type PoolConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// OpenPool creates a pgx pool for the remote history table.
func OpenPool(ctx context.Context, cfg PoolConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to history database")

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse history DSN", "error", err)
		return nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "visaflow"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to history database", "error", err)
		return nil, err
	}

	logger.Info("connected to history database")
	return pool, nil
}

// HealthCheck pings the pool, bounded by timeout when positive.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return pool.Ping(ctx)
}

// Migrate applies the history schema to the remote table.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply history schema: %w", err)
		}
	}
	return nil
}

// PostgresRepository is the remote history store.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{pool: pool, logger: logger}
}

func (r *PostgresRepository) Create(ctx context.Context, c *entity.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (id, full_name, email, passport_number, visa_number, birth_date, document_type, photo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.FullName, c.Email, c.PassportNumber, c.VisaNumber, c.BirthDate,
		c.DocumentType, c.Photo, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to insert client", "id", c.ID, "error", err)
		return common.NewAppError("DATABASE_ERROR", "insert client", common.ErrDatabase)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	var c entity.Client
	err := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, passport_number, visa_number, birth_date, document_type, photo, created_at, updated_at
		FROM clients WHERE id = $1`, id).
		Scan(&c.ID, &c.FullName, &c.Email, &c.PassportNumber, &c.VisaNumber,
			&c.BirthDate, &c.DocumentType, &c.Photo, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("client %s not found", id), common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get client", "id", id, "error", err)
		return nil, common.NewAppError("DATABASE_ERROR", "get client", common.ErrDatabase)
	}
	return &c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, email, passport_number, visa_number, birth_date, document_type, photo, created_at, updated_at
		FROM clients ORDER BY created_at DESC, id`)
	if err != nil {
		r.logger.Error("failed to list clients", "error", err)
		return nil, common.NewAppError("DATABASE_ERROR", "list clients", common.ErrDatabase)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.PassportNumber, &c.VisaNumber,
			&c.BirthDate, &c.DocumentType, &c.Photo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, common.NewAppError("DATABASE_ERROR", "scan client", common.ErrDatabase)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DATABASE_ERROR", "iterate clients", common.ErrDatabase)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *entity.Client) error {
	c.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `
		UPDATE clients
		SET full_name = $1, email = $2, passport_number = $3, visa_number = $4, birth_date = $5, document_type = $6, photo = $7, updated_at = $8
		WHERE id = $9`,
		c.FullName, c.Email, c.PassportNumber, c.VisaNumber, c.BirthDate,
		c.DocumentType, c.Photo, c.UpdatedAt, c.ID)
	if err != nil {
		r.logger.Error("failed to update client", "id", c.ID, "error", err)
		return common.NewAppError("DATABASE_ERROR", "update client", common.ErrDatabase)
	}
	if tag.RowsAffected() == 0 {
		return common.NewAppError("NOT_FOUND", fmt.Sprintf("client %s not found", c.ID), common.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete client", "id", id, "error", err)
		return common.NewAppError("DATABASE_ERROR", "delete client", common.ErrDatabase)
	}
	if tag.RowsAffected() == 0 {
		return common.NewAppError("NOT_FOUND", fmt.Sprintf("client %s not found", id), common.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
