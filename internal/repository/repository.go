// Package repository persists the agency's client history. Two stores
// implement the same interface: SQLite for the default local mode and
// Postgres for the shared remote table.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/comfythings/visaflow/internal/entity"
)

// ClientRepository is the history store the service depends on.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	Get(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	// List returns the full history, newest first.
	List(ctx context.Context) ([]*entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}
