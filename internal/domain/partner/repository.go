package partner

import (
	"context"

	"github.com/google/uuid"
)

// ClientFilter defines filter criteria for client queries
type ClientFilter struct {
	Status   *ClientStatus
	Search   string // matches name or document number
	Page     int
	PageSize int
}

// ClientRepository defines persistence for clients. Lookups that miss
// return shared.ErrNotFound, never (nil, nil).
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByDocumentNumber(ctx context.Context, documentNumber string) (*Client, error)
	FindAll(ctx context.Context, filter ClientFilter) ([]Client, error)
	Count(ctx context.Context, filter ClientFilter) (int64, error)
	Create(ctx context.Context, client *Client) error
	Save(ctx context.Context, client *Client) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// PartnerRepository defines persistence for capital partners. FindByID
// returns shared.ErrNotFound on a miss.
type PartnerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)
	FindAll(ctx context.Context) ([]Partner, error)
	Create(ctx context.Context, partner *Partner) error
	// Save persists ledger changes with an optimistic version check.
	Save(ctx context.Context, partner *Partner) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
