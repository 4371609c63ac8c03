package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/microloan/backend/internal/domain/partner"
	"github.com/microloan/backend/internal/domain/shared"
)

// ClientService handles client record management
type ClientService struct {
	clientRepo partner.ClientRepository
	logger     *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, logger *zap.Logger) *ClientService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{clientRepo: clientRepo, logger: logger}
}

// CreateClientRequest is a request to register a new client
type CreateClientRequest struct {
	FirstName      string
	LastName       string
	DocumentNumber string
	Phone          string
	Address        string
}

// CreateClient registers a new client. Document numbers are unique.
func (s *ClientService) CreateClient(ctx context.Context, req CreateClientRequest) (*partner.Client, error) {
	existing, err := s.clientRepo.FindByDocumentNumber(ctx, req.DocumentNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check document number: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_DOCUMENT",
			fmt.Sprintf("A client with document %s already exists", req.DocumentNumber))
	}

	client, err := partner.NewClient(req.FirstName, req.LastName, req.DocumentNumber, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to persist client: %w", err)
	}

	s.logger.Info("client registered",
		zap.String("client_id", client.ID.String()),
		zap.String("document", client.DocumentNumber))
	return client, nil
}

// GetClient returns a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return client, nil
}

// ListClients returns clients matching the filter, with the total count
func (s *ClientService) ListClients(ctx context.Context, filter partner.ClientFilter) ([]partner.Client, int64, error) {
	clients, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	total, err := s.clientRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return clients, total, nil
}

// UpdateClientRequest is a request to update a client's details
type UpdateClientRequest struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

// UpdateClient updates the client's personal details
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*partner.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := client.UpdateName(req.FirstName, req.LastName); err != nil {
		return nil, err
	}
	client.UpdateContact(req.Phone, req.Address)

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to persist client: %w", err)
	}
	return client, nil
}

// DeactivateClient marks the client inactive
func (s *ClientService) DeactivateClient(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := client.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to persist client: %w", err)
	}
	return client, nil
}

// ActivateClient restores an inactive client
func (s *ClientService) ActivateClient(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := client.Activate(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to persist client: %w", err)
	}
	return client, nil
}

// DeleteClient soft-deletes a client record
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.SoftDelete(ctx, id)
}
