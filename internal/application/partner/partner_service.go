package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/microloan/backend/internal/domain/partner"
	"github.com/microloan/backend/internal/domain/shared"
)

// PartnerService manages capital partners and their ledgers
type PartnerService struct {
	partnerRepo partner.PartnerRepository
	logger      *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(partnerRepo partner.PartnerRepository, logger *zap.Logger) *PartnerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartnerService{partnerRepo: partnerRepo, logger: logger}
}

// CreatePartner registers a capital partner with an optional opening
// contribution.
func (s *PartnerService) CreatePartner(ctx context.Context, name string, openingCapital decimal.Decimal) (*partner.Partner, error) {
	p, err := partner.NewPartner(name, openingCapital)
	if err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist partner: %w", err)
	}

	s.logger.Info("partner registered",
		zap.String("partner_id", p.ID.String()),
		zap.String("opening_capital", openingCapital.StringFixed(2)))
	return p, nil
}

// GetPartner returns a partner by ID
func (s *PartnerService) GetPartner(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	p, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PARTNER_NOT_FOUND", "Partner not found")
		}
		return nil, fmt.Errorf("failed to load partner: %w", err)
	}
	return p, nil
}

// ListPartners returns all partners
func (s *PartnerService) ListPartners(ctx context.Context) ([]partner.Partner, error) {
	partners, err := s.partnerRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}

// ContributeCapital adds a capital contribution to the partner's ledger
func (s *PartnerService) ContributeCapital(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*partner.Partner, error) {
	return s.applyLedgerChange(ctx, id, func(p *partner.Partner) error {
		return p.ContributeCapital(amount)
	})
}

// Withdraw records a withdrawal from the partner's available balance
func (s *PartnerService) Withdraw(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*partner.Partner, error) {
	return s.applyLedgerChange(ctx, id, func(p *partner.Partner) error {
		return p.Withdraw(amount)
	})
}

// AccrueInterest credits generated interest to the partner's ledger
func (s *PartnerService) AccrueInterest(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*partner.Partner, error) {
	return s.applyLedgerChange(ctx, id, func(p *partner.Partner) error {
		return p.AccrueInterest(amount)
	})
}

// DeletePartner soft-deletes a partner record
func (s *PartnerService) DeletePartner(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPartner(ctx, id); err != nil {
		return err
	}
	return s.partnerRepo.SoftDelete(ctx, id)
}

func (s *PartnerService) applyLedgerChange(ctx context.Context, id uuid.UUID, change func(*partner.Partner) error) (*partner.Partner, error) {
	p, err := s.GetPartner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(p); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
