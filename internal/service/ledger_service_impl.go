package service

import (
	"context"

	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/mbeckers/fabplan/internal/repository"
)

type ledgerService struct {
	ledger repository.LedgerRepo
}

// NewLedgerService exposes a read-only view of the material/WIP
// ledger. Writes happen only through the node save pipeline.
func NewLedgerService(ledger repository.LedgerRepo) LedgerService {
	return &ledgerService{ledger: ledger}
}

func (s *ledgerService) Get(ctx context.Context, semiCode string) (*domain.LedgerEntry, error) {
	return s.ledger.Get(ctx, semiCode)
}

func (s *ledgerService) List(ctx context.Context) ([]*domain.LedgerEntry, error) {
	return s.ledger.List(ctx)
}
