package ledger

import (
	"context"

	"github.com/patronly/patronly/internal/server/models"
)

// Repository is the append-only event log. Entries and mints are written
// once and never updated or deleted.
type Repository interface {
	AppendEntry(ctx context.Context, entry *models.LedgerEntry) error
	CreateMint(ctx context.Context, mint *models.Mint) (*models.Mint, error)
}
