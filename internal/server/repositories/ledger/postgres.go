package ledger

import (
	"context"
	"fmt"

	"github.com/patronly/patronly/internal/dbx"
	"github.com/patronly/patronly/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AppendEntry(ctx context.Context, entry *models.LedgerEntry) error {

	query :=
		`INSERT INTO ledger_entries (id, type, from_user_id, to_username,
		     amount, tx_hash, content_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.Kind, entry.FromUserID, entry.ToUsername,
		entry.Amount, entry.TxHash, entry.ContentID).Scan(&entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CreateMint(ctx context.Context, mint *models.Mint) (*models.Mint, error) {

	query :=
		`INSERT INTO mints (id, content_id, owner_id, creator_username, tx_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		mint.ID, mint.ContentID, mint.OwnerID, mint.CreatorUsername,
		mint.TxHash).Scan(&mint.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return mint, nil
}
