package subscriptions

import (
	"context"
	"fmt"

	"github.com/patronly/patronly/internal/common"
	"github.com/patronly/patronly/internal/dbx"
	"github.com/patronly/patronly/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the subscriber↔creator pair. The unique constraint on the
// pair is the real guard against double subscription; a violation surfaces
// as common.ErrAlreadySubscribed.
func (r *PostgresRepository) Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {

	query :=
		`INSERT INTO subscriptions (id, subscriber_id, creator_username)
		 VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		sub.ID, sub.SubscriberID, sub.CreatorUsername).Scan(&sub.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return sub, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, subscriberID, creatorUsername string) (bool, error) {
	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM subscriptions
		     WHERE subscriber_id = $1 AND creator_username = $2
		 )`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, subscriberID, creatorUsername).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) ListBySubscriber(ctx context.Context, subscriberID string) ([]*models.Subscription, error) {
	query :=
		`SELECT id, subscriber_id, creator_username, created_at
		 FROM subscriptions
		 WHERE subscriber_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Subscription
	for rows.Next() {
		sub := &models.Subscription{}
		err := rows.Scan(&sub.ID, &sub.SubscriberID, &sub.CreatorUsername, &sub.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
