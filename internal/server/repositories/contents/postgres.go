package contents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/patronly/patronly/internal/common"
	"github.com/patronly/patronly/internal/dbx"
	"github.com/patronly/patronly/internal/server/models"
)

const contentColumns = `id, user_id, username, title, description, media_key,
	 media_type, cta_buttons, likes, tips_received, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContent(row scanner) (*models.Content, error) {
	content := &models.Content{}
	var buttons []byte
	err := row.Scan(&content.ID, &content.UserID, &content.Username,
		&content.Title, &content.Description, &content.MediaKey,
		&content.MediaType, &buttons, &content.Likes,
		&content.TipsReceived, &content.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(buttons, &content.CTAButtons); err != nil {
		return nil, fmt.Errorf("cta_buttons decode error: %w", err)
	}
	return content, nil
}

func (r *PostgresRepository) Create(ctx context.Context, content *models.Content) (*models.Content, error) {

	buttons := content.CTAButtons
	if buttons == nil {
		buttons = []string{}
	}
	encoded, err := json.Marshal(buttons)
	if err != nil {
		return nil, fmt.Errorf("cta_buttons encode error: %w", err)
	}

	query :=
		`INSERT INTO contents (id, user_id, username, title, description,
		     media_key, media_type, cta_buttons)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		content.ID, content.UserID, content.Username, content.Title,
		content.Description, content.MediaKey, content.MediaType,
		encoded).Scan(&content.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return content, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Content, error) {
	query := fmt.Sprintf(`SELECT %s FROM contents WHERE id = $1`, contentColumns)

	content, err := scanContent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return content, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Content, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListByUsername(ctx context.Context, username string, limit int) ([]*models.Content, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM contents
		 WHERE username = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, contentColumns)

	return r.list(ctx, query, username, limit)
}

func (r *PostgresRepository) ListFeed(ctx context.Context, limit int) ([]*models.Content, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM contents
		 ORDER BY created_at DESC
		 LIMIT $1`, contentColumns)

	return r.list(ctx, query, limit)
}

// AddTips atomically increments tips_received. An unknown content id is a
// no-op, not an error.
func (r *PostgresRepository) AddTips(ctx context.Context, id string, amount float64) error {
	query :=
		`UPDATE contents SET tips_received = tips_received + $2
		 WHERE id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
