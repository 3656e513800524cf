package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/patronly/patronly/internal/common"
	"github.com/patronly/patronly/internal/dbx"
	"github.com/patronly/patronly/internal/server/models"
)

// userColumns is the column list shared by every SELECT in this repository.
// Nullable credential columns are coalesced so models keep plain strings.
const userColumns = `id, COALESCE(email, ''), username, display_name, bio,
	 COALESCE(wallet_address, ''), COALESCE(password_hash, ''),
	 profile_image_key, cover_image_key, role, is_approved, kyc_status,
	 subscriber_count, total_tips_received, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.DisplayName,
		&user.Bio, &user.WalletAddress, &user.PasswordHash,
		&user.ProfileImageKey, &user.CoverImageKey, &user.Role,
		&user.IsApproved, &user.KYCStatus, &user.SubscriberCount,
		&user.TotalTipsReceived, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, email, username, display_name, bio, wallet_address,
		     password_hash, role, is_approved, kyc_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, nullable(user.Email), user.Username, user.DisplayName, user.Bio,
		nullable(user.WalletAddress), nullable(user.PasswordHash),
		user.Role, user.IsApproved, user.KYCStatus).Scan(&user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *PostgresRepository) GetByWalletAddress(ctx context.Context, address string) (*models.User, error) {
	return r.getBy(ctx, "wallet_address", address)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error {
	query :=
		`UPDATE users SET
		     display_name = COALESCE($2, display_name),
		     bio = COALESCE($3, bio),
		     wallet_address = COALESCE($4, wallet_address)
		 WHERE id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, id, upd.DisplayName, upd.Bio, upd.WalletAddress)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// SetProfileImage stores the new image key and clears the approval flag:
// a changed image goes back through admin review.
func (r *PostgresRepository) SetProfileImage(ctx context.Context, id, storageKey string) error {
	query :=
		`UPDATE users SET profile_image_key = $2, is_approved = false
		 WHERE id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, id, storageKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	query := `UPDATE users SET is_approved = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, approved)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// AddTips atomically increments total_tips_received. An unknown username is
// a no-op, not an error.
func (r *PostgresRepository) AddTips(ctx context.Context, username string, amount float64) error {
	query :=
		`UPDATE users SET total_tips_received = total_tips_received + $2
		 WHERE username = $1
		 `

	_, err := r.db.ExecContext(ctx, query, username, amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// IncrementSubscriberCount atomically adds 1 to subscriber_count.
func (r *PostgresRepository) IncrementSubscriberCount(ctx context.Context, username string) error {
	query :=
		`UPDATE users SET subscriber_count = subscriber_count + 1
		 WHERE username = $1
		 `

	_, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListPendingApprovals(ctx context.Context, limit int) ([]*models.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users
		 WHERE is_approved = false AND profile_image_key <> ''
		 ORDER BY created_at
		 LIMIT $1`, userColumns)

	return r.list(ctx, query, limit)
}

func (r *PostgresRepository) ListTopCreators(ctx context.Context, limit int) ([]*models.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users
		 WHERE is_approved = true
		 ORDER BY subscriber_count DESC
		 LIMIT $1`, userColumns)

	return r.list(ctx, query, limit)
}
