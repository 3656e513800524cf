package ledger

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/patronly/patronly/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestAppendEntry_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+ledger_entries\s*\(id,\s*type,\s*from_user_id,\s*to_username,\s*amount,\s*tx_hash,\s*content_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*RETURNING\s+created_at\s*$`

	created := time.Date(2025, 5, 5, 5, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q).
		WithArgs("e-1", models.EventTip, "u-1", "alice", 2.5, "0xaaa", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	entry := &models.LedgerEntry{
		ID: "e-1", Kind: models.EventTip, FromUserID: "u-1",
		ToUsername: "alice", Amount: 2.5, TxHash: "0xaaa",
	}
	if err := repo.AppendEntry(context.Background(), entry); err != nil {
		t.Fatalf("AppendEntry error: %v", err)
	}
	if !entry.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at: %v", entry.CreatedAt)
	}
}

func TestAppendEntry_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+ledger_entries\s*\(`

	mock.ExpectQuery(q).
		WillReturnError(errors.New("db down"))

	err := repo.AppendEntry(context.Background(), &models.LedgerEntry{ID: "e-1", Kind: models.EventTip})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCreateMint_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+mints\s*\(id,\s*content_id,\s*owner_id,\s*creator_username,\s*tx_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at\s*$`

	created := time.Date(2025, 5, 6, 6, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q).
		WithArgs("m-1", "c-1", "u-1", "alice", "0xmint").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	mint := &models.Mint{
		ID: "m-1", ContentID: "c-1", OwnerID: "u-1",
		CreatorUsername: "alice", TxHash: "0xmint",
	}
	got, err := repo.CreateMint(context.Background(), mint)
	if err != nil {
		t.Fatalf("CreateMint error: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at: %v", got.CreatedAt)
	}
}

func TestCreateMint_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+mints\s*\(`

	mock.ExpectQuery(q).
		WillReturnError(errors.New("db down"))

	_, err := repo.CreateMint(context.Background(), &models.Mint{ID: "m-1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
