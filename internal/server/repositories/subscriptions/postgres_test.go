package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/patronly/patronly/internal/common"
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

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+subscriptions\s*\(id,\s*subscriber_id,\s*creator_username\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+created_at\s*$`

	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"created_at"}).AddRow(created)
	mock.ExpectQuery(q).
		WithArgs("s-1", "u-1", "alice").
		WillReturnRows(rows)

	sub := &models.Subscription{ID: "s-1", SubscriberID: "u-1", CreatorUsername: "alice"}
	got, err := repo.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at: %v", got.CreatedAt)
	}
}

func TestCreate_AlreadySubscribed(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+subscriptions\s*\(`

	mock.ExpectQuery(q).
		WithArgs("s-1", "u-1", "alice").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "subscriptions_pair_key"})

	_, err := repo.Create(context.Background(), &models.Subscription{ID: "s-1", SubscriberID: "u-1", CreatorUsername: "alice"})
	if !errors.Is(err, common.ErrAlreadySubscribed) {
		t.Fatalf("want common.ErrAlreadySubscribed, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(\s*SELECT\s+1\s+FROM\s+subscriptions\s+WHERE\s+subscriber_id\s*=\s*\$1\s+AND\s+creator_username\s*=\s*\$2\s*\)\s*$`

	mock.ExpectQuery(q).
		WithArgs("u-1", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "u-1", "alice")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !exists {
		t.Fatalf("expected exists = true")
	}
}

func TestExists_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS`

	mock.ExpectQuery(q).
		WithArgs("u-1", "alice").
		WillReturnError(errors.New("db down"))

	_, err := repo.Exists(context.Background(), "u-1", "alice")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListBySubscriber(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*subscriber_id,\s*creator_username,\s*created_at\s+FROM\s+subscriptions\s+WHERE\s+subscriber_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

	rows := sqlmock.NewRows([]string{"id", "subscriber_id", "creator_username", "created_at"}).
		AddRow("s-2", "u-1", "bob", time.Now()).
		AddRow("s-1", "u-1", "alice", time.Now().Add(-time.Hour))
	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.ListBySubscriber(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListBySubscriber error: %v", err)
	}
	if len(got) != 2 || got[0].CreatorUsername != "bob" || got[1].CreatorUsername != "alice" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestListBySubscriber_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*subscriber_id,\s*creator_username`

	mock.ExpectQuery(q).
		WithArgs("u-9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "subscriber_id", "creator_username", "created_at"}))

	got, err := repo.ListBySubscriber(context.Background(), "u-9")
	if err != nil {
		t.Fatalf("ListBySubscriber error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}
