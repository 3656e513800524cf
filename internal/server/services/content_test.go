package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/patronly/patronly/internal/common"
	"github.com/patronly/patronly/internal/logging"
	"github.com/patronly/patronly/internal/server/models"
)

func newContentFixture(t *testing.T) (*ContentService, *memContentsRepo) {
	t.Helper()
	stubPresignSeams(t)

	db := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	repo := &memContentsRepo{}
	rm := &fakeRepoManager{u: &memUsersRepo{}, c: repo}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewContentService(db, rm, newMediaService(), logger), repo
}

var author = &models.User{ID: "u-1", Username: "alice"}

func TestContentCreate_DefaultsToImage(t *testing.T) {
	svc, _ := newContentFixture(t)

	got, err := svc.Create(context.Background(), author, ContentCreate{
		Title: "hello", MediaKey: "media/2025/3/1/abc", MediaType: "gif",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.MediaType != models.MediaTypeImage {
		t.Fatalf("media type = %q, want %q", got.MediaType, models.MediaTypeImage)
	}
	if got.UserID != "u-1" || got.Username != "alice" {
		t.Fatalf("author not recorded: %+v", got)
	}
	if got.MediaURL != "http://signed/get/media/2025/3/1/abc" {
		t.Fatalf("media url not resolved: %q", got.MediaURL)
	}
}

func TestContentCreate_KeepsVideo(t *testing.T) {
	svc, _ := newContentFixture(t)

	got, err := svc.Create(context.Background(), author, ContentCreate{
		Title: "clip", MediaKey: "media/2025/3/1/abc", MediaType: models.MediaTypeVideo,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.MediaType != models.MediaTypeVideo {
		t.Fatalf("media type = %q, want %q", got.MediaType, models.MediaTypeVideo)
	}
}

func TestContentGetByID_NotFound(t *testing.T) {
	svc, _ := newContentFixture(t)

	_, err := svc.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrContentNotFound) {
		t.Fatalf("want common.ErrContentNotFound, got %v", err)
	}
}

// A presign failure must not fail the read; the item just comes back
// without a media URL.
func TestFeed_PresignFailureIsNotFatal(t *testing.T) {
	svc, repo := newContentFixture(t)
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-fail")
	}
	repo.contents = append(repo.contents, &models.Content{ID: "c-1", Username: "alice", MediaKey: "media/x"})

	got, err := svc.Feed(context.Background(), 0)
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if len(got) != 1 || got[0].MediaURL != "" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultFeedLimit},
		{-5, DefaultFeedLimit},
		{7, 7},
		{MaxFeedLimit, MaxFeedLimit},
		{MaxFeedLimit + 1, MaxFeedLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
