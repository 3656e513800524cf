package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/patronly/patronly/internal/server/config"
)

func newMediaService() *MediaService {
	return NewMediaService(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "media",
	})
}

func stubPresignSeams(t *testing.T) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://signed/put/" + *in.Key}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://signed/get/" + *in.Key}, nil
	}
}

func TestGetRandomStorageKey(t *testing.T) {
	key := GetRandomStorageKey()
	if !strings.HasPrefix(key, "media/") {
		t.Fatalf("key %q must live under media/", key)
	}
	if len(strings.Split(key, "/")) != 5 {
		t.Fatalf("key %q must be media/year/month/day/uuid", key)
	}
	if key == GetRandomStorageKey() {
		t.Fatalf("keys must be unique")
	}
}

func TestGetPresignedPutUrl(t *testing.T) {
	stubPresignSeams(t)
	svc := newMediaService()

	key, url, err := svc.GetPresignedPutUrl(context.Background())
	if err != nil {
		t.Fatalf("GetPresignedPutUrl error: %v", err)
	}
	if !strings.HasPrefix(key, "media/") {
		t.Fatalf("unexpected key %q", key)
	}
	if url != "http://signed/put/"+key {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestGetPresignedGetUrl(t *testing.T) {
	stubPresignSeams(t)
	svc := newMediaService()

	url, err := svc.GetPresignedGetUrl(context.Background(), "media/2025/3/1/abc")
	if err != nil {
		t.Fatalf("GetPresignedGetUrl error: %v", err)
	}
	if url != "http://signed/get/media/2025/3/1/abc" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestGetPresignedPutUrl_ConfigError(t *testing.T) {
	stubPresignSeams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	svc := newMediaService()

	_, _, err := svc.GetPresignedPutUrl(context.Background())
	if err == nil || !strings.Contains(err.Error(), "load-fail") {
		t.Fatalf("expected config load error, got %v", err)
	}
}

func TestGetPresignedGetUrl_PresignError(t *testing.T) {
	stubPresignSeams(t)
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-fail")
	}
	svc := newMediaService()

	_, err := svc.GetPresignedGetUrl(context.Background(), "media/2025/3/1/abc")
	if err == nil || !strings.Contains(err.Error(), "presign-fail") {
		t.Fatalf("expected presign error, got %v", err)
	}
}
