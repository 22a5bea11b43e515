// Package storage uploads ad images to Cloudflare R2.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/miramar-experience/api-go/config"
)

var ErrNotConfigured = errors.New("object storage is not configured")

// ObjectAPI is the subset of the S3 client the store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Upload struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type ImageStore struct {
	client    ObjectAPI
	bucket    string
	publicURL string
	policy    Policy
	now       func() time.Time
}

func NewImageStore(client ObjectAPI, bucket, publicURL string, policy Policy) *ImageStore {
	return &ImageStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		policy:    policy,
		now:       time.Now,
	}
}

// NewR2ImageStore builds a store against the account's R2 endpoint. It
// returns ErrNotConfigured when credentials are missing.
func NewR2ImageStore(cfg *config.R2Config) (*ImageStore, error) {
	if cfg == nil || !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region: cfg.Region,
	})
	return NewImageStore(client, cfg.BucketName, cfg.PublicURL, DefaultPolicy()), nil
}

func (s *ImageStore) Policy() Policy { return s.policy }

// Put validates the image and stores it under a fresh key. Nothing is sent to
// storage when the policy rejects the file.
func (s *ImageStore) Put(ctx context.Context, declaredType string, size int64, body io.Reader) (*Upload, error) {
	if size > 0 {
		if err := s.policy.CheckSize(size); err != nil {
			return nil, err
		}
	}
	data, err := io.ReadAll(io.LimitReader(body, s.policy.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	detected, err := s.policy.Check(declaredType, data)
	if err != nil {
		return nil, err
	}

	key := s.key(detected.Extension())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(detected.String()),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &Upload{
		Key:         key,
		URL:         s.URL(key),
		ContentType: detected.String(),
		Size:        int64(len(data)),
	}, nil
}

func (s *ImageStore) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(key, "/")
	if !strings.HasPrefix(key, "ads/") {
		return &PolicyError{Reason: "key is outside the ad images prefix"}
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *ImageStore) URL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

func (s *ImageStore) key(ext string) string {
	now := s.now().UTC()
	return fmt.Sprintf("ads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String(), ext)
}
