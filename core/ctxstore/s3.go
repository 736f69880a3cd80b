package ctxstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/asimov-run/asimov/core/servicectx"
)

// s3Client is the subset of the AWS SDK S3 client S3Store exercises,
// narrowed for testability the same way integration/storage/s3 narrows it.
type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store persists snapshots as JSON objects in an S3 bucket, one object
// per channel ID under keyPrefix. S3 has no native per-object TTL; Save
// records the deadline inside the stored JSON and Load enforces it.
type S3Store struct {
	client    s3Client
	bucket    string
	keyPrefix string
}

type s3Envelope struct {
	Snapshot  servicectx.Snapshot `json:"snapshot"`
	ExpiresAt *time.Time          `json:"expiresAt,omitempty"`
}

// NewS3Store wraps an existing S3 client and bucket.
func NewS3Store(client s3Client, bucket, keyPrefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, keyPrefix: keyPrefix}
}

func (s *S3Store) key(channelID string) string {
	return s.keyPrefix + channelID + ".json"
}

func (s *S3Store) Save(ctx context.Context, channelID string, snap servicectx.Snapshot, ttl time.Duration) error {
	env := s3Envelope{Snapshot: snap}
	if ttl > 0 {
		t := time.Now().Add(ttl)
		env.ExpiresAt = &t
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("ctxstore: marshaling snapshot: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(channelID)),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("ctxstore: saving snapshot: %w", err)
	}
	return nil
}

func (s *S3Store) Load(ctx context.Context, channelID string) (servicectx.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(channelID)),
	})
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return servicectx.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return servicectx.Snapshot{}, fmt.Errorf("ctxstore: loading snapshot: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return servicectx.Snapshot{}, fmt.Errorf("ctxstore: reading snapshot: %w", err)
	}

	var env s3Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return servicectx.Snapshot{}, fmt.Errorf("ctxstore: decoding snapshot: %w", err)
	}
	if env.ExpiresAt != nil && env.ExpiresAt.Before(time.Now()) {
		_ = s.Delete(ctx, channelID)
		return servicectx.Snapshot{}, ErrNotFound
	}
	return env.Snapshot, nil
}

func (s *S3Store) Delete(ctx context.Context, channelID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(channelID)),
	})
	if err != nil {
		return fmt.Errorf("ctxstore: deleting snapshot: %w", err)
	}
	return nil
}
