// Package storage is the object-store client. Objects are keyed
// <uuid>.<ext> and served from a public bucket URL.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/placepix/placepix/internal/config"
)

// s3API is the slice of the S3 client the bucket needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Bucket struct {
	client     s3API
	bucket     string
	publicHost string
}

// NewBucket wraps an S3 client for a single bucket.
func NewBucket(client *s3.Client, cfg config.S3Config) *Bucket {
	return &Bucket{
		client:     client,
		bucket:     cfg.Bucket,
		publicHost: cfg.PublicHost,
	}
}

// Key derives the storage key for an image from its identity and detected
// extension.
func Key(imageUUID, ext string) string {
	return fmt.Sprintf("%s.%s", imageUUID, ext)
}

// KeyFromURL recovers the storage key from a stored public address: the
// trailing path segment.
func KeyFromURL(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return path.Base(imageURL)
	}
	return path.Base(parsed.Path)
}

// Put uploads the payload under key and returns its public address. Errors
// from the store are propagated untouched in meaning: a failed put aborts
// the caller's operation.
func (b *Bucket) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put object bucket=%s key=%s: %w", b.bucket, key, err)
	}
	return fmt.Sprintf("https://%s/%s/%s", b.publicHost, b.bucket, key), nil
}

// Delete removes the object under key. It reports false without error when
// the key does not exist, true on successful removal, and an error only on
// transport failure.
func (b *Bucket) Delete(ctx context.Context, key string) (bool, error) {
	// DeleteObject alone succeeds silently on absent keys, so probe first.
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("head object bucket=%s key=%s: %w", b.bucket, key, err)
	}

	if _, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return false, fmt.Errorf("delete object bucket=%s key=%s: %w", b.bucket, key, err)
	}
	return true, nil
}
