// Package storage provides an S3-compatible object store for portfolio
// media: project screenshots, blog cover images, and the downloadable
// CV. It wraps the AWS SDK v2 configured for path-style access so it
// works against CEPH, Hetzner, and MinIO as well as AWS proper.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Media kinds determine the key prefix an upload lands under.
const (
	KindImage = "images"
	KindCV    = "cv"
)

// Store wraps an S3 client for media operations. Public objects (images,
// the published CV) live in the public bucket and are served directly;
// the private bucket holds anything reachable only via pre-signed URLs.
type Store struct {
	s3            *s3.Client
	presigner     *s3.PresignClient
	publicBucket  string
	privateBucket string
	endpoint      string
	publicURL     string // optional CDN/direct URL for public files
}

// New creates an S3 media store with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the server
// to start without object storage (media endpoints then return 503).
func New(endpoint, region, accessKey, secretKey, publicBucket, privateBucket, publicURL string) (*Store, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Store{
		s3:            client,
		presigner:     s3.NewPresignClient(client),
		publicBucket:  publicBucket,
		privateBucket: privateBucket,
		endpoint:      endpoint,
		publicURL:     strings.TrimRight(publicURL, "/"),
	}, nil
}

// NewKey builds a collision-free object key for an upload, preserving
// the original extension: e.g. "images/0b26….webp" or "cv/7f3a….pdf".
func NewKey(kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return kind + "/" + uuid.NewString() + ext
}

// UploadPublic stores an object in the public bucket with a public-read
// ACL and returns the URL it is served from.
func (s *Store) UploadPublic(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.publicBucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", s.publicBucket, key, err)
	}
	return s.PublicURL(key), nil
}

// UploadPrivate stores an object in the private bucket. Objects there
// are only reachable through PresignedURL.
func (s *Store) UploadPrivate(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.privateBucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", s.privateBucket, key, err)
	}
	return nil
}

// Delete removes a public object. Deleting a key that does not exist is
// not an error in S3, which suits replace-style media updates.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.publicBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", s.publicBucket, key, err)
	}
	return nil
}

// PublicURL returns the serving URL for a key in the public bucket.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (s *Store) PublicURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return s.endpoint + "/" + s.publicBucket + "/" + key
}

// PresignedURL generates a pre-signed GET URL for a private object,
// valid for the given duration (max 7 days per S3 spec).
func (s *Store) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.privateBucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", s.privateBucket, key, err)
	}
	return req.URL, nil
}

// KeyFromURL extracts the object key from a public media URL. Returns
// ("", false) when the URL was not produced by this store, so callers
// leave externally hosted images alone.
func (s *Store) KeyFromURL(rawURL string) (string, bool) {
	if s.publicURL != "" {
		prefix := s.publicURL + "/"
		if strings.HasPrefix(rawURL, prefix) {
			return rawURL[len(prefix):], true
		}
	}

	prefix := s.endpoint + "/" + s.publicBucket + "/"
	if strings.HasPrefix(rawURL, prefix) {
		return rawURL[len(prefix):], true
	}

	return "", false
}
