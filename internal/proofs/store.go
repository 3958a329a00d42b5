// Package proofs stores uploaded payment-proof images in S3. The core keeps
// only the returned URL on the order.
package proofs

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/rohanbasnet/shopcore/internal/aws"
)

// Store uploads proof artifacts to a bucket.
type Store struct {
	client aws.S3API
	bucket string
	newID  func() string
}

// NewStore returns a Store bound to a bucket.
func NewStore(client aws.S3API, bucket string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		newID:  uuid.NewString,
	}
}

// Save uploads one proof image and returns its retrievable URL. Objects are
// keyed under the order id so resubmissions never overwrite earlier proofs.
func (s *Store) Save(ctx context.Context, orderID string, body io.Reader, contentType string) (string, error) {
	key := fmt.Sprintf("payment-proofs/%s/%s", orderID, s.newID())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put proof object: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}
