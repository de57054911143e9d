// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/logger"
)

// objectAPI is the part of *s3.Client used by the photo store.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3PhotoStore struct {
	client objectAPI
	bucket string
	logger *logger.Logger
}

// NewS3PhotoStore connects to an S3 compatible object store. A non-empty
// endpoint selects MinIO-style path addressing.
func NewS3PhotoStore(ctx context.Context, cfg config.S3, log *logger.Logger) (PhotoStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().Str("bucket", cfg.Bucket).Str("endpoint", cfg.Endpoint).Msg("using s3 photo store")

	return newS3PhotoStore(client, cfg.Bucket, log), nil
}

func newS3PhotoStore(client objectAPI, bucket string, log *logger.Logger) *s3PhotoStore {
	return &s3PhotoStore{client: client, bucket: bucket, logger: log}
}

func (s *s3PhotoStore) Put(ctx context.Context, ownerID, hash string, data []byte) (string, error) {
	key := photoKey(ownerID, hash)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/octet-stream"),
	})
	if err != nil {
		s.logger.Err(err).Str("func", "s3PhotoStore.Put").Str("key", key).Msg("put object failed")
		return "", fmt.Errorf("put photo %s: %w", key, err)
	}

	return key, nil
}

func (s *s3PhotoStore) Get(ctx context.Context, ownerID, hash string) ([]byte, error) {
	key := photoKey(ownerID, hash)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("get photo %s: %w", key, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}
