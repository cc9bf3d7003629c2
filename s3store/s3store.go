/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 *
 * Package s3store keeps fite state blobs in Amazon S3. It grew out of
 * github.com/sourcegraph/s3cache but reports every failure to the caller,
 * since a lost save must surface as a persistence failure.
 */
package s3store

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Blobs stores and retrieves blobs using Amazon S3.
type Blobs struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client used when interacting with S3. Init sets it
	// from the default Config, but callers may substitute their own.
	Client *s3.Client

	bucketName string

	// objects live beneath this key prefix
	prefix string

	// gzip indicates whether blobs are gzipped on Put and gunzipped on Get.
	// If true, object keys carry a ".gz" suffix.
	gzip bool
}

// New returns Blobs backed by the named bucket. Callers must invoke Init
// before use.
func New(bucketName string, prefix string, gzip bool) *Blobs {
	return &Blobs{
		bucketName: bucketName,
		prefix:     prefix,
		gzip:       gzip,
	}
}

// Init loads the default AWS configuration:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
// and checks that the bucket is reachable and listable.
func (b *Blobs) Init(ctx context.Context) error {
	var err error
	b.Config, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("s3store.init: failed to load AWS config: %w", err)
	}
	b.Client = s3.NewFromConfig(b.Config)

	if _, err = b.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucketName),
	}); err != nil {
		return fmt.Errorf("s3store.init: head bucket failed for %s: %w",
			b.bucketName, err)
	}

	if _, err = b.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.bucketName),
		Prefix:  aws.String(b.prefix),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3store.init: list objects failed for %s: %w",
			b.bucketName, err)
	}

	return nil
}

func (b *Blobs) Get(ctx context.Context, key string) ([]byte, bool, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(b.objectKey(key)),
	}

	resp, err := b.Client.GetObject(ctx, input)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("s3store.get: failed to get object %v/%v: %w",
			*input.Bucket, *input.Key, err)
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if b.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			return nil, false, fmt.Errorf("s3store.get: failed to open compressed object %v/%v: %w",
				*input.Bucket, *input.Key, err)
		}
		defer rdr.Close()
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, false, fmt.Errorf("s3store.get: failed to read object %v/%v: %w",
			*input.Bucket, *input.Key, err)
	}

	return data, true, nil
}

func (b *Blobs) Put(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(b.bucketName),
		Key:         aws.String(b.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}

	if b.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("s3store.put: failed to gzip data for %v/%v: %w",
				*input.Bucket, *input.Key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("s3store.put: failed to close gzip writer for %v/%v: %w",
				*input.Bucket, *input.Key, err)
		}
		input.Body = bytes.NewReader(buf.Bytes())
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := b.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3store.put: put failed for %v/%v: %w", *input.Bucket,
			*input.Key, err)
	}

	return nil
}

func (b *Blobs) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(b.objectKey(key)),
	}

	if _, err := b.Client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("s3store.delete: delete failed for %v/%v: %w",
			*input.Bucket, *input.Key, err)
	}

	return nil
}

func (b *Blobs) objectKey(key string) string {
	objKey := path.Join(b.prefix, key) + ".json"
	if b.gzip {
		objKey += ".gz"
	}

	return objKey
}

// isNotFound reports whether err is S3's way of saying the key is absent.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
