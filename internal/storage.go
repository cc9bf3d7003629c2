/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"log"

	"github.com/mikeb26/fitebot/fite"
	"github.com/mikeb26/fitebot/s3store"
	"github.com/mikeb26/fitebot/store"
)

// OpenBlobs returns the configured blob backend and a function releasing
// it.
func OpenBlobs(ctx context.Context, cfg Config) (store.Blobs, func() error,
	error) {

	noop := func() error { return nil }

	switch cfg.Store {
	case BackendMemory:
		log.Printf("internal.openblobs: using in-memory storage; state will not survive a restart")
		return store.NewMemoryBlobs(), noop, nil
	case BackendDisk:
		return store.NewDiskBlobs(cfg.DiskDir), noop, nil
	case BackendSQLite:
		sb, err := store.OpenSQLiteBlobs(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sb, sb.Close, nil
	case BackendRedis:
		rb, err := store.OpenRedisBlobs(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rb, rb.Close, nil
	case BackendS3:
		sb := s3store.New(cfg.S3Bucket, cfg.StorePrefix, cfg.S3Gzip)
		if err := sb.Init(ctx); err != nil {
			return nil, nil, err
		}
		return sb, noop, nil
	}

	return nil, nil, fmt.Errorf("internal.openblobs: unknown backend %q",
		cfg.Store)
}

// OpenEngine opens the configured backend and loads the engine from it.
func OpenEngine(ctx context.Context, cfg Config) (*fite.Engine, func() error,
	error) {

	blobs, closer, err := OpenBlobs(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	bs := store.NewBlobStore(blobs, cfg.StorePrefix)

	engine, err := fite.Open(ctx, cfg.Config, bs)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	log.Printf("internal.openengine: opened %v store", cfg.Store)

	return engine, closer, nil
}
