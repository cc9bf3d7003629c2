/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// CacheBlobs adapts an httpcache.Cache to Blobs. httpcache's Set reports no
// error, so Put reads the value back to confirm it landed.
type CacheBlobs struct {
	cache httpcache.Cache
	name  string
}

// NewMemoryBlobs keeps blobs in process memory. Nothing survives a restart.
func NewMemoryBlobs() *CacheBlobs {
	return &CacheBlobs{cache: httpcache.NewMemoryCache(), name: "memory"}
}

// NewDiskBlobs keeps blobs as files beneath dir.
func NewDiskBlobs(dir string) *CacheBlobs {
	return &CacheBlobs{cache: diskcache.New(dir), name: "disk"}
}

func (cb *CacheBlobs) Get(ctx context.Context, key string) ([]byte, bool,
	error) {

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, ok := cb.cache.Get(key)
	return data, ok, nil
}

func (cb *CacheBlobs) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cb.cache.Set(key, data)

	got, ok := cb.cache.Get(key)
	if !ok || !bytes.Equal(got, data) {
		return fmt.Errorf("store.put: %v cache did not retain %v", cb.name, key)
	}
	return nil
}

func (cb *CacheBlobs) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cb.cache.Delete(key)
	return nil
}
