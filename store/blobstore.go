/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned by Load when one or more collections are missing.
var ErrNotFound = errors.New("store: state not found")

// Blobs is a flat key/value backend. Get reports a miss with ok == false
// and a nil error.
type Blobs interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// BlobStore keeps each collection as one blob named <prefix>/<collection>.
type BlobStore struct {
	blobs  Blobs
	prefix string
}

func NewBlobStore(blobs Blobs, prefix string) *BlobStore {
	if prefix == "" {
		prefix = "fite"
	}
	return &BlobStore{
		blobs:  blobs,
		prefix: prefix,
	}
}

func (bs *BlobStore) key(collection string) string {
	return bs.prefix + "/" + collection
}

// Save writes all three collections concurrently and returns once every
// write has finished.
func (bs *BlobStore) Save(ctx context.Context, snap Snapshot) error {
	payloads := make(map[string][]byte, len(Collections))
	var err error
	if payloads[PlayersCollection], err = encode(PlayersCollection,
		snap.Players); err != nil {
		return err
	}
	if payloads[GamesCollection], err = encode(GamesCollection,
		snap.Games); err != nil {
		return err
	}
	if payloads[GenresCollection], err = encode(GenresCollection,
		snap.Genres); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range Collections {
		key := bs.key(c)
		data := payloads[c]
		g.Go(func() error {
			if err := bs.blobs.Put(gctx, key, data); err != nil {
				return fmt.Errorf("store.save: %v: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("store.save: %v", err)
		return err
	}

	return nil
}

// Load reads all three collections. It returns ErrNotFound if any is
// missing.
func (bs *BlobStore) Load(ctx context.Context) (Snapshot, error) {
	raw, err := bs.readAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	for _, c := range Collections {
		if raw[c] == nil {
			return Snapshot{}, fmt.Errorf("%w: missing %v", ErrNotFound,
				bs.key(c))
		}
	}

	var snap Snapshot
	if err := decode(PlayersCollection, raw[PlayersCollection],
		&snap.Players); err != nil {
		return Snapshot{}, err
	}
	if err := decode(GamesCollection, raw[GamesCollection],
		&snap.Games); err != nil {
		return Snapshot{}, err
	}
	if err := decode(GenresCollection, raw[GenresCollection],
		&snap.Genres); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// Exists reports whether all three collections are present.
func (bs *BlobStore) Exists(ctx context.Context) (bool, error) {
	raw, err := bs.readAll(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range Collections {
		if raw[c] == nil {
			return false, nil
		}
	}
	return true, nil
}

// Clear deletes every collection.
func (bs *BlobStore) Clear(ctx context.Context) error {
	for _, c := range Collections {
		if err := bs.blobs.Delete(ctx, bs.key(c)); err != nil {
			return fmt.Errorf("store.clear: %v: %w", bs.key(c), err)
		}
	}
	return nil
}

// readAll returns the raw blobs by collection; a missing blob is nil.
func (bs *BlobStore) readAll(ctx context.Context) (map[string][]byte, error) {
	results := make([][]byte, len(Collections))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range Collections {
		key := bs.key(c)
		g.Go(func() error {
			data, ok, err := bs.blobs.Get(gctx, key)
			if err != nil {
				return fmt.Errorf("store.load: %v: %w", key, err)
			}
			if ok {
				if data == nil {
					data = []byte{}
				}
				results[i] = data
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("store.load: %v", err)
		return nil, err
	}

	ret := make(map[string][]byte, len(Collections))
	for i, c := range Collections {
		ret[c] = results[i]
	}
	return ret, nil
}
