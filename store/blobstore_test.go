/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func sampleSnapshot() Snapshot {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return Snapshot{
		Players: []PlayerRecord{
			{
				Name: "alice",
				Rankings: []RankingRecord{
					{Game: "street fighter 6", Rating: 1662.3, Deviation: 290.2,
						Volatility: 0.059999, MatchesPlayed: 1},
				},
				Records: []OpponentRecord{
					{Opponent: "bob", Games: []WinLossRecord{
						{Game: "street fighter 6", Wins: 1, RatingDelta: 162.3},
					}},
				},
				Recent: []ResultRecord{
					{Game: "street fighter 6", Opponent: "bob", Victory: true,
						OldRating: 1500, NewRating: 1662.3, Delta: 162.3,
						NewDeviation: 290.2, NewVolatility: 0.059999,
						ResolvedAt: at},
				},
			},
			{
				Name: "bob",
				Rankings: []RankingRecord{
					{Game: "street fighter 6", Rating: 1337.7, Deviation: 290.2,
						Volatility: 0.059999, MatchesPlayed: 1},
				},
			},
		},
		Games: []GameRecord{
			{Title: "street fighter 6", Shorthand: "sf6",
				Genres: []string{"fighting"}, Tau: 0.7},
		},
		Genres: []string{"fighting", "platformer"},
	}
}

type backend struct {
	name  string
	blobs Blobs
}

func backends(t *testing.T) []backend {
	t.Helper()

	ret := []backend{
		{name: "memory", blobs: NewMemoryBlobs()},
		{name: "disk", blobs: NewDiskBlobs(filepath.Join(t.TempDir(), "blobs"))},
	}

	sb, err := OpenSQLiteBlobs(filepath.Join(t.TempDir(), "fite.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sb.Close() })
	ret = append(ret, backend{name: "sqlite", blobs: sb})

	if url := os.Getenv("FITE_TEST_REDIS_URL"); url != "" {
		rb, err := OpenRedisBlobs(context.Background(), url)
		if err != nil {
			t.Logf("skipping redis backend: %v", err)
		} else {
			t.Cleanup(func() { _ = rb.Close() })
			ret = append(ret, backend{name: "redis", blobs: rb})
		}
	}

	return ret
}

func TestBlobStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			bs := NewBlobStore(b.blobs, "test-"+b.name)
			t.Cleanup(func() { _ = bs.Clear(ctx) })

			ok, err := bs.Exists(ctx)
			if err != nil {
				t.Fatalf("exists failed: %v", err)
			}
			if ok {
				t.Fatalf("fresh store should not exist")
			}
			if _, err := bs.Load(ctx); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound from empty store, got %v", err)
			}

			want := sampleSnapshot()
			if err := bs.Save(ctx, want); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			ok, err = bs.Exists(ctx)
			if err != nil || !ok {
				t.Fatalf("exists after save = %v, %v", ok, err)
			}

			got, err := bs.Load(ctx)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("load mismatch:\n got: %+v\nwant: %+v", got, want)
			}

			if err := bs.Clear(ctx); err != nil {
				t.Fatalf("clear failed: %v", err)
			}
			ok, _ = bs.Exists(ctx)
			if ok {
				t.Fatalf("store still exists after clear")
			}
		})
	}
}

func TestBlobStorePartialState(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	bs := NewBlobStore(blobs, "")

	if err := bs.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := blobs.Delete(ctx, "fite/"+GenresCollection); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	ok, err := bs.Exists(ctx)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if ok {
		t.Errorf("partial state must not count as existing")
	}
	if _, err := bs.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBlobStoreRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	bs := NewBlobStore(blobs, "")

	if err := bs.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	future := []byte(`{"schema":99,"collection":"games","data":[]}`)
	if err := blobs.Put(ctx, "fite/"+GamesCollection, future); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if _, err := bs.Load(ctx); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestDecodeWrongCollection(t *testing.T) {
	raw, err := encode(GamesCollection, []GameRecord{})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	var players []PlayerRecord
	if err := decode(PlayersCollection, raw, &players); !errors.Is(err,
		ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestBlobStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bs := NewBlobStore(NewMemoryBlobs(), "")
	if err := bs.Save(ctx, sampleSnapshot()); err == nil {
		t.Fatalf("expected save to fail with a canceled context")
	}
}
