/* Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

const defaultTestBucket = "fitebot-prod-state"

func testBucket() string {
	if b := os.Getenv("FITE_S3_BUCKET"); b != "" {
		return b
	}
	return defaultTestBucket
}

func testBlobs(t *testing.T, gzip bool) *Blobs {
	t.Helper()

	ctx := context.Background()
	prefix := fmt.Sprintf("test/%v", time.Now().UnixNano())
	blobs := New(testBucket(), prefix, gzip)
	err := blobs.Init(ctx)
	if err != nil {
		t.Skip(fmt.Sprintf("Skipping test due to lack of access to %v: %v",
			testBucket(), err))
	}

	return blobs
}

func exerciseBlobs(t *testing.T, blobs *Blobs) {
	ctx := context.Background()
	key := "players"

	if _, ok, err := blobs.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected a miss before put: ok:%v err:%v", ok, err)
	}

	want := []byte(`{"schema":1,"collection":"players","data":[]}`)
	if err := blobs.Put(ctx, key, want); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, ok, err := blobs.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get after put: ok:%v err:%v", ok, err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("retrieved %q; want %q", got, want)
	}

	if err := blobs.Delete(ctx, key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, err := blobs.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected a miss after delete: ok:%v err:%v", ok, err)
	}
}

func TestS3Blobs(t *testing.T) {
	exerciseBlobs(t, testBlobs(t, false))
}

func TestS3BlobsWithGzip(t *testing.T) {
	exerciseBlobs(t, testBlobs(t, true))
}

func TestObjectKey(t *testing.T) {
	plain := New("bucket", "fite", false)
	if k := plain.objectKey("fite/games"); k != "fite/fite/games.json" {
		t.Errorf("objectKey = %v", k)
	}
	zipped := New("bucket", "", true)
	if k := zipped.objectKey("fite/games"); k != "fite/games.json.gz" {
		t.Errorf("objectKey = %v", k)
	}
}
