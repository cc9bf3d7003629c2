/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Store != BackendDisk || cfg.StorePrefix != "fite" {
		t.Errorf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.GenreCap != 3 || cfg.RecentMatchWindow != 10 ||
		cfg.DefaultTau != 0.7 || cfg.DefaultRating != 1500 ||
		cfg.DefaultDeviation != 350 || cfg.DefaultVolatility != 0.06 ||
		cfg.ConvergenceTolerance != 0.000001 || cfg.MaxIterations != 100 ||
		cfg.ExpectationForm != "source" {
		t.Errorf("engine defaults do not match fite.DefaultConfig: %+v",
			cfg.Config)
	}
	if !cfg.S3Gzip || cfg.S3Bucket != DefaultS3Bucket {
		t.Errorf("unexpected s3 defaults: %+v", cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FITE_STORE", "memory")
	t.Setenv("FITE_GENRE_CAP", "5")
	t.Setenv("FITE_EXPECTATION_FORM", "logistic")
	t.Setenv("FITE_RECENT_MATCHES", "4")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Store != BackendMemory || cfg.GenreCap != 5 ||
		cfg.ExpectationForm != "logistic" || cfg.RecentMatchWindow != 4 {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FITE_STORE", "floppy")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestOpenEngineSQLite(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FITE_STORE", "sqlite")
	t.Setenv("FITE_SQLITE_PATH", filepath.Join(t.TempDir(), "fite.db"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	ctx := context.Background()
	engine, closer, err := OpenEngine(ctx, cfg)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := engine.AddGame(ctx, "Tekken 8", "t8"); err != nil {
		t.Fatalf("add game: %v", err)
	}
	if _, err := engine.AddPlayer(ctx, "alice"); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if err := closer(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, closer, err := OpenEngine(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer closer()
	alice, err := reopened.GetPlayer("alice")
	if err != nil {
		t.Fatalf("alice not persisted: %v", err)
	}
	if _, ok := alice.Ranking("tekken 8"); !ok {
		t.Fatalf("ranking not persisted: %+v", alice)
	}
}

func TestOpenEngineDisk(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FITE_STORE", "disk")
	t.Setenv("FITE_DISK_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	ctx := context.Background()
	engine, _, err := OpenEngine(ctx, cfg)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := engine.AddGenre(ctx, "fighting"); err != nil {
		t.Fatalf("add genre: %v", err)
	}

	reopened, _, err := OpenEngine(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if g := reopened.Genres(); len(g) != 1 || g[0] != "fighting" {
		t.Fatalf("genres not persisted: %v", g)
	}
}

func TestParseSince(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		in   string
		want time.Time
	}{
		{in: "", want: time.Time{}},
		{in: "null", want: time.Time{}},
		{in: "72h", want: now.Add(-72 * time.Hour)},
		{in: "7d", want: now.AddDate(0, 0, -7)},
		{in: "2025-07-01", want: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseSince(c.in, now)
		if err != nil {
			t.Errorf("ParseSince(%q): %v", c.in, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseSince(%q) = %v; want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseSince("not a date", now); err == nil {
		t.Errorf("expected error for garbage input")
	}
}
