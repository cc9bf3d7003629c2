/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mikeb26/fitebot/fite"
	"github.com/mikeb26/fitebot/store"
)

func newEngine(t *testing.T) *fite.Engine {
	t.Helper()

	engine, err := fite.New(fite.DefaultConfig(),
		store.NewBlobStore(store.NewMemoryBlobs(), ""))
	if err != nil {
		t.Fatalf("fite.New failed: %v", err)
	}
	return engine
}

func TestParseCatalog(t *testing.T) {
	text := `
# comment
fighting
Street Fighter 6 | SF6 | fighting,  platformer
Chess | CHS
`
	genres, games, err := parseCatalog(text)
	if err != nil {
		t.Fatalf("parseCatalog failed: %v", err)
	}
	if len(genres) != 1 || genres[0] != "fighting" {
		t.Errorf("unexpected genres: %v", genres)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %v", len(games))
	}
	if games[0].shorthand != "SF6" || len(games[0].genres) != 2 ||
		games[0].genres[1] != "platformer" {
		t.Errorf("unexpected first game: %+v", games[0])
	}
	if len(games[1].genres) != 0 {
		t.Errorf("expected untagged second game, got %+v", games[1])
	}

	_, _, err = parseCatalog("a | b | c | d")
	if err == nil {
		t.Error("expected error for too many fields")
	}
}

func TestSeedBuiltinCatalog(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)

	report, err := seedCatalog(ctx, engine, catalogText)
	if err != nil {
		t.Fatalf("seedCatalog failed: %v", err)
	}
	for _, line := range report {
		if strings.HasPrefix(line, "skipped") {
			t.Errorf("fresh seed should not skip anything: %v", line)
		}
	}

	genres, games, _ := parseCatalog(catalogText)
	if got := len(engine.Games()); got != len(games) {
		t.Errorf("expected %v games, got %v", len(games), got)
	}
	if got := len(engine.Genres()); got != len(genres) {
		t.Errorf("expected %v genres, got %v", len(genres), got)
	}
	ssbu, err := engine.GetGame("ssbu")
	if err != nil {
		t.Fatalf("GetGame(ssbu) failed: %v", err)
	}
	if !ssbu.HasGenre("fighting") || !ssbu.HasGenre("platformer") {
		t.Errorf("unexpected ssbu genres: %v", ssbu.Genres)
	}

	// seeding again changes nothing
	report, err = seedCatalog(ctx, engine, catalogText)
	if err != nil {
		t.Fatalf("second seedCatalog failed: %v", err)
	}
	for _, line := range report {
		if strings.HasPrefix(line, "added") {
			t.Errorf("reseed should only skip: %v", line)
		}
	}
}

func TestSeedSkipsBadTag(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)

	report, err := seedCatalog(ctx, engine, "Tetris | TET | puzzle\n")
	if err != nil {
		t.Fatalf("seedCatalog failed: %v", err)
	}
	if len(report) != 2 || !strings.HasPrefix(report[1], "skipped tag puzzle") {
		t.Errorf("unexpected report: %v", report)
	}
	if _, err := engine.GetGame("tetris"); err != nil {
		t.Errorf("game should still be added: %v", err)
	}
}

func TestHistoryLines(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)
	if _, err := engine.AddGame(ctx, "Tekken 8", "T8"); err != nil {
		t.Fatalf("AddGame failed: %v", err)
	}
	for _, name := range []string{"alice", "bob"} {
		if _, err := engine.AddPlayer(ctx, name); err != nil {
			t.Fatalf("AddPlayer(%v) failed: %v", name, err)
		}
	}

	start := time.Now()
	if _, err := engine.CreateChallenge(ctx, "alice", "bob", "t8"); err != nil {
		t.Fatalf("CreateChallenge failed: %v", err)
	}
	if _, err := engine.AcceptChallenge(ctx, "bob"); err != nil {
		t.Fatalf("AcceptChallenge failed: %v", err)
	}
	if _, err := engine.ReportLoss(ctx, "alice"); err != nil {
		t.Fatalf("ReportLoss failed: %v", err)
	}

	lines := historyLines(engine.Players(), start.Add(-time.Minute))
	if len(lines) != 1 {
		t.Fatalf("expected one line per match, got %v", lines)
	}
	if !strings.Contains(lines[0], "bob beat alice in tekken 8") {
		t.Errorf("unexpected line: %v", lines[0])
	}

	lines = historyLines(engine.Players(), start.Add(time.Hour))
	if len(lines) != 0 {
		t.Errorf("expected nothing after the cutoff, got %v", lines)
	}
}
