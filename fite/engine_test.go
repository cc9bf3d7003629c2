/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mikeb26/fitebot/store"
)

var errInjected = errors.New("injected save failure")

// flakyStore wraps an in-memory BlobStore and fails Save on demand.
type flakyStore struct {
	mu    sync.Mutex
	inner *store.BlobStore
	fail  bool
	saves int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{inner: store.NewBlobStore(store.NewMemoryBlobs(), "")}
}

func (fs *flakyStore) setFail(fail bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.fail = fail
}

func (fs *flakyStore) Save(ctx context.Context, snap store.Snapshot) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.fail {
		return errInjected
	}
	fs.saves++
	return fs.inner.Save(ctx, snap)
}

func (fs *flakyStore) Load(ctx context.Context) (store.Snapshot, error) {
	return fs.inner.Load(ctx)
}

func (fs *flakyStore) Exists(ctx context.Context) (bool, error) {
	return fs.inner.Exists(ctx)
}

var testTime = time.Date(2025, 7, 4, 18, 30, 0, 0, time.UTC)

func newTestEngine(t *testing.T, cfg Config) (*Engine, *flakyStore) {
	t.Helper()

	fs := newFlakyStore()
	e, err := New(cfg, fs)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	e.now = func() time.Time { return testTime }
	seq := 0
	e.newID = func() MatchID {
		seq++
		return MatchID(fmt.Sprintf("match-%v", seq))
	}

	return e, fs
}

// seedEngine registers alice and bob and adds one game.
func seedEngine(t *testing.T, cfg Config) (*Engine, *flakyStore) {
	t.Helper()

	e, fs := newTestEngine(t, cfg)
	ctx := context.Background()
	if _, err := e.AddGame(ctx, "Street Fighter 6", "SF6"); err != nil {
		t.Fatalf("failed to add game: %v", err)
	}
	for _, n := range []string{"alice", "bob"} {
		if _, err := e.AddPlayer(ctx, n); err != nil {
			t.Fatalf("failed to add %v: %v", n, err)
		}
	}
	checkInvariants(t, e)

	return e, fs
}

func logisticConfig() Config {
	cfg := DefaultConfig()
	cfg.ExpectationForm = "logistic"
	return cfg
}

func expectCode(t *testing.T, err error, want Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error but got none", want)
	}
	if got := CodeOf(err); got != want {
		t.Fatalf("expected %v error but got %v (%v)", want, got, err)
	}
}

// checkInvariants verifies the engine's structural invariants.
func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()

	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.st

	for name, p := range s.players {
		if name != p.Name {
			t.Errorf("player keyed %q has name %q", name, p.Name)
		}
		if p.InMatch() {
			m, ok := s.matches[p.CurrentMatch]
			if !ok {
				t.Errorf("%v references missing match %v", name, p.CurrentMatch)
			} else if !m.Involves(name) {
				t.Errorf("%v references match %v it is not part of", name, m.ID)
			}
		}
		if len(p.Rankings) != len(s.games) {
			t.Errorf("%v has %v rankings for %v games", name, len(p.Rankings),
				len(s.games))
		}
		for title := range s.games {
			if _, ok := p.Rankings[title]; !ok {
				t.Errorf("%v missing ranking for %v", name, title)
			}
		}
		if len(p.Recent) > e.cfg.RecentMatchWindow {
			t.Errorf("%v has %v recent results, window is %v", name,
				len(p.Recent), e.cfg.RecentMatchWindow)
		}
	}

	for id, m := range s.matches {
		if id != m.ID {
			t.Errorf("match keyed %v has id %v", id, m.ID)
		}
		for _, n := range []string{m.Initiator, m.Challenged} {
			p, ok := s.players[n]
			if !ok {
				t.Errorf("match %v references unregistered %v", id, n)
			} else if p.CurrentMatch != id {
				t.Errorf("match %v not referenced by %v", id, n)
			}
		}
		if _, ok := s.games[m.Game]; !ok {
			t.Errorf("match %v references unknown game %v", id, m.Game)
		}
		if m.PendingVictor != "" && m.State != Active {
			t.Errorf("match %v has pending victor while %v", id, m.State)
		}
	}

	for title, g := range s.games {
		if len(g.Genres) > e.cfg.GenreCap {
			t.Errorf("%v has %v genres", title, len(g.Genres))
		}
		seen := make(map[string]bool)
		for _, genre := range g.Genres {
			if seen[genre] {
				t.Errorf("%v has duplicate genre %v", title, genre)
			}
			seen[genre] = true
			if !containsString(s.genres, genre) {
				t.Errorf("%v has genre %v outside the vocabulary", title, genre)
			}
		}
		if s.shorthands[g.Shorthand] != title {
			t.Errorf("shorthand %v does not index %v", g.Shorthand, title)
		}
	}
	if len(s.shorthands) != len(s.games) {
		t.Errorf("%v shorthands for %v games", len(s.shorthands), len(s.games))
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GenreCap = 0
	if _, err := New(cfg, newFlakyStore()); err == nil {
		t.Errorf("expected error for zero genre cap")
	}

	cfg = DefaultConfig()
	cfg.ExpectationForm = "bogus"
	if _, err := New(cfg, newFlakyStore()); err == nil {
		t.Errorf("expected error for unknown expectation form")
	}

	if _, err := New(DefaultConfig(), nil); err == nil {
		t.Errorf("expected error for nil store")
	}
}

func TestOpenFresh(t *testing.T) {
	e, err := Open(context.Background(), DefaultConfig(), newFlakyStore())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if len(e.Players()) != 0 || len(e.Games()) != 0 || len(e.Genres()) != 0 {
		t.Fatalf("fresh engine should be empty")
	}
}

func TestOpenRestoresState(t *testing.T) {
	ctx := context.Background()
	e, fs := seedEngine(t, logisticConfig())

	if err := e.AddGenre(ctx, "Fighting"); err != nil {
		t.Fatalf("add genre: %v", err)
	}
	if err := e.AddGenreToGame(ctx, "sf6", "fighting"); err != nil {
		t.Fatalf("add genre to game: %v", err)
	}
	playMatch(t, e, "alice", "bob", "sf6", "alice")
	// an in-flight match is not durable
	if _, err := e.CreateChallenge(ctx, "bob", "alice", "sf6"); err != nil {
		t.Fatalf("challenge: %v", err)
	}

	e2, err := Open(ctx, logisticConfig(), fs)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	checkInvariants(t, e2)

	if len(e2.Matches()) != 0 {
		t.Errorf("matches should not survive a reload")
	}
	alice, err := e2.GetPlayer("alice")
	if err != nil {
		t.Fatalf("get alice: %v", err)
	}
	if alice.InMatch() {
		t.Errorf("alice should have no match after reload")
	}
	orig, _ := e.GetPlayer("alice")
	if alice.Rankings["street fighter 6"].Rating !=
		orig.Rankings["street fighter 6"].Rating {
		t.Errorf("rating not restored: %v vs %v",
			alice.Rankings["street fighter 6"].Rating,
			orig.Rankings["street fighter 6"].Rating)
	}
	if alice.AverageRating != orig.AverageRating {
		t.Errorf("average not restored: %v vs %v", alice.AverageRating,
			orig.AverageRating)
	}
	if len(alice.Recent) != 1 || !alice.Recent[0].ResolvedAt.Equal(testTime) {
		t.Errorf("recent history not restored: %+v", alice.Recent)
	}
	rec, ok := alice.Record("BOB")
	if !ok || rec.Games["street fighter 6"].Wins != 1 {
		t.Errorf("win/loss record not restored: %+v", rec)
	}
	g, err := e2.GetGame("SF6")
	if err != nil || !g.HasGenre("fighting") {
		t.Errorf("game genres not restored: %+v %v", g, err)
	}
}

func TestOpenReconcilesRankings(t *testing.T) {
	ctx := context.Background()
	fs := newFlakyStore()
	snap := store.Snapshot{
		Players: []store.PlayerRecord{
			{Name: "Carol", Rankings: []store.RankingRecord{
				{Game: "retired game", Rating: 1800, Deviation: 50,
					Volatility: 0.06},
			}},
		},
		Games:  []store.GameRecord{{Title: "Tekken 8", Shorthand: "t8"}},
		Genres: []string{},
	}
	if err := fs.inner.Save(ctx, snap); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	e, err := Open(ctx, DefaultConfig(), fs)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	checkInvariants(t, e)

	carol, err := e.GetPlayer("carol")
	if err != nil {
		t.Fatalf("get carol: %v", err)
	}
	if _, ok := carol.Ranking("retired game"); ok {
		t.Errorf("ranking for a game outside the catalog survived")
	}
	r, ok := carol.Ranking("tekken 8")
	if !ok || r.Rating != 1500 {
		t.Errorf("missing default ranking for tekken 8: %+v", r)
	}
	g, _ := e.GetGame("t8")
	if g == nil || g.Tau != DefaultConfig().DefaultTau {
		t.Errorf("missing tau should default: %+v", g)
	}
}

func TestOpenLoadFailure(t *testing.T) {
	_, err := Open(context.Background(), DefaultConfig(), brokenStore{})
	expectCode(t, err, PersistenceFailure)
}

type brokenStore struct{}

func (brokenStore) Save(context.Context, store.Snapshot) error {
	return errInjected
}

func (brokenStore) Load(context.Context) (store.Snapshot, error) {
	return store.Snapshot{}, errInjected
}

func (brokenStore) Exists(context.Context) (bool, error) {
	return true, nil
}

func TestErrorMatching(t *testing.T) {
	err := error(newError("acceptchallenge", WrongRole, "alice"))
	if !errors.Is(err, ErrWrongRole) {
		t.Errorf("errors.Is should match by code")
	}
	if errors.Is(err, ErrWrongState) {
		t.Errorf("errors.Is matched a different code")
	}
	wrapped := fmt.Errorf("adapter: %w", err)
	if CodeOf(wrapped) != WrongRole {
		t.Errorf("CodeOf through wrapping = %v", CodeOf(wrapped))
	}
	if CodeOf(errInjected) != CodeUnknown {
		t.Errorf("CodeOf foreign error should be unknown")
	}

	pe := &Error{Op: "addplayer", Code: PersistenceFailure, Err: errInjected}
	if !errors.Is(pe, errInjected) {
		t.Errorf("persistence error should unwrap to the backend error")
	}
	want := "fite.acceptchallenge: wrong role: alice"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}
}
