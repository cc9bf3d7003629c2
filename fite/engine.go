/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package fite tracks players, games and matches and keeps Glicko-2
// ratings per player per game.
//
// The Engine is the only mutator. Every operation validates its
// preconditions in a fixed order, applies its effect, and (for registry,
// catalog and match resolution changes) persists the durable state through a
// Store. A failed save rolls the in-memory state back, so the caller
// observes either the full effect or none of it.
package fite

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mikeb26/fitebot/glicko"
	"github.com/mikeb26/fitebot/store"
)

// Store is the persistence port.
type Store interface {
	Save(ctx context.Context, snap store.Snapshot) error
	Load(ctx context.Context) (store.Snapshot, error)
	Exists(ctx context.Context) (bool, error)
}

type state struct {
	players map[string]*Player
	games   map[string]*Game
	// shorthand -> title
	shorthands map[string]string
	genres     []string
	matches    map[MatchID]*Match
}

func newState() *state {
	return &state{
		players:    make(map[string]*Player),
		games:      make(map[string]*Game),
		shorthands: make(map[string]string),
		matches:    make(map[MatchID]*Match),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, p := range s.players {
		c.players[k] = p.clone()
	}
	for k, g := range s.games {
		c.games[k] = g.clone()
	}
	for k, v := range s.shorthands {
		c.shorthands[k] = v
	}
	c.genres = append([]string(nil), s.genres...)
	for k, m := range s.matches {
		c.matches[k] = m.clone()
	}
	return c
}

func (s *state) gameTitles() []string {
	ret := make([]string, 0, len(s.games))
	for t := range s.games {
		ret = append(ret, t)
	}
	sort.Strings(ret)
	return ret
}

type Engine struct {
	mu     sync.RWMutex
	cfg    Config
	params glicko.Params
	store  Store
	st     *state

	now   func() time.Time
	newID func() MatchID
}

// New returns an engine with empty state. Nothing is read from st until
// Open is used instead.
func New(cfg Config, st Store) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("fite.new: %w", err)
	}
	params, err := cfg.params()
	if err != nil {
		return nil, fmt.Errorf("fite.new: %w", err)
	}
	if st == nil {
		return nil, fmt.Errorf("fite.new: store is required")
	}

	return &Engine{
		cfg:    cfg,
		params: params,
		store:  st,
		st:     newState(),
		now:    time.Now,
		newID:  newMatchID,
	}, nil
}

// Open builds an engine from whatever st holds. A store with no saved
// state yields an empty engine; the first mutation creates it.
func Open(ctx context.Context, cfg Config, st Store) (*Engine, error) {
	e, err := New(cfg, st)
	if err != nil {
		return nil, err
	}

	exists, err := st.Exists(ctx)
	if err != nil {
		return nil, &Error{Op: "open", Code: PersistenceFailure, Err: err}
	}
	if !exists {
		log.Printf("fite.open: no saved state found; starting fresh")
		return e, nil
	}

	snap, err := st.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return e, nil
		}
		return nil, &Error{Op: "open", Code: PersistenceFailure, Err: err}
	}
	e.st = e.fromSnapshot(snap)
	log.Printf("fite.open: loaded %v players %v games %v genres",
		len(e.st.players), len(e.st.games), len(e.st.genres))

	return e, nil
}

// Config returns the tunables the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// mutate runs fn under the write lock. When persist is set the durable
// state is saved afterwards; if either fn or the save fails, the state is
// restored to what it was before fn ran.
func (e *Engine) mutate(ctx context.Context, op string, persist bool,
	fn func(s *state) error) error {

	e.mu.Lock()
	defer e.mu.Unlock()

	var prev *state
	if persist {
		prev = e.st.clone()
	}
	if err := fn(e.st); err != nil {
		if prev != nil {
			e.st = prev
		}
		return err
	}
	if !persist {
		return nil
	}

	if err := e.store.Save(ctx, e.toSnapshot(e.st)); err != nil {
		log.Printf("fite.%v: save failed; state restored: %v", op, err)
		e.st = prev
		return &Error{Op: op, Code: PersistenceFailure, Err: err}
	}

	return nil
}

func (e *Engine) view(fn func(s *state)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.st)
}

// Save writes the current durable state without changing anything.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.store.Save(ctx, e.toSnapshot(e.st)); err != nil {
		return &Error{Op: "save", Code: PersistenceFailure, Err: err}
	}
	return nil
}

func (e *Engine) toSnapshot(s *state) store.Snapshot {
	snap := store.Snapshot{
		Players: make([]store.PlayerRecord, 0, len(s.players)),
		Games:   make([]store.GameRecord, 0, len(s.games)),
		Genres:  append([]string{}, s.genres...),
	}

	for _, title := range s.gameTitles() {
		g := s.games[title]
		snap.Games = append(snap.Games, store.GameRecord{
			Title:     g.Title,
			Shorthand: g.Shorthand,
			Genres:    append([]string(nil), g.Genres...),
			Tau:       g.Tau,
		})
	}

	names := make([]string, 0, len(s.players))
	for n := range s.players {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		snap.Players = append(snap.Players, playerRecord(s.players[n]))
	}

	return snap
}

func playerRecord(p *Player) store.PlayerRecord {
	rec := store.PlayerRecord{Name: p.Name}

	for _, g := range p.RankedGames() {
		r := p.Rankings[g]
		rec.Rankings = append(rec.Rankings, store.RankingRecord{
			Game:          r.Game,
			Rating:        r.Rating,
			Deviation:     r.Deviation,
			Volatility:    r.Volatility,
			MatchesPlayed: r.MatchesPlayed,
		})
	}

	opponents := make([]string, 0, len(p.Records))
	for o := range p.Records {
		opponents = append(opponents, o)
	}
	sort.Strings(opponents)
	for _, o := range opponents {
		wl := p.Records[o]
		orec := store.OpponentRecord{Opponent: wl.Opponent}
		games := make([]string, 0, len(wl.Games))
		for g := range wl.Games {
			games = append(games, g)
		}
		sort.Strings(games)
		for _, g := range games {
			obj := wl.Games[g]
			orec.Games = append(orec.Games, store.WinLossRecord{
				Game:        obj.Game,
				Wins:        obj.Wins,
				Losses:      obj.Losses,
				RatingDelta: obj.RatingDelta,
			})
		}
		rec.Records = append(rec.Records, orec)
	}

	for _, r := range p.Recent {
		rec.Recent = append(rec.Recent, store.ResultRecord{
			Game:          r.Game,
			Opponent:      r.Opponent,
			Victory:       r.Victory,
			OldRating:     r.OldRating,
			NewRating:     r.NewRating,
			Delta:         r.Delta,
			NewDeviation:  r.NewDeviation,
			NewVolatility: r.NewVolatility,
			ResolvedAt:    r.ResolvedAt,
		})
	}

	return rec
}

// fromSnapshot rebuilds state from storage. Matches are not stored, so
// every player starts without one; rankings are reconciled to the catalog.
func (e *Engine) fromSnapshot(snap store.Snapshot) *state {
	s := newState()

	for _, genre := range snap.Genres {
		genre = Canonical(genre)
		if genre == "" || containsString(s.genres, genre) {
			continue
		}
		s.genres = append(s.genres, genre)
	}

	for _, gr := range snap.Games {
		g := &Game{
			Title:     Canonical(gr.Title),
			Shorthand: Canonical(gr.Shorthand),
			Tau:       gr.Tau,
		}
		if g.Title == "" {
			continue
		}
		if !(g.Tau > 0) {
			g.Tau = e.cfg.DefaultTau
		}
		for _, genre := range gr.Genres {
			genre = Canonical(genre)
			if containsString(s.genres, genre) && !g.HasGenre(genre) &&
				len(g.Genres) < e.cfg.GenreCap {
				g.Genres = append(g.Genres, genre)
			}
		}
		s.games[g.Title] = g
		if g.Shorthand != "" {
			s.shorthands[g.Shorthand] = g.Title
		}
	}

	titles := s.gameTitles()
	for _, pr := range snap.Players {
		name := Canonical(pr.Name)
		if name == "" {
			continue
		}
		p := newPlayer(name, nil, e.cfg)
		for _, rr := range pr.Rankings {
			game := Canonical(rr.Game)
			if _, ok := s.games[game]; !ok {
				continue
			}
			p.Rankings[game] = &GameRanking{
				Game:          game,
				Rating:        rr.Rating,
				Deviation:     rr.Deviation,
				Volatility:    rr.Volatility,
				MatchesPlayed: rr.MatchesPlayed,
			}
		}
		for _, t := range titles {
			p.addRanking(t, e.cfg)
		}
		for _, or := range pr.Records {
			wl := &WinLossRecord{
				Opponent: Canonical(or.Opponent),
				Games:    make(map[string]*WinLossObject),
			}
			for _, wr := range or.Games {
				wl.Games[Canonical(wr.Game)] = &WinLossObject{
					Game:        Canonical(wr.Game),
					Wins:        wr.Wins,
					Losses:      wr.Losses,
					RatingDelta: wr.RatingDelta,
				}
			}
			p.Records[wl.Opponent] = wl
		}
		for _, rr := range pr.Recent {
			if len(p.Recent) >= e.cfg.RecentMatchWindow {
				break
			}
			p.Recent = append(p.Recent, MatchResult{
				Game:          Canonical(rr.Game),
				Opponent:      Canonical(rr.Opponent),
				Victory:       rr.Victory,
				OldRating:     rr.OldRating,
				NewRating:     rr.NewRating,
				Delta:         rr.Delta,
				NewDeviation:  rr.NewDeviation,
				NewVolatility: rr.NewVolatility,
				ResolvedAt:    rr.ResolvedAt,
			})
		}
		p.recalcAverage()
		s.players[name] = p
	}

	return s
}

func containsString(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
