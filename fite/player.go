/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

import (
	"sort"
	"time"

	"github.com/mikeb26/fitebot/glicko"
)

// GameRanking is a player's Glicko-2 state for one game.
type GameRanking struct {
	Game          string
	Rating        float64
	Deviation     float64
	Volatility    float64
	MatchesPlayed int64
}

func newGameRanking(game string, cfg Config) *GameRanking {
	return &GameRanking{
		Game:       game,
		Rating:     cfg.DefaultRating,
		Deviation:  cfg.DefaultDeviation,
		Volatility: cfg.DefaultVolatility,
	}
}

func (r *GameRanking) glicko() glicko.Rating {
	return glicko.Rating{
		Rating:     r.Rating,
		Deviation:  r.Deviation,
		Volatility: r.Volatility,
	}
}

func (r *GameRanking) apply(res MatchResult) {
	r.Rating = res.NewRating
	r.Deviation = res.NewDeviation
	r.Volatility = res.NewVolatility
	r.MatchesPlayed++
}

// MatchResult is one player's view of a resolved match.
type MatchResult struct {
	Game          string
	Opponent      string
	Victory       bool
	OldRating     float64
	NewRating     float64
	Delta         float64
	NewDeviation  float64
	NewVolatility float64
	ResolvedAt    time.Time
}

func newMatchResult(out glicko.Outcome, game string, opponent string,
	at time.Time) MatchResult {

	return MatchResult{
		Game:          game,
		Opponent:      opponent,
		Victory:       out.Victory,
		OldRating:     out.OldRating,
		NewRating:     out.NewRating,
		Delta:         out.Delta,
		NewDeviation:  out.NewDeviation,
		NewVolatility: out.NewVolatility,
		ResolvedAt:    at,
	}
}

// WinLossObject counts results against one opponent in one game.
type WinLossObject struct {
	Game        string
	Wins        int64
	Losses      int64
	RatingDelta float64
}

// WinRatio is wins divided by losses, treating zero losses as one.
func (o *WinLossObject) WinRatio() float64 {
	losses := o.Losses
	if losses < 1 {
		losses = 1
	}
	return float64(o.Wins) / float64(losses)
}

func (o *WinLossObject) add(res MatchResult) {
	if res.Victory {
		o.Wins++
	} else {
		o.Losses++
	}
	o.RatingDelta += res.Delta
}

// WinLossRecord is the per-game history against a single opponent.
type WinLossRecord struct {
	Opponent string
	Games    map[string]*WinLossObject
}

func (rec *WinLossRecord) add(res MatchResult) {
	obj, ok := rec.Games[res.Game]
	if !ok {
		obj = &WinLossObject{Game: res.Game}
		rec.Games[res.Game] = obj
	}
	obj.add(res)
}

// Player is a registered competitor. Values returned by the Engine are
// copies; mutating them has no effect on the engine.
type Player struct {
	Name          string
	AverageRating float64
	Rankings      map[string]*GameRanking
	Records       map[string]*WinLossRecord
	// Recent holds the latest results, most recent first.
	Recent       []MatchResult
	CurrentMatch MatchID
}

func newPlayer(name string, games []string, cfg Config) *Player {
	p := &Player{
		Name:     name,
		Rankings: make(map[string]*GameRanking),
		Records:  make(map[string]*WinLossRecord),
	}
	for _, g := range games {
		p.Rankings[g] = newGameRanking(g, cfg)
	}
	p.recalcAverage()

	return p
}

// InMatch reports whether the player has a pending or active match.
func (p *Player) InMatch() bool {
	return p.CurrentMatch != ""
}

// Ranking returns the player's ranking for the named game.
func (p *Player) Ranking(game string) (*GameRanking, bool) {
	r, ok := p.Rankings[Canonical(game)]
	return r, ok
}

// Record returns the win/loss history against opponent.
func (p *Player) Record(opponent string) (*WinLossRecord, bool) {
	r, ok := p.Records[Canonical(opponent)]
	return r, ok
}

// RankedGames returns the titles of the player's rankings in sorted order.
func (p *Player) RankedGames() []string {
	ret := make([]string, 0, len(p.Rankings))
	for g := range p.Rankings {
		ret = append(ret, g)
	}
	sort.Strings(ret)
	return ret
}

func (p *Player) addRanking(game string, cfg Config) {
	if _, ok := p.Rankings[game]; ok {
		return
	}
	p.Rankings[game] = newGameRanking(game, cfg)
	p.recalcAverage()
}

func (p *Player) removeRanking(game string) {
	delete(p.Rankings, game)
	p.recalcAverage()
}

func (p *Player) recalcAverage() {
	if len(p.Rankings) == 0 {
		p.AverageRating = 0
		return
	}
	sum := 0.0
	for _, r := range p.Rankings {
		sum += r.Rating
	}
	p.AverageRating = sum / float64(len(p.Rankings))
}

// applyResult folds a resolved match into rankings, records, recent history
// and the average.
func (p *Player) applyResult(res MatchResult, window int) {
	if r, ok := p.Rankings[res.Game]; ok {
		r.apply(res)
	}

	rec, ok := p.Records[res.Opponent]
	if !ok {
		rec = &WinLossRecord{
			Opponent: res.Opponent,
			Games:    make(map[string]*WinLossObject),
		}
		p.Records[res.Opponent] = rec
	}
	rec.add(res)

	p.pushRecent(res, window)
	p.recalcAverage()
}

func (p *Player) pushRecent(res MatchResult, window int) {
	recent := make([]MatchResult, 0, window)
	recent = append(recent, res)
	for _, r := range p.Recent {
		if len(recent) >= window {
			break
		}
		recent = append(recent, r)
	}
	p.Recent = recent
}

func (p *Player) clone() *Player {
	c := *p
	c.Rankings = make(map[string]*GameRanking, len(p.Rankings))
	for k, r := range p.Rankings {
		rc := *r
		c.Rankings[k] = &rc
	}
	c.Records = make(map[string]*WinLossRecord, len(p.Records))
	for k, rec := range p.Records {
		rc := &WinLossRecord{
			Opponent: rec.Opponent,
			Games:    make(map[string]*WinLossObject, len(rec.Games)),
		}
		for g, obj := range rec.Games {
			oc := *obj
			rc.Games[g] = &oc
		}
		c.Records[k] = rc
	}
	c.Recent = append([]MatchResult(nil), p.Recent...)

	return &c
}
