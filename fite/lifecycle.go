/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

import (
	"context"
	"sort"

	"github.com/mikeb26/fitebot/glicko"
)

// discardMatch removes m from the table and clears both players' ids.
func (s *state) discardMatch(m *Match) {
	delete(s.matches, m.ID)
	for _, name := range []string{m.Initiator, m.Challenged} {
		if p, ok := s.players[name]; ok && p.CurrentMatch == m.ID {
			p.CurrentMatch = ""
		}
	}
}

// currentMatch checks that name is registered and has a match.
func (s *state) currentMatch(op string, name string) (*Player, *Match,
	error) {

	p, ok := s.players[name]
	if !ok {
		return nil, nil, newError(op, NotRegistered, name)
	}
	m, ok := s.matches[p.CurrentMatch]
	if !p.InMatch() || !ok {
		return nil, nil, newError(op, NoCurrentMatch, name)
	}
	return p, m, nil
}

// resolve officiates m with victor as the winner: the match leaves the
// table, both ratings are recomputed and both players' histories updated.
func (e *Engine) resolve(s *state, op string, m *Match,
	victor string) (*Resolution, error) {

	initiator := s.players[m.Initiator]
	challenged := s.players[m.Challenged]
	game := s.games[m.Game]

	ri, ok1 := initiator.Rankings[m.Game]
	rc, ok2 := challenged.Rankings[m.Game]
	if game == nil || !ok1 || !ok2 {
		return nil, newError(op, UnknownGame, m.Game)
	}

	params := e.params
	if game.Tau > 0 {
		params.Tau = game.Tau
	}
	outI, outC, err := glicko.Resolve(ri.glicko(), rc.glicko(),
		victor == m.Initiator, params)
	if err != nil {
		return nil, &Error{Op: op, Code: CalculationFailed, Subject: m.Game,
			Err: err}
	}

	at := e.now().UTC()
	res := &Resolution{
		Match:      *m,
		Initiator:  newMatchResult(outI, m.Game, m.Challenged, at),
		Challenged: newMatchResult(outC, m.Game, m.Initiator, at),
	}
	res.Match.TrueVictor = victor

	s.discardMatch(m)
	initiator.applyResult(res.Initiator, e.cfg.RecentMatchWindow)
	challenged.applyResult(res.Challenged, e.cfg.RecentMatchWindow)

	return res, nil
}

// CreateChallenge opens a pending match between initiator and challenged.
func (e *Engine) CreateChallenge(ctx context.Context, initiator string,
	challenged string, game string) (*Match, error) {

	const op = "createchallenge"
	initiator = Canonical(initiator)
	challenged = Canonical(challenged)
	game = Canonical(game)

	var ret *Match
	err := e.mutate(ctx, op, false, func(s *state) error {
		pi, ok := s.players[initiator]
		if !ok {
			return newError(op, NotRegistered, initiator)
		}
		pc, ok := s.players[challenged]
		if !ok {
			return newError(op, NotRegistered, challenged)
		}
		if initiator == challenged {
			return newError(op, SelfReference, initiator)
		}
		if pi.InMatch() {
			return newError(op, AlreadyInMatch, initiator)
		}
		if pc.InMatch() {
			return newError(op, AlreadyInMatch, challenged)
		}
		g, ok := s.lookupGame(game)
		if !ok {
			return newError(op, UnknownGame, game)
		}

		m := &Match{
			ID:         e.newID(),
			Initiator:  initiator,
			Challenged: challenged,
			Game:       g.Title,
			State:      Pending,
			CreatedAt:  e.now().UTC(),
		}
		s.matches[m.ID] = m
		pi.CurrentMatch = m.ID
		pc.CurrentMatch = m.ID
		ret = m.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// AcceptChallenge moves the challenged player's pending match to active.
func (e *Engine) AcceptChallenge(ctx context.Context,
	name string) (*Match, error) {

	const op = "acceptchallenge"
	name = Canonical(name)

	var ret *Match
	err := e.mutate(ctx, op, false, func(s *state) error {
		_, m, err := s.currentMatch(op, name)
		if err != nil {
			return err
		}
		if m.Initiator == name {
			return newError(op, WrongRole, name)
		}
		if m.State == Active {
			return newError(op, WrongState, name)
		}
		m.State = Active
		ret = m.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// DeclineChallenge discards the challenged player's pending match.
func (e *Engine) DeclineChallenge(ctx context.Context,
	name string) (*Match, error) {

	const op = "declinechallenge"
	name = Canonical(name)

	var ret *Match
	err := e.mutate(ctx, op, false, func(s *state) error {
		_, m, err := s.currentMatch(op, name)
		if err != nil {
			return err
		}
		if m.Initiator == name {
			return newError(op, WrongRole, name)
		}
		if m.State == Active {
			return newError(op, WrongState, name)
		}
		ret = m.clone()
		s.discardMatch(m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// CancelChallenge lets the initiator withdraw a pending match.
func (e *Engine) CancelChallenge(ctx context.Context,
	name string) (*Match, error) {

	const op = "cancelchallenge"
	name = Canonical(name)

	var ret *Match
	err := e.mutate(ctx, op, false, func(s *state) error {
		_, m, err := s.currentMatch(op, name)
		if err != nil {
			return err
		}
		if m.Initiator != name {
			return newError(op, WrongRole, name)
		}
		if m.State == Active {
			return newError(op, WrongState, name)
		}
		ret = m.clone()
		s.discardMatch(m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// CancelMatch discards the player's match in any state. Callers gate it
// behind moderator permission.
func (e *Engine) CancelMatch(ctx context.Context,
	name string) (*Match, error) {

	const op = "cancelmatch"
	name = Canonical(name)

	var ret *Match
	err := e.mutate(ctx, op, false, func(s *state) error {
		_, m, err := s.currentMatch(op, name)
		if err != nil {
			return err
		}
		ret = m.clone()
		s.discardMatch(m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// ReportWin records name as the claimed winner of the active match. A
// later report by either player replaces it.
func (e *Engine) ReportWin(ctx context.Context, name string) (*Match, error) {
	const op = "reportwin"
	name = Canonical(name)

	var ret *Match
	err := e.mutate(ctx, op, false, func(s *state) error {
		_, m, err := s.currentMatch(op, name)
		if err != nil {
			return err
		}
		if m.State != Active {
			return newError(op, WrongState, name)
		}
		m.PendingVictor = name
		ret = m.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// ConfirmWin lets the opponent of the claimed winner make it official.
func (e *Engine) ConfirmWin(ctx context.Context,
	name string) (*Resolution, error) {

	const op = "confirmwin"
	name = Canonical(name)

	var ret *Resolution
	err := e.mutate(ctx, op, true, func(s *state) error {
		_, m, err := s.currentMatch(op, name)
		if err != nil {
			return err
		}
		if m.PendingVictor == "" {
			return newError(op, NoPendingVictor, name)
		}
		if m.PendingVictor == name {
			return newError(op, SelfReference, name)
		}
		ret, err = e.resolve(s, op, m, m.PendingVictor)
		return err
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// ReportLoss concedes the active match; the opponent wins immediately.
func (e *Engine) ReportLoss(ctx context.Context,
	name string) (*Resolution, error) {

	const op = "reportloss"
	name = Canonical(name)

	var ret *Resolution
	err := e.mutate(ctx, op, true, func(s *state) error {
		_, m, err := s.currentMatch(op, name)
		if err != nil {
			return err
		}
		if m.State != Active {
			return newError(op, WrongState, name)
		}
		ret, err = e.resolve(s, op, m, m.Opponent(name))
		return err
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// ForceWin resolves the active match with name as the winner. Callers gate
// it behind moderator permission.
func (e *Engine) ForceWin(ctx context.Context,
	name string) (*Resolution, error) {

	const op = "forcewin"
	name = Canonical(name)

	var ret *Resolution
	err := e.mutate(ctx, op, true, func(s *state) error {
		_, m, err := s.currentMatch(op, name)
		if err != nil {
			return err
		}
		if m.State != Active {
			return newError(op, WrongState, name)
		}
		ret, err = e.resolve(s, op, m, name)
		return err
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// GetPlayerMatch returns a copy of name's current match, or nil.
func (e *Engine) GetPlayerMatch(name string) (*Match, error) {
	name = Canonical(name)

	var ret *Match
	var err error
	e.view(func(s *state) {
		p, ok := s.players[name]
		if !ok {
			err = newError("getplayermatch", NotRegistered, name)
			return
		}
		if m, ok := s.matches[p.CurrentMatch]; ok {
			ret = m.clone()
		}
	})

	return ret, err
}

// Matches returns copies of every pending and active match, oldest first.
func (e *Engine) Matches() []*Match {
	var ret []*Match
	e.view(func(s *state) {
		for _, m := range s.matches {
			ret = append(ret, m.clone())
		}
	})
	sort.Slice(ret, func(i, j int) bool {
		if !ret[i].CreatedAt.Equal(ret[j].CreatedAt) {
			return ret[i].CreatedAt.Before(ret[j].CreatedAt)
		}
		return ret[i].ID < ret[j].ID
	})

	return ret
}
