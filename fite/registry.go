/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

import (
	"context"
	"sort"
)

// AddPlayer registers name with a default ranking in every catalog game.
func (e *Engine) AddPlayer(ctx context.Context, name string) (*Player, error) {
	const op = "addplayer"
	name = Canonical(name)

	var ret *Player
	err := e.mutate(ctx, op, true, func(s *state) error {
		if name == "" {
			return newError(op, InvalidName, name)
		}
		if _, ok := s.players[name]; ok {
			return newError(op, AlreadyRegistered, name)
		}
		p := newPlayer(name, s.gameTitles(), e.cfg)
		s.players[name] = p
		ret = p.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// RemovePlayer unregisters name. A pending or active match the player is in
// is discarded first. Other players keep their history against name.
func (e *Engine) RemovePlayer(ctx context.Context, name string) error {
	const op = "removeplayer"
	name = Canonical(name)

	return e.mutate(ctx, op, true, func(s *state) error {
		p, ok := s.players[name]
		if !ok {
			return newError(op, NotRegistered, name)
		}
		if m, ok := s.matches[p.CurrentMatch]; ok {
			s.discardMatch(m)
		}
		delete(s.players, name)
		return nil
	})
}

// GetPlayer returns a copy of the named player.
func (e *Engine) GetPlayer(name string) (*Player, error) {
	name = Canonical(name)

	var ret *Player
	e.view(func(s *state) {
		if p, ok := s.players[name]; ok {
			ret = p.clone()
		}
	})
	if ret == nil {
		return nil, newError("getplayer", NotRegistered, name)
	}
	return ret, nil
}

// IsRegistered reports whether name is a registered player.
func (e *Engine) IsRegistered(name string) bool {
	name = Canonical(name)

	var ok bool
	e.view(func(s *state) {
		_, ok = s.players[name]
	})
	return ok
}

// Players returns copies of every player ordered by name.
func (e *Engine) Players() []*Player {
	var ret []*Player
	e.view(func(s *state) {
		ret = make([]*Player, 0, len(s.players))
		for _, p := range s.players {
			ret = append(ret, p.clone())
		}
	})
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })

	return ret
}
