/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

import "context"

// lookupGame resolves name as a full title first and then as a shorthand.
func (s *state) lookupGame(name string) (*Game, bool) {
	if g, ok := s.games[name]; ok {
		return g, true
	}
	if title, ok := s.shorthands[name]; ok {
		g, ok := s.games[title]
		return g, ok
	}
	return nil, false
}

func (s *state) gameInUse(title string) bool {
	for _, m := range s.matches {
		if m.Game == title {
			return true
		}
	}
	return false
}

// AddGame adds a game to the catalog and gives every player a default
// ranking for it. Neither title nor shorthand may collide with an existing
// title or shorthand.
func (e *Engine) AddGame(ctx context.Context, title string,
	shorthand string) (*Game, error) {

	const op = "addgame"
	title = Canonical(title)
	shorthand = Canonical(shorthand)

	var ret *Game
	err := e.mutate(ctx, op, true, func(s *state) error {
		if title == "" || shorthand == "" {
			return newError(op, InvalidName, title)
		}
		if _, ok := s.lookupGame(title); ok {
			return newError(op, GameTitleTaken, title)
		}
		if _, ok := s.lookupGame(shorthand); ok {
			return newError(op, GameShorthandTaken, shorthand)
		}

		g := &Game{
			Title:     title,
			Shorthand: shorthand,
			Tau:       e.cfg.DefaultTau,
		}
		s.games[title] = g
		s.shorthands[shorthand] = title
		for _, p := range s.players {
			p.addRanking(title, e.cfg)
		}
		ret = g.clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// RemoveGame removes a game by full title along with every player's
// ranking for it. Games referenced by a pending or active match cannot be
// removed.
func (e *Engine) RemoveGame(ctx context.Context, title string) error {
	const op = "removegame"
	title = Canonical(title)

	return e.mutate(ctx, op, true, func(s *state) error {
		g, ok := s.games[title]
		if !ok {
			return newError(op, UnknownGame, title)
		}
		if s.gameInUse(title) {
			return newError(op, GameInUse, title)
		}
		for _, p := range s.players {
			p.removeRanking(title)
		}
		delete(s.shorthands, g.Shorthand)
		delete(s.games, title)
		return nil
	})
}

// GetGame looks name up as a title, then as a shorthand.
func (e *Engine) GetGame(name string) (*Game, error) {
	name = Canonical(name)

	var ret *Game
	e.view(func(s *state) {
		if g, ok := s.lookupGame(name); ok {
			ret = g.clone()
		}
	})
	if ret == nil {
		return nil, newError("getgame", UnknownGame, name)
	}
	return ret, nil
}

// Games returns copies of every game ordered by title.
func (e *Engine) Games() []*Game {
	var ret []*Game
	e.view(func(s *state) {
		for _, t := range s.gameTitles() {
			ret = append(ret, s.games[t].clone())
		}
	})
	return ret
}

func (e *Engine) AddGenre(ctx context.Context, genre string) error {
	const op = "addgenre"
	genre = Canonical(genre)

	return e.mutate(ctx, op, true, func(s *state) error {
		if genre == "" {
			return newError(op, InvalidName, genre)
		}
		if containsString(s.genres, genre) {
			return newError(op, GenreDuplicate, genre)
		}
		s.genres = append(s.genres, genre)
		return nil
	})
}

// RemoveGenre drops genre from the vocabulary and from every game.
func (e *Engine) RemoveGenre(ctx context.Context, genre string) error {
	const op = "removegenre"
	genre = Canonical(genre)

	return e.mutate(ctx, op, true, func(s *state) error {
		idx := -1
		for i, g := range s.genres {
			if g == genre {
				idx = i
				break
			}
		}
		if idx < 0 {
			return newError(op, GenreNotFound, genre)
		}
		s.genres = append(s.genres[:idx:idx], s.genres[idx+1:]...)
		for _, g := range s.games {
			g.removeGenre(genre)
		}
		return nil
	})
}

// Genres returns the vocabulary in the order genres were added.
func (e *Engine) Genres() []string {
	var ret []string
	e.view(func(s *state) {
		ret = append([]string{}, s.genres...)
	})
	return ret
}

func (e *Engine) AddGenreToGame(ctx context.Context, game string,
	genre string) error {

	const op = "addgenretogame"
	game = Canonical(game)
	genre = Canonical(genre)

	return e.mutate(ctx, op, true, func(s *state) error {
		g, ok := s.lookupGame(game)
		if !ok {
			return newError(op, UnknownGame, game)
		}
		if !containsString(s.genres, genre) {
			return newError(op, GenreNotFound, genre)
		}
		if g.HasGenre(genre) {
			return newError(op, GenreAlreadyOnGame, genre)
		}
		if len(g.Genres) >= e.cfg.GenreCap {
			return newError(op, GenreSlotsFull, g.Title)
		}
		g.Genres = append(g.Genres, genre)
		return nil
	})
}

func (e *Engine) RemoveGenreFromGame(ctx context.Context, game string,
	genre string) error {

	const op = "removegenrefromgame"
	game = Canonical(game)
	genre = Canonical(genre)

	return e.mutate(ctx, op, true, func(s *state) error {
		g, ok := s.lookupGame(game)
		if !ok {
			return newError(op, UnknownGame, game)
		}
		if !containsString(s.genres, genre) {
			return newError(op, GenreNotFound, genre)
		}
		if !g.removeGenre(genre) {
			return newError(op, GenreNotOnGame, genre)
		}
		return nil
	})
}

// GamesWithGenre returns the titles of games tagged with genre.
func (e *Engine) GamesWithGenre(genre string) []string {
	genre = Canonical(genre)

	var ret []string
	e.view(func(s *state) {
		for _, t := range s.gameTitles() {
			if s.games[t].HasGenre(genre) {
				ret = append(ret, t)
			}
		}
	})
	return ret
}
