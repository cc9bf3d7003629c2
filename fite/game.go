/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

// Game is a catalog entry. Title and Shorthand are canonical and unique
// across the catalog.
type Game struct {
	Title     string
	Shorthand string
	// Genres are kept in the order they were added.
	Genres []string
	Tau    float64
}

func (g *Game) HasGenre(genre string) bool {
	genre = Canonical(genre)
	for _, gg := range g.Genres {
		if gg == genre {
			return true
		}
	}
	return false
}

func (g *Game) removeGenre(genre string) bool {
	for i, gg := range g.Genres {
		if gg == genre {
			g.Genres = append(g.Genres[:i:i], g.Genres[i+1:]...)
			return true
		}
	}
	return false
}

func (g *Game) clone() *Game {
	c := *g
	c.Genres = append([]string(nil), g.Genres...)
	return &c
}
