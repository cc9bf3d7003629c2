/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package store persists the durable half of the rating system: players,
// games and genres. Matches are never stored.
package store

import "time"

// Collection names. A state is considered present only when all three
// exist.
const (
	PlayersCollection = "players"
	GamesCollection   = "games"
	GenresCollection  = "genres"
)

var Collections = []string{PlayersCollection, GamesCollection,
	GenresCollection}

// Snapshot is everything Save writes and Load returns.
type Snapshot struct {
	Players []PlayerRecord
	Games   []GameRecord
	Genres  []string
}

type PlayerRecord struct {
	Name     string           `json:"name"`
	Rankings []RankingRecord  `json:"rankings"`
	Records  []OpponentRecord `json:"records,omitempty"`
	Recent   []ResultRecord   `json:"recent,omitempty"`
}

type RankingRecord struct {
	Game          string  `json:"game"`
	Rating        float64 `json:"rating"`
	Deviation     float64 `json:"deviation"`
	Volatility    float64 `json:"volatility"`
	MatchesPlayed int64   `json:"matchesPlayed"`
}

type OpponentRecord struct {
	Opponent string          `json:"opponent"`
	Games    []WinLossRecord `json:"games"`
}

type WinLossRecord struct {
	Game        string  `json:"game"`
	Wins        int64   `json:"wins"`
	Losses      int64   `json:"losses"`
	RatingDelta float64 `json:"ratingDelta"`
}

type ResultRecord struct {
	Game          string    `json:"game"`
	Opponent      string    `json:"opponent"`
	Victory       bool      `json:"victory"`
	OldRating     float64   `json:"oldRating"`
	NewRating     float64   `json:"newRating"`
	Delta         float64   `json:"delta"`
	NewDeviation  float64   `json:"newDeviation"`
	NewVolatility float64   `json:"newVolatility"`
	ResolvedAt    time.Time `json:"resolvedAt"`
}

type GameRecord struct {
	Title     string   `json:"title"`
	Shorthand string   `json:"shorthand"`
	Genres    []string `json:"genres,omitempty"`
	Tau       float64  `json:"tau"`
}
