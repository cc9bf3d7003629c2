/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/mikeb26/fitebot/fite"
	"github.com/mikeb26/fitebot/internal"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, engine *fite.Engine, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":                handleHelp,
	"players":             handlePlayers,
	"player":              handlePlayer,
	"games":               handleGames,
	"genres":              handleGenres,
	"addgame":             handleAddGame,
	"removegame":          handleRemoveGame,
	"addgenre":            handleAddGenre,
	"removegenre":         handleRemoveGenre,
	"addgenretogame":      handleAddGenreToGame,
	"removegenrefromgame": handleRemoveGenreFromGame,
	"history":             handleHistory,
	"seed":                handleSeed,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
	if cmd == "help" {
		handler(ctx, nil, os.Args[2:])
		return
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	engine, closeStore, err := internal.OpenEngine(ctx, cfg)
	if err != nil {
		log.Fatalf("Error opening %v store: %v", cfg.Store, err)
	}
	defer closeStore()

	handler(ctx, engine, os.Args[2:])
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, engine *fite.Engine, args []string) {
	usage()
}

func parseFlags(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
}

func requireFlag(fs *flag.FlagSet, name string, val string) {
	if val == "" {
		fmt.Fprintf(os.Stderr, "Please provide --%v.\n", name)
		fs.Usage()
		os.Exit(1)
	}
}

func handlePlayers(ctx context.Context, engine *fite.Engine, args []string) {
	players := engine.Players()
	if len(players) == 0 {
		fmt.Println("No players are registered.")
		return
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].AverageRating > players[j].AverageRating
	})
	for i, p := range players {
		status := ""
		if p.InMatch() {
			status = " (in match)"
		}
		fmt.Printf("%3d. %-24s %7.1f%s\n", i+1, p.Name, p.AverageRating, status)
	}
}

func handlePlayer(ctx context.Context, engine *fite.Engine, args []string) {
	fs := flag.NewFlagSet("player", flag.ExitOnError)
	name := fs.String("name", "", "Player name or chat user id")
	parseFlags(fs, args)
	requireFlag(fs, "name", *name)

	p, err := engine.GetPlayer(*name)
	if err != nil {
		log.Fatalf("Error fetching player %v: %v", *name, err)
	}

	fmt.Printf("Player: %v\n", p.Name)
	fmt.Printf("Average rating: %.1f\n", p.AverageRating)
	if p.InMatch() {
		fmt.Printf("Current match: %v\n", p.CurrentMatch)
	}
	fmt.Println("Ratings:")
	for _, title := range p.RankedGames() {
		r := p.Rankings[title]
		fmt.Printf("  - %v: %.1f (RD %.1f, vol %.4f, %v matches)\n", title,
			r.Rating, r.Deviation, r.Volatility, r.MatchesPlayed)
	}

	if len(p.Records) > 0 {
		var opponents []string
		for opp := range p.Records {
			opponents = append(opponents, opp)
		}
		sort.Strings(opponents)
		fmt.Println("Records:")
		for _, opp := range opponents {
			rec := p.Records[opp]
			for _, game := range sortedKeys(rec.Games) {
				obj := rec.Games[game]
				fmt.Printf("  - vs %v in %v: %v-%v (ratio %.2f, %+.1f)\n", opp,
					game, obj.Wins, obj.Losses, obj.WinRatio(), obj.RatingDelta)
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func handleGames(ctx context.Context, engine *fite.Engine, args []string) {
	fs := flag.NewFlagSet("games", flag.ExitOnError)
	genre := fs.String("genre", "", "Only list games tagged with this genre")
	parseFlags(fs, args)

	games := engine.Games()
	if *genre != "" {
		tagged := make(map[string]bool)
		for _, t := range engine.GamesWithGenre(*genre) {
			tagged[t] = true
		}
		filtered := games[:0]
		for _, g := range games {
			if tagged[g.Title] {
				filtered = append(filtered, g)
			}
		}
		games = filtered
	}
	if len(games) == 0 {
		fmt.Println("No games found.")
		return
	}
	for _, g := range games {
		fmt.Printf("  - %v (%v) tau:%v genres:%v\n", g.Title, g.Shorthand,
			g.Tau, g.Genres)
	}
}

func handleGenres(ctx context.Context, engine *fite.Engine, args []string) {
	genres := engine.Genres()
	if len(genres) == 0 {
		fmt.Println("No genres found.")
		return
	}
	for _, g := range genres {
		fmt.Printf("  - %v (%v games)\n", g, len(engine.GamesWithGenre(g)))
	}
}

func handleAddGame(ctx context.Context, engine *fite.Engine, args []string) {
	fs := flag.NewFlagSet("addgame", flag.ExitOnError)
	title := fs.String("title", "", "Full title")
	shorthand := fs.String("shorthand", "", "Short name")
	parseFlags(fs, args)
	requireFlag(fs, "title", *title)
	requireFlag(fs, "shorthand", *shorthand)

	g, err := engine.AddGame(ctx, *title, *shorthand)
	if err != nil {
		log.Fatalf("Error adding game: %v", err)
	}
	fmt.Printf("Added %v (%v)\n", g.Title, g.Shorthand)
}

func handleRemoveGame(ctx context.Context, engine *fite.Engine, args []string) {
	fs := flag.NewFlagSet("removegame", flag.ExitOnError)
	title := fs.String("title", "", "Full title")
	parseFlags(fs, args)
	requireFlag(fs, "title", *title)

	if err := engine.RemoveGame(ctx, *title); err != nil {
		log.Fatalf("Error removing game: %v", err)
	}
	fmt.Printf("Removed %v\n", *title)
}

func handleAddGenre(ctx context.Context, engine *fite.Engine, args []string) {
	fs := flag.NewFlagSet("addgenre", flag.ExitOnError)
	genre := fs.String("genre", "", "Genre name")
	parseFlags(fs, args)
	requireFlag(fs, "genre", *genre)

	if err := engine.AddGenre(ctx, *genre); err != nil {
		log.Fatalf("Error adding genre: %v", err)
	}
	fmt.Printf("Added genre %v\n", *genre)
}

func handleRemoveGenre(ctx context.Context, engine *fite.Engine, args []string) {
	fs := flag.NewFlagSet("removegenre", flag.ExitOnError)
	genre := fs.String("genre", "", "Genre name")
	parseFlags(fs, args)
	requireFlag(fs, "genre", *genre)

	if err := engine.RemoveGenre(ctx, *genre); err != nil {
		log.Fatalf("Error removing genre: %v", err)
	}
	fmt.Printf("Removed genre %v\n", *genre)
}

func handleAddGenreToGame(ctx context.Context, engine *fite.Engine,
	args []string) {

	fs := flag.NewFlagSet("addgenretogame", flag.ExitOnError)
	game := fs.String("game", "", "Game title or shorthand")
	genre := fs.String("genre", "", "Genre name")
	parseFlags(fs, args)
	requireFlag(fs, "game", *game)
	requireFlag(fs, "genre", *genre)

	if err := engine.AddGenreToGame(ctx, *game, *genre); err != nil {
		log.Fatalf("Error tagging game: %v", err)
	}
	fmt.Printf("Tagged %v with %v\n", *game, *genre)
}

func handleRemoveGenreFromGame(ctx context.Context, engine *fite.Engine,
	args []string) {

	fs := flag.NewFlagSet("removegenrefromgame", flag.ExitOnError)
	game := fs.String("game", "", "Game title or shorthand")
	genre := fs.String("genre", "", "Genre name")
	parseFlags(fs, args)
	requireFlag(fs, "game", *game)
	requireFlag(fs, "genre", *genre)

	if err := engine.RemoveGenreFromGame(ctx, *game, *genre); err != nil {
		log.Fatalf("Error untagging game: %v", err)
	}
	fmt.Printf("Removed %v from %v\n", *genre, *game)
}

// historyLines lists each resolved match once, from the winner's side,
// newest first. Only results still inside a player's recent window are
// known.
func historyLines(players []*fite.Player, since time.Time) []string {
	type entry struct {
		at   time.Time
		line string
	}
	var entries []entry
	for _, p := range players {
		for _, r := range p.Recent {
			if !r.Victory || r.ResolvedAt.Before(since) {
				continue
			}
			entries = append(entries, entry{
				at: r.ResolvedAt,
				line: fmt.Sprintf("%v  %v beat %v in %v (%.1f -> %.1f)",
					r.ResolvedAt.Format(time.RFC3339), p.Name, r.Opponent,
					r.Game, r.OldRating, r.NewRating),
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].at.Equal(entries[j].at) {
			return entries[i].at.After(entries[j].at)
		}
		return entries[i].line < entries[j].line
	})

	ret := make([]string, 0, len(entries))
	for _, e := range entries {
		ret = append(ret, e.line)
	}
	return ret
}

func handleHistory(ctx context.Context, engine *fite.Engine, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	sinceArg := fs.String("since", "7d",
		"Earliest resolution to show (date, duration, Nd, or null for all)")
	parseFlags(fs, args)

	since, err := internal.ParseSince(*sinceArg, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not parse --since %v: %v\n", *sinceArg, err)
		fs.Usage()
		os.Exit(1)
	}

	lines := historyLines(engine.Players(), since)
	if len(lines) == 0 {
		fmt.Printf("No matches resolved since %v\n", since.Format(time.RFC3339))
		return
	}
	for _, l := range lines {
		fmt.Println(l)
	}
}

func handleSeed(ctx context.Context, engine *fite.Engine, args []string) {
	report, err := seedCatalog(ctx, engine, catalogText)
	for _, line := range report {
		fmt.Println(line)
	}
	if err != nil {
		log.Fatalf("Error seeding catalog: %v", err)
	}
}
