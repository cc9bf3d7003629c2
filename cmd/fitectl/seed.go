/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/mikeb26/fitebot/fite"
)

//go:embed catalog.txt
var catalogText string

type seedGame struct {
	title     string
	shorthand string
	genres    []string
}

// parseCatalog reads lines of either "genre" or "title | shorthand |
// genre, genre". Blank lines and lines starting with '#' are skipped.
func parseCatalog(text string) ([]string, []seedGame, error) {
	var genres []string
	var games []seedGame

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "|")
		switch len(fields) {
		case 1:
			genres = append(genres, line)
		case 2, 3:
			g := seedGame{
				title:     strings.TrimSpace(fields[0]),
				shorthand: strings.TrimSpace(fields[1]),
			}
			if len(fields) == 3 {
				for _, genre := range strings.Split(fields[2], ",") {
					if genre = strings.TrimSpace(genre); genre != "" {
						g.genres = append(g.genres, genre)
					}
				}
			}
			games = append(games, g)
		default:
			return nil, nil, fmt.Errorf("catalog line %v: expected at most 3 fields, got %v",
				lineNum, len(fields))
		}
	}

	return genres, games, scanner.Err()
}

// seedCatalog adds every genre and game in text that the engine doesn't
// already have. It returns a line per change or skip.
func seedCatalog(ctx context.Context, engine *fite.Engine,
	text string) ([]string, error) {

	genres, games, err := parseCatalog(text)
	if err != nil {
		return nil, err
	}

	var report []string
	for _, genre := range genres {
		err := engine.AddGenre(ctx, genre)
		switch fite.CodeOf(err) {
		case fite.CodeUnknown:
			if err != nil {
				return report, err
			}
			report = append(report, fmt.Sprintf("added genre %v", genre))
		case fite.GenreDuplicate:
			report = append(report, fmt.Sprintf("skipped genre %v: exists", genre))
		default:
			return report, err
		}
	}

	for _, g := range games {
		_, err := engine.AddGame(ctx, g.title, g.shorthand)
		switch fite.CodeOf(err) {
		case fite.CodeUnknown:
			if err != nil {
				return report, err
			}
			report = append(report, fmt.Sprintf("added game %v (%v)", g.title,
				g.shorthand))
		case fite.GameTitleTaken, fite.GameShorthandTaken:
			report = append(report, fmt.Sprintf("skipped game %v: %v", g.title,
				err))
			continue
		default:
			return report, err
		}

		for _, genre := range g.genres {
			err := engine.AddGenreToGame(ctx, g.title, genre)
			if err != nil {
				// best effort; one bad tag shouldn't stop the seed
				report = append(report, fmt.Sprintf("skipped tag %v on %v: %v",
					genre, g.title, err))
			}
		}
	}

	return report, nil
}
