/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

import (
	"time"

	"github.com/google/uuid"
)

// MatchID identifies a match in the engine's match table. Players hold
// only the id.
type MatchID string

func newMatchID() MatchID {
	return MatchID(uuid.NewString())
}

type MatchState int

const (
	Pending MatchState = iota
	Active
)

func (s MatchState) String() string {
	if s == Active {
		return "active"
	}
	return "pending"
}

// Match is a challenge between two players in one game. Only the Engine
// creates or changes matches.
type Match struct {
	ID            MatchID
	Initiator     string
	Challenged    string
	Game          string
	State         MatchState
	PendingVictor string
	// TrueVictor is set only on the copy returned from a resolution.
	TrueVictor string
	CreatedAt  time.Time
}

// Opponent returns the other participant, or "" if name is not in the
// match.
func (m *Match) Opponent(name string) string {
	name = Canonical(name)
	if name == m.Initiator {
		return m.Challenged
	} else if name == m.Challenged {
		return m.Initiator
	}
	return ""
}

func (m *Match) Involves(name string) bool {
	return m.Opponent(name) != ""
}

func (m *Match) clone() *Match {
	c := *m
	return &c
}

// Resolution is what an officiated match produced.
type Resolution struct {
	Match      Match
	Initiator  MatchResult
	Challenged MatchResult
}

func (r *Resolution) Winner() string {
	return r.Match.TrueVictor
}

func (r *Resolution) Loser() string {
	return r.Match.Opponent(r.Match.TrueVictor)
}

// ResultFor returns the named participant's MatchResult.
func (r *Resolution) ResultFor(name string) (MatchResult, bool) {
	name = Canonical(name)
	if name == r.Match.Initiator {
		return r.Initiator, true
	} else if name == r.Match.Challenged {
		return r.Challenged, true
	}
	return MatchResult{}, false
}
