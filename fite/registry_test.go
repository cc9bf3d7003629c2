/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

import (
	"context"
	"sync"
	"testing"
)

func TestAddPlayerCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, DefaultConfig())

	p, err := e.AddPlayer(ctx, "Alice")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.Name != "alice" {
		t.Fatalf("name not folded: %v", p.Name)
	}
	_, err = e.AddPlayer(ctx, "ALICE")
	expectCode(t, err, AlreadyRegistered)
	_, err = e.AddPlayer(ctx, "   ")
	expectCode(t, err, InvalidName)

	got, err := e.GetPlayer("aLiCe")
	if err != nil || got.Name != "alice" {
		t.Fatalf("case-insensitive lookup failed: %+v %v", got, err)
	}
	if !e.IsRegistered("ALICE") || e.IsRegistered("bob") {
		t.Fatalf("IsRegistered wrong")
	}
	if len(got.Rankings) != 0 || got.AverageRating != 0 {
		t.Fatalf("empty catalog should yield no rankings: %+v", got)
	}
	checkInvariants(t, e)
}

func TestGetPlayerReturnsCopy(t *testing.T) {
	e, _ := seedEngine(t, DefaultConfig())

	p, _ := e.GetPlayer("alice")
	p.Rankings["street fighter 6"].Rating = 9000
	p.CurrentMatch = "bogus"

	again, _ := e.GetPlayer("alice")
	if again.Rankings["street fighter 6"].Rating != 1500 || again.InMatch() {
		t.Fatalf("engine state leaked through GetPlayer: %+v", again)
	}
	checkInvariants(t, e)
}

func TestRemovePlayer(t *testing.T) {
	ctx := context.Background()
	e, _ := seedEngine(t, logisticConfig())

	expectCode(t, e.RemovePlayer(ctx, "mallory"), NotRegistered)

	playMatch(t, e, "alice", "bob", "sf6", "alice")
	if _, err := e.CreateChallenge(ctx, "bob", "alice", "sf6"); err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if err := e.RemovePlayer(ctx, "Bob"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	checkInvariants(t, e)

	_, err := e.GetPlayer("bob")
	expectCode(t, err, NotRegistered)
	alice, _ := e.GetPlayer("alice")
	if alice.InMatch() {
		t.Fatalf("opponent's match not discarded")
	}
	if _, ok := alice.Record("bob"); !ok {
		t.Fatalf("history against a removed player should be kept")
	}
	if len(e.Matches()) != 0 {
		t.Fatalf("match table not empty")
	}

	// a removed player may register again from scratch
	bob, err := e.AddPlayer(ctx, "bob")
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if bob.Rankings["street fighter 6"].Rating != 1500 || len(bob.Recent) != 0 {
		t.Fatalf("re-registered player kept old state: %+v", bob)
	}
}

func TestRegistryPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	e, fs := seedEngine(t, DefaultConfig())

	fs.setFail(true)
	_, err := e.AddPlayer(ctx, "carol")
	expectCode(t, err, PersistenceFailure)
	expectCode(t, e.RemovePlayer(ctx, "alice"), PersistenceFailure)
	fs.setFail(false)

	if e.IsRegistered("carol") {
		t.Errorf("carol registered despite failed save")
	}
	if !e.IsRegistered("alice") {
		t.Errorf("alice removed despite failed save")
	}
	checkInvariants(t, e)
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	ctx := context.Background()
	e, _ := seedEngine(t, logisticConfig())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = e.Players()
				_ = e.Games()
				_, _ = e.GetPlayerMatch("alice")
			}
		}()
	}
	for i := 0; i < 10; i++ {
		if _, err := e.CreateChallenge(ctx, "alice", "bob", "sf6"); err != nil {
			t.Fatalf("challenge: %v", err)
		}
		if _, err := e.AcceptChallenge(ctx, "bob"); err != nil {
			t.Fatalf("accept: %v", err)
		}
		if _, err := e.ReportLoss(ctx, "bob"); err != nil {
			t.Fatalf("report loss: %v", err)
		}
	}
	wg.Wait()
	checkInvariants(t, e)

	alice, _ := e.GetPlayer("alice")
	if alice.Rankings["street fighter 6"].MatchesPlayed != 10 {
		t.Fatalf("matches played = %v",
			alice.Rankings["street fighter 6"].MatchesPlayed)
	}
}
