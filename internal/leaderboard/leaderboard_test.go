package leaderboard

import (
	"testing"

	"casinochain/internal/state"
)

func player(n byte) [32]byte {
	var p [32]byte
	p[0] = n
	return p
}

func TestUpdate_InsertsSortedDescending(t *testing.T) {
	var lb state.Leaderboard
	var changed bool
	lb, changed = Update(lb, player(1), "a", 100)
	if !changed {
		t.Fatalf("expected first insert to change the board")
	}
	lb, changed = Update(lb, player(2), "b", 200)
	if !changed {
		t.Fatalf("expected second insert to change the board")
	}
	if lb.Entries[0].Player != player(2) || lb.Entries[1].Player != player(1) {
		t.Fatalf("expected descending order, got %+v", lb.Entries)
	}
}

func TestUpdate_CapsAtTenAndKeepsIncumbentOnTie(t *testing.T) {
	var lb state.Leaderboard
	for i := byte(1); i <= 10; i++ {
		lb, _ = Update(lb, player(i), "p", uint64(i)*100)
	}
	if len(lb.Entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(lb.Entries))
	}
	tenthChips := lb.Entries[9].Chips
	before := lb.Entries[9].Player
	next, changed := Update(lb, player(99), "newcomer", tenthChips)
	if changed {
		t.Fatalf("expected tie with 10th place to leave the board unchanged")
	}
	if next.Entries[9].Player != before {
		t.Fatalf("expected incumbent to remain in slot 10 on a tie")
	}
}

func TestUpdate_MovingPlayerReplacesOldEntry(t *testing.T) {
	var lb state.Leaderboard
	lb, _ = Update(lb, player(1), "a", 100)
	lb, _ = Update(lb, player(2), "b", 50)
	lb, changed := Update(lb, player(1), "a", 10)
	if !changed {
		t.Fatalf("expected reordering to change the board")
	}
	if len(lb.Entries) != 2 {
		t.Fatalf("expected player 1's old entry to be replaced, not duplicated: %+v", lb.Entries)
	}
	if lb.Entries[0].Player != player(2) {
		t.Fatalf("expected player 2 to now lead: %+v", lb.Entries)
	}
}

func TestUpdate_NoOpWhenTopTenContentsUnchanged(t *testing.T) {
	var lb state.Leaderboard
	lb, _ = Update(lb, player(1), "a", 100)
	_, changed := Update(lb, player(1), "a", 100)
	if changed {
		t.Fatalf("expected identical re-application to report unchanged")
	}
}
