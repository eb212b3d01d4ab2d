// Package leaderboard implements the top-10 chip standings (spec.md
// §4.7/§3.2 invariant 5). It has no dependency on the executor or the
// casino tournament ticker so internal/ledger (the shared chip-mutation
// choke point) can sit between them without an import cycle.
package leaderboard

import (
	"sort"

	"casinochain/internal/state"
)

const cap10 = 10

// Update recomputes the top-10 standings after player's chip total
// changed to newChips. It reports whether the visible top-10 contents
// actually changed, so the caller can suppress CasinoLeaderboardUpdated
// on a no-op update (§9 Open Question 3, resolved in DESIGN.md: not
// emitted on zero-delta updates).
func Update(lb state.Leaderboard, player [32]byte, name string, newChips uint64) (state.Leaderboard, bool) {
	filtered := make([]state.LeaderboardEntry, 0, len(lb.Entries))
	for _, e := range lb.Entries {
		if e.Player == player {
			continue
		}
		filtered = append(filtered, e)
	}
	entry := state.LeaderboardEntry{Player: player, Name: name, Chips: newChips}
	next := insertSorted(filtered, entry)
	changed := !sameContents(lb.Entries, next)
	return state.Leaderboard{Entries: next}, changed
}

// insertSorted places e into entries (already sorted chips DESC, length
// <= cap10) using binary search with the reversed comparator: the
// insertion point is the first position whose chips are strictly less
// than e's, so ties keep the incumbent ahead of a new entry with the
// same chip count (spec.md invariant 5). If e does not make the top 10
// the returned slice is unchanged in content.
func insertSorted(entries []state.LeaderboardEntry, e state.LeaderboardEntry) []state.LeaderboardEntry {
	idx := sort.Search(len(entries), func(i int) bool {
		return entries[i].Chips < e.Chips
	})
	if idx == len(entries) && len(entries) >= cap10 {
		return entries
	}
	out := make([]state.LeaderboardEntry, len(entries)+1)
	copy(out[:idx], entries[:idx])
	out[idx] = e
	copy(out[idx+1:], entries[idx:])
	if len(out) > cap10 {
		out = out[:cap10]
	}
	return out
}

func sameContents(a, b []state.LeaderboardEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Player != b[i].Player || a[i].Chips != b[i].Chips || a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}
