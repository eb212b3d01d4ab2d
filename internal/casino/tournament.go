// Package casino implements the tournament lifecycle (§4.7): the
// Registration/Active/Complete ticker driven once per block from
// internal/driver, plus the CasinoJoinTournament mutation. The sibling
// top-10 chip standings live in internal/leaderboard, one layer further
// down, so internal/ledger can sit between the two without a cycle.
package casino

import (
	"sort"

	"casinochain/internal/codec"
	"casinochain/internal/events"
	"casinochain/internal/kv"
	"casinochain/internal/ledger"
	"casinochain/internal/state"
)

// Config carries the tournament lifecycle's two constants (spec.md §3.3:
// "Registration→Active at start_block+R, Active→Complete at
// start_block+R+A. R, A are configured constants."), bound from
// internal/config rather than compiled in.
type Config struct {
	RegistrationBlocks uint64
	ActiveBlocks       uint64
}

func LoadTournament(s kv.Store, id uint64) (state.Tournament, bool, error) {
	raw, ok, err := s.Get(state.TournamentKey(id))
	if err != nil || !ok {
		return state.Tournament{}, ok, err
	}
	t, err := state.DecodeTournament(raw)
	if err != nil {
		return state.Tournament{}, false, err
	}
	return t, true, nil
}

func saveTournament(s kv.Store, t state.Tournament) {
	s.Put(state.TournamentKey(t.ID), t.Encode())
}

// JoinTournament inserts pub into t's sorted player set if not already
// present and capacity remains, per spec.md §4.4's CasinoJoinTournament
// preconditions. Players are kept sorted by raw public key bytes so
// duplicate-membership checks are a binary search, not a linear scan.
func JoinTournament(s kv.Store, t state.Tournament, pub [32]byte) (state.Tournament, events.Event, error) {
	if t.Phase != state.TournamentRegistration {
		return t, events.CasinoError{Code: codec.ErrTournamentNotRegistering, Message: "tournament not registering"}, nil
	}
	idx := sort.Search(len(t.Players), func(i int) bool {
		return string(t.Players[i][:]) >= string(pub[:])
	})
	if idx < len(t.Players) && t.Players[idx] == pub {
		return t, events.CasinoError{Code: codec.ErrAlreadyInTournament, Message: "already joined"}, nil
	}
	if len(t.Players) >= 1000 {
		return t, events.CasinoError{Code: codec.ErrTournamentNotRegistering, Message: "tournament full"}, nil
	}
	players := make([][32]byte, len(t.Players)+1)
	copy(players[:idx], t.Players[:idx])
	players[idx] = pub
	copy(players[idx+1:], t.Players[idx:])
	t.Players = players
	saveTournament(s, t)
	return t, events.PlayerJoined{TournamentID: t.ID, Player: pub}, nil
}

// TickAll drives every non-Complete tournament's phase forward by one
// block, per spec.md §4.7: "on each block, for every non-Complete
// tournament, compute the phase implied by (current_view − start_block)
// and, on transition, emit TournamentPhaseChanged." On the Active
// transition every joined player's chips/shields/doubles reset to the
// tournament's starting stock (the natural reading of a "tournament" as
// a fresh-stack format; recorded as an Open Question resolution in
// DESIGN.md). On Complete it snapshots (player, chips) into Rankings.
func TickAll(s kv.Store, cfg Config, currentView uint64) ([]events.Event, error) {
	var out []events.Event
	err := s.Iterate([]byte{codec.KeyTournament}, func(key, value []byte) error {
		t, derr := state.DecodeTournament(value)
		if derr != nil {
			return derr
		}
		if t.Phase == state.TournamentComplete {
			return nil
		}
		evs, terr := tick(s, cfg, t, currentView)
		if terr != nil {
			return terr
		}
		out = append(out, evs...)
		return nil
	})
	return out, err
}

func tick(s kv.Store, cfg Config, t state.Tournament, currentView uint64) ([]events.Event, error) {
	if currentView < t.StartBlock {
		return nil, nil
	}
	elapsed := currentView - t.StartBlock
	var evs []events.Event
	if t.Phase == state.TournamentRegistration && elapsed >= cfg.RegistrationBlocks {
		t.Phase = state.TournamentActive
		for _, pub := range t.Players {
			p, ok, err := ledger.LoadPlayer(s, pub)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			p.Chips = t.StartingChips
			p.Shields = t.StartingShields
			p.Doubles = t.StartingDoubles
			p.ActiveShield = false
			p.ActiveDouble = false
			ledger.SavePlayer(s, pub, p)
			if lbEv, lerr := ledger.RefreshLeaderboard(s, pub, p.Name, p.Chips); lerr != nil {
				return nil, lerr
			} else if lbEv != nil {
				evs = append(evs, lbEv)
			}
		}
		saveTournament(s, t)
		evs = append(evs, events.TournamentPhaseChanged{TournamentID: t.ID, NewPhase: uint8(state.TournamentActive)})
	}
	if t.Phase == state.TournamentActive && elapsed >= cfg.RegistrationBlocks+cfg.ActiveBlocks {
		t.Phase = state.TournamentComplete
		t.Rankings = make([]state.RankingEntry, 0, len(t.Players))
		for _, pub := range t.Players {
			p, ok, err := ledger.LoadPlayer(s, pub)
			if err != nil {
				return nil, err
			}
			chips := uint64(0)
			if ok {
				chips = p.Chips
			}
			t.Rankings = append(t.Rankings, state.RankingEntry{Player: pub, Chips: chips})
		}
		sort.Slice(t.Rankings, func(i, j int) bool { return t.Rankings[i].Chips > t.Rankings[j].Chips })
		saveTournament(s, t)
		evs = append(evs, events.TournamentPhaseChanged{TournamentID: t.ID, NewPhase: uint8(state.TournamentComplete)})
		evs = append(evs, events.TournamentEnded{TournamentID: t.ID})
	}
	return evs, nil
}

// ForceEnd implements the admin EndTournament instruction: completes a
// tournament still in Registration or Active ahead of its scheduled
// boundary, reusing the same Complete-transition bookkeeping as the
// per-block ticker.
func ForceEnd(s kv.Store, t state.Tournament) ([]events.Event, error) {
	if t.Phase == state.TournamentComplete {
		return nil, nil
	}
	t.Phase = state.TournamentActive // fall through to the Active->Complete snapshot below
	return tick(s, Config{RegistrationBlocks: 0, ActiveBlocks: 0}, t, t.StartBlock)
}
