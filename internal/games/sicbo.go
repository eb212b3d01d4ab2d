package games

import (
	"encoding/binary"

	"casinochain/internal/rng"
)

// Sic Bo state_blob layout: [stage][d1][d2][d3][n][entries...] where
// entry = [betType][t1][t2][amount:u64 BE].
const (
	sicStageBetting  = 0
	sicStageComplete = 1

	sicActionPlaceBet = 0
	sicActionRoll     = 1

	sicBetSmall       uint8 = 0 // total 4-10, no triple
	sicBetBig         uint8 = 1 // total 11-17, no triple
	sicBetSpecTriple  uint8 = 2 // t1 = face, all three match
	sicBetAnyTriple   uint8 = 3
	sicBetTotal       uint8 = 4 // t1 = total 4-17
	sicBetSingle      uint8 = 5 // t1 = face, pays per matching die
	sicBetCombination uint8 = 6 // t1,t2 = two distinct faces, both must appear
)

type sicEntry struct {
	betType uint8
	t1, t2  uint8
	amount  uint64
}

type SicBo struct{}

func sicEncode(stage uint8, dice [3]uint8, entries []sicEntry) []byte {
	out := make([]byte, 0, 4+4+len(entries)*11)
	out = append(out, stage, dice[0], dice[1], dice[2])
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(entries)))
	out = append(out, n[:]...)
	for _, e := range entries {
		out = append(out, e.betType, e.t1, e.t2)
		var a [8]byte
		binary.BigEndian.PutUint64(a[:], e.amount)
		out = append(out, a[:]...)
	}
	return out
}

func sicDecode(state []byte) (stage uint8, dice [3]uint8, entries []sicEntry, err GameError) {
	if len(state) < 8 {
		return 0, dice, nil, InvalidPayload{Reason: "sicbo state too short"}
	}
	stage = state[0]
	dice[0], dice[1], dice[2] = state[1], state[2], state[3]
	n := binary.BigEndian.Uint32(state[4:8])
	off := 8
	if n > 256 {
		return 0, dice, nil, InvalidPayload{Reason: "sicbo entry count too large"}
	}
	entries = make([]sicEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		if off+11 > len(state) {
			return 0, dice, nil, InvalidPayload{Reason: "sicbo entries truncated"}
		}
		entries = append(entries, sicEntry{
			betType: state[off],
			t1:      state[off+1],
			t2:      state[off+2],
			amount:  binary.BigEndian.Uint64(state[off+3 : off+11]),
		})
		off += 11
	}
	if off != len(state) {
		return 0, dice, nil, InvalidPayload{Reason: "sicbo state has trailing bytes"}
	}
	return stage, dice, entries, nil
}

func (SicBo) Init(g *rng.GameRng, bet uint64) ([]byte, GameResult, GameError) {
	return sicEncode(sicStageBetting, [3]uint8{}, nil), Continue{}, nil
}

func (SicBo) ProcessMove(g *rng.GameRng, state []byte, bet uint64, payload []byte) ([]byte, GameResult, GameError) {
	stage, dice, entries, derr := sicDecode(state)
	if derr != nil {
		return nil, nil, derr
	}
	if stage == sicStageComplete {
		return nil, nil, GameAlreadyComplete{}
	}
	if len(payload) < 1 {
		return nil, nil, InvalidPayload{Reason: "missing action byte"}
	}

	switch payload[0] {
	case sicActionPlaceBet:
		if len(payload) < 12 {
			return nil, nil, InvalidPayload{Reason: "place-bet payload too short"}
		}
		betType, t1, t2 := payload[1], payload[2], payload[3]
		amount := binary.BigEndian.Uint64(payload[4:12])
		if betType > sicBetCombination || amount == 0 {
			return nil, nil, InvalidMove{Reason: "invalid sicbo bet"}
		}
		entries = append(entries, sicEntry{betType: betType, t1: t1, t2: t2, amount: amount})
		if len(entries) > 256 {
			return nil, nil, InvalidMove{Reason: "too many entries"}
		}
		return sicEncode(stage, dice, entries), ContinueWithUpdate{Delta: -int64(amount)}, nil

	case sicActionRoll:
		if len(entries) == 0 {
			return nil, nil, InvalidMove{Reason: "no bets placed"}
		}
		dice = [3]uint8{g.RollDie(6), g.RollDie(6), g.RollDie(6)}
		var total uint64
		for _, e := range entries {
			total += sicPayout(e, dice)
		}
		newState := sicEncode(sicStageComplete, dice, entries)
		if total == 0 {
			return newState, Loss{}, nil
		}
		return newState, Win{Amount: total}, nil

	default:
		return nil, nil, InvalidMove{Reason: "unknown sicbo action"}
	}
}

func sicPayout(e sicEntry, dice [3]uint8) uint64 {
	isTriple := dice[0] == dice[1] && dice[1] == dice[2]
	sum := int(dice[0]) + int(dice[1]) + int(dice[2])
	switch e.betType {
	case sicBetSmall:
		if !isTriple && sum >= 4 && sum <= 10 {
			return e.amount * 2
		}
	case sicBetBig:
		if !isTriple && sum >= 11 && sum <= 17 {
			return e.amount * 2
		}
	case sicBetSpecTriple:
		if isTriple && dice[0] == e.t1 {
			return e.amount * 181
		}
	case sicBetAnyTriple:
		if isTriple {
			return e.amount * 31
		}
	case sicBetTotal:
		if uint8(sum) == e.t1 {
			return e.amount * totalOdds(sum)
		}
	case sicBetSingle:
		count := uint64(0)
		for _, d := range dice {
			if d == e.t1 {
				count++
			}
		}
		if count > 0 {
			return e.amount * (count + 1)
		}
	case sicBetCombination:
		has1, has2 := false, false
		for _, d := range dice {
			if d == e.t1 {
				has1 = true
			}
			if d == e.t2 {
				has2 = true
			}
		}
		if has1 && has2 && e.t1 != e.t2 {
			return e.amount * 6
		}
	}
	return 0
}

func totalOdds(sum int) uint64 {
	switch sum {
	case 4, 17:
		return 61
	case 5, 16:
		return 31
	case 6, 15:
		return 18
	case 7, 14:
		return 13
	case 8, 13:
		return 9
	case 9, 10, 11, 12:
		return 7
	default:
		return 0
	}
}
