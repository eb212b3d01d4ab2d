package games

import (
	"encoding/binary"

	"casinochain/internal/rng"
)

// Roulette state_blob layout: [stage][lastResult][n][entries...] where
// entry = [betType][target][amount:u64 BE].
const (
	rouStageBetting  = 0
	rouStageComplete = 1

	rouActionPlaceBet = 0
	rouActionSpin     = 1

	rouBetStraight uint8 = 0
	rouBetRed      uint8 = 1
	rouBetBlack    uint8 = 2
	rouBetEven     uint8 = 3
	rouBetOdd      uint8 = 4
	rouBetLow      uint8 = 5
	rouBetHigh     uint8 = 6
	rouBetDozen    uint8 = 7
	rouBetColumn   uint8 = 8
)

var rouRedNumbers = map[uint8]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true,
	18: true, 19: true, 21: true, 23: true, 25: true, 27: true, 30: true,
	32: true, 34: true, 36: true,
}

type rouEntry struct {
	betType uint8
	target  uint8
	amount  uint64
}

type Roulette struct{}

func rouEncode(stage, lastResult uint8, entries []rouEntry) []byte {
	out := make([]byte, 0, 2+4+len(entries)*10)
	out = append(out, stage, lastResult)
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(entries)))
	out = append(out, n[:]...)
	for _, e := range entries {
		out = append(out, e.betType, e.target)
		var a [8]byte
		binary.BigEndian.PutUint64(a[:], e.amount)
		out = append(out, a[:]...)
	}
	return out
}

func rouDecode(state []byte) (stage, lastResult uint8, entries []rouEntry, err GameError) {
	if len(state) < 6 {
		return 0, 0, nil, InvalidPayload{Reason: "roulette state too short"}
	}
	stage = state[0]
	lastResult = state[1]
	n := binary.BigEndian.Uint32(state[2:6])
	off := 6
	if int(n) > 256 {
		return 0, 0, nil, InvalidPayload{Reason: "roulette entry count too large"}
	}
	entries = make([]rouEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		if off+10 > len(state) {
			return 0, 0, nil, InvalidPayload{Reason: "roulette entries truncated"}
		}
		entries = append(entries, rouEntry{
			betType: state[off],
			target:  state[off+1],
			amount:  binary.BigEndian.Uint64(state[off+2 : off+10]),
		})
		off += 10
	}
	if off != len(state) {
		return 0, 0, nil, InvalidPayload{Reason: "roulette state has trailing bytes"}
	}
	return stage, lastResult, entries, nil
}

func (Roulette) Init(g *rng.GameRng, bet uint64) ([]byte, GameResult, GameError) {
	return rouEncode(rouStageBetting, 0, nil), Continue{}, nil
}

func (Roulette) ProcessMove(g *rng.GameRng, state []byte, bet uint64, payload []byte) ([]byte, GameResult, GameError) {
	stage, lastResult, entries, derr := rouDecode(state)
	if derr != nil {
		return nil, nil, derr
	}
	if stage == rouStageComplete {
		return nil, nil, GameAlreadyComplete{}
	}
	if len(payload) < 1 {
		return nil, nil, InvalidPayload{Reason: "missing action byte"}
	}

	switch payload[0] {
	case rouActionPlaceBet:
		if len(payload) < 11 {
			return nil, nil, InvalidPayload{Reason: "place-bet payload too short"}
		}
		betType := payload[1]
		target := payload[2]
		amount := binary.BigEndian.Uint64(payload[3:11])
		if betType > rouBetColumn || amount == 0 {
			return nil, nil, InvalidMove{Reason: "invalid roulette bet"}
		}
		entries = append(entries, rouEntry{betType: betType, target: target, amount: amount})
		if len(entries) > 256 {
			return nil, nil, InvalidMove{Reason: "too many entries"}
		}
		return rouEncode(stage, lastResult, entries), ContinueWithUpdate{Delta: -int64(amount)}, nil

	case rouActionSpin:
		if len(entries) == 0 {
			return nil, nil, InvalidMove{Reason: "no bets placed"}
		}
		result := uint8(g.SpinWheel(37))
		var total uint64
		for _, e := range entries {
			total += rouPayout(e, result)
		}
		newState := rouEncode(rouStageComplete, result, entries)
		if total == 0 {
			return newState, Loss{}, nil
		}
		return newState, Win{Amount: total}, nil

	default:
		return nil, nil, InvalidMove{Reason: "unknown roulette action"}
	}
}

func rouPayout(e rouEntry, result uint8) uint64 {
	switch e.betType {
	case rouBetStraight:
		if e.target == result {
			return e.amount * 36
		}
	case rouBetRed:
		if result != 0 && rouRedNumbers[result] {
			return e.amount * 2
		}
	case rouBetBlack:
		if result != 0 && !rouRedNumbers[result] {
			return e.amount * 2
		}
	case rouBetEven:
		if result != 0 && result%2 == 0 {
			return e.amount * 2
		}
	case rouBetOdd:
		if result != 0 && result%2 == 1 {
			return e.amount * 2
		}
	case rouBetLow:
		if result >= 1 && result <= 18 {
			return e.amount * 2
		}
	case rouBetHigh:
		if result >= 19 && result <= 36 {
			return e.amount * 2
		}
	case rouBetDozen:
		if result != 0 {
			dozen := (result - 1) / 12
			if dozen == e.target {
				return e.amount * 3
			}
		}
	case rouBetColumn:
		if result != 0 {
			col := (result - 1) % 3
			if col == e.target {
				return e.amount * 3
			}
		}
	}
	return 0
}
