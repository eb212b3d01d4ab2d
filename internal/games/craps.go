package games

import (
	"encoding/binary"

	"casinochain/internal/rng"
)

// Craps state_blob layout: [phase][mainPoint][d1][d2][n][entries...] where
// entry (19 bytes) = [betType][target][status][amount:u64 BE][odds:u64 BE].
// Odds-taking is not modeled in this build (every entry carries odds=0);
// true-odds payouts are computed directly from amount at resolution time.
const (
	crapsPhaseComeOut = 0
	crapsPhasePoint   = 1

	crapsActionPlaceBet = 0
	crapsActionRoll     = 1
	crapsActionCashOut  = 2

	crapsBetPass      uint8 = 0
	crapsBetDontPass  uint8 = 1
	crapsBetCome      uint8 = 2
	crapsBetDontCome  uint8 = 3
	crapsBetField     uint8 = 4
	crapsBetYes       uint8 = 5
	crapsBetNo        uint8 = 6
	crapsBetNext      uint8 = 7
	crapsBetHardway4  uint8 = 8
	crapsBetHardway6  uint8 = 9
	crapsBetHardway8  uint8 = 10
	crapsBetHardway10 uint8 = 11

	crapsStatusPending = 0
	crapsStatusOn      = 1
)

type crapsEntry struct {
	betType uint8
	target  uint8
	status  uint8
	amount  uint64
	odds    uint64
}

type Craps struct{}

func crapsEncode(phase, mainPoint, d1, d2 uint8, entries []crapsEntry) []byte {
	out := make([]byte, 0, 4+4+len(entries)*19)
	out = append(out, phase, mainPoint, d1, d2)
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(entries)))
	out = append(out, n[:]...)
	for _, e := range entries {
		out = append(out, e.betType, e.target, e.status)
		var a, o [8]byte
		binary.BigEndian.PutUint64(a[:], e.amount)
		binary.BigEndian.PutUint64(o[:], e.odds)
		out = append(out, a[:]...)
		out = append(out, o[:]...)
	}
	return out
}

func crapsDecode(state []byte) (phase, mainPoint, d1, d2 uint8, entries []crapsEntry, err GameError) {
	if len(state) < 8 {
		return 0, 0, 0, 0, nil, InvalidPayload{Reason: "craps state too short"}
	}
	phase, mainPoint, d1, d2 = state[0], state[1], state[2], state[3]
	n := binary.BigEndian.Uint32(state[4:8])
	off := 8
	if n > 256 {
		return 0, 0, 0, 0, nil, InvalidPayload{Reason: "craps entry count too large"}
	}
	entries = make([]crapsEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		if off+19 > len(state) {
			return 0, 0, 0, 0, nil, InvalidPayload{Reason: "craps entries truncated"}
		}
		entries = append(entries, crapsEntry{
			betType: state[off],
			target:  state[off+1],
			status:  state[off+2],
			amount:  binary.BigEndian.Uint64(state[off+3 : off+11]),
			odds:    binary.BigEndian.Uint64(state[off+11 : off+19]),
		})
		off += 19
	}
	if off != len(state) {
		return 0, 0, 0, 0, nil, InvalidPayload{Reason: "craps state has trailing bytes"}
	}
	return phase, mainPoint, d1, d2, entries, nil
}

func (Craps) Init(g *rng.GameRng, bet uint64) ([]byte, GameResult, GameError) {
	return crapsEncode(crapsPhaseComeOut, 0, 0, 0, nil), Continue{}, nil
}

func (Craps) ProcessMove(g *rng.GameRng, state []byte, bet uint64, payload []byte) ([]byte, GameResult, GameError) {
	phase, mainPoint, _, _, entries, derr := crapsDecode(state)
	if derr != nil {
		return nil, nil, derr
	}
	if len(payload) < 1 {
		return nil, nil, InvalidPayload{Reason: "missing action byte"}
	}

	switch payload[0] {
	case crapsActionPlaceBet:
		if len(payload) < 11 {
			return nil, nil, InvalidPayload{Reason: "place-bet payload too short"}
		}
		betType, target := payload[1], payload[2]
		amount := binary.BigEndian.Uint64(payload[3:11])
		if betType > crapsBetHardway10 || amount == 0 {
			return nil, nil, InvalidMove{Reason: "invalid craps bet"}
		}
		entries = append(entries, crapsEntry{betType: betType, target: target, status: crapsStatusPending, amount: amount})
		if len(entries) > 256 {
			return nil, nil, InvalidMove{Reason: "too many entries"}
		}
		return crapsEncode(phase, mainPoint, 0, 0, entries), ContinueWithUpdate{Delta: -int64(amount)}, nil

	case crapsActionRoll:
		d1 := g.RollDie(6)
		d2 := g.RollDie(6)
		newEntries, delta, newPhase, newPoint := resolveCrapsRoll(entries, phase, mainPoint, d1, d2)
		newState := crapsEncode(newPhase, newPoint, d1, d2, newEntries)
		return newState, ContinueWithUpdate{Delta: delta}, nil

	case crapsActionCashOut:
		// Forfeits any still-pending/on bets; already-resolved chip
		// movement happened via prior ContinueWithUpdate calls.
		if len(entries) == 0 {
			return crapsEncode(phase, mainPoint, 0, 0, nil), Push{}, nil
		}
		return crapsEncode(crapsPhaseComeOut, 0, 0, 0, nil), Loss{}, nil

	default:
		return nil, nil, InvalidMove{Reason: "unknown craps action"}
	}
}

func resolveCrapsRoll(entries []crapsEntry, phase, mainPoint, d1, d2 uint8) ([]crapsEntry, int64, uint8, uint8) {
	sum := int(d1) + int(d2)
	hard := d1 == d2
	var delta int64
	kept := make([]crapsEntry, 0, len(entries))

	// 1. Single-roll bets: Field, Next.
	for _, e := range entries {
		switch e.betType {
		case crapsBetField:
			if payout, ok := fieldPayout(sum); ok {
				delta += int64(e.amount) * payout
			}
			continue // removed regardless of outcome
		case crapsBetNext:
			if sum == int(e.target) {
				odds := nextTrueOdds(sum)
				profit := int64(e.amount) * odds
				delta += profit - profit/100 // 1% commission
				delta += int64(e.amount)
			}
			continue
		}
		kept = append(kept, e)
	}
	entries, kept = kept, entries[:0]

	// 2. Hardways.
	for _, e := range entries {
		target, isHard := hardwayTarget(e.betType)
		if !isHard {
			kept = append(kept, e)
			continue
		}
		if sum == target && hard {
			odds := hardwayOdds(target)
			delta += int64(e.amount) * (odds + 1)
			continue
		}
		if sum == 7 || (sum == target && !hard) {
			continue // loses, removed
		}
		kept = append(kept, e)
	}
	entries, kept = kept, entries[:0]

	// 3. Place/Lay (Yes/No) on working bets.
	for _, e := range entries {
		if e.betType != crapsBetYes && e.betType != crapsBetNo {
			kept = append(kept, e)
			continue
		}
		if sum == int(e.target) {
			odds := trueOddsForNumber(int(e.target))
			if e.betType == crapsBetNo {
				odds = -odds // No bets pay the inverse side, modeled as a sign flip
			}
			var profit int64
			if odds >= 0 {
				profit = int64(e.amount) * odds
			} else {
				profit = int64(e.amount) / int64(-odds)
			}
			commission := profit / 100
			delta += int64(e.amount) + profit - commission
			continue
		}
		if sum == 7 {
			continue
		}
		kept = append(kept, e)
	}
	entries, kept = kept, entries[:0]

	// 4. Come/Don't Come travel & resolution.
	for _, e := range entries {
		if e.betType != crapsBetCome && e.betType != crapsBetDontCome {
			kept = append(kept, e)
			continue
		}
		if e.status == crapsStatusPending {
			switch {
			case sum == 7 || sum == 11:
				delta += int64(e.amount) * 2
				continue
			case sum == 2 || sum == 3 || sum == 12:
				continue
			case isComePoint(sum):
				e.status = crapsStatusOn
				e.target = uint8(sum)
				kept = append(kept, e)
			default:
				kept = append(kept, e)
			}
			continue
		}
		// On: traveled to a point.
		if sum == int(e.target) {
			delta += int64(e.amount) * 2
			continue
		}
		if sum == 7 {
			continue
		}
		kept = append(kept, e)
	}
	entries, kept = kept, entries[:0]

	// 5. Pass/Don't Pass & point update.
	newPhase, newPoint := phase, mainPoint
	for _, e := range entries {
		if e.betType != crapsBetPass && e.betType != crapsBetDontPass {
			kept = append(kept, e)
			continue
		}
		if phase == crapsPhaseComeOut {
			switch {
			case sum == 7 || sum == 11:
				delta += int64(e.amount) * 2
				continue
			case sum == 2 || sum == 3 || sum == 12:
				continue
			default:
				kept = append(kept, e)
			}
			continue
		}
		// Point phase.
		if sum == int(mainPoint) {
			delta += int64(e.amount) * 2
			continue
		}
		if sum == 7 {
			continue
		}
		kept = append(kept, e)
	}
	entries = kept

	if phase == crapsPhaseComeOut {
		if !(sum == 7 || sum == 11 || sum == 2 || sum == 3 || sum == 12) {
			newPhase = crapsPhasePoint
			newPoint = uint8(sum)
		}
	} else {
		if sum == int(mainPoint) || sum == 7 {
			newPhase = crapsPhaseComeOut
			newPoint = 0
			if sum == 7 {
				// seven-out: all working Yes/No/Come/Hardway bets were
				// already cleared above in their own resolution steps.
				entries = nil
			}
		}
	}

	return entries, delta, newPhase, newPoint
}

func fieldPayout(sum int) (int64, bool) {
	switch sum {
	case 2, 12:
		return 2, true
	case 3, 4, 9, 10, 11:
		return 1, true
	default:
		return 0, false
	}
}

func nextTrueOdds(sum int) int64 {
	switch sum {
	case 2, 12:
		return 30
	case 3, 11:
		return 15
	case 4, 10:
		return 8
	case 5, 9:
		return 6
	case 6, 8:
		return 5
	case 7:
		return 4
	default:
		return 0
	}
}

func hardwayTarget(betType uint8) (int, bool) {
	switch betType {
	case crapsBetHardway4:
		return 4, true
	case crapsBetHardway6:
		return 6, true
	case crapsBetHardway8:
		return 8, true
	case crapsBetHardway10:
		return 10, true
	default:
		return 0, false
	}
}

func hardwayOdds(target int) int64 {
	if target == 4 || target == 10 {
		return 7
	}
	return 9
}

func trueOddsForNumber(n int) int64 {
	switch n {
	case 4, 10:
		return 2
	case 5, 9:
		return 3
	case 6, 8:
		return 6
	default:
		return 0
	}
}

func isComePoint(sum int) bool {
	switch sum {
	case 4, 5, 6, 8, 9, 10:
		return true
	default:
		return false
	}
}
