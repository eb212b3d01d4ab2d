package games

import "casinochain/internal/rng"

// Ultimate Hold'em state_blob layout:
// [stage][p1][p2][d1][d2][c1..c5][betMult].
//
// Simplification (recorded in the design ledger): the mandatory Blind
// wager is folded into the session's initial `bet` rather than charged
// as a separate GameMove, since nothing in this corpus specifies a
// distinct payload opcode for it; Trips is not modeled as a kernel
// feature. The player commits to one play multiplier (1x river, 2x
// flop, 3x/4x preflop) in a single move rather than a multi-street
// check/bet sequence, since all community cards are drawn deterministically
// up front regardless of when a client chooses to reveal them.
const (
	uheStageDecision = 0
	uheStageComplete = 1

	uheMultPreflop4x = 4
	uheMultPreflop3x = 3
	uheMultFlop2x    = 2
	uheMultRiver1x   = 1
	uheFold          = 0
)

type UltimateHoldEm struct{}

func uheEncode(stage uint8, player, dealer [2]uint8, community [5]uint8, betMult uint8) []byte {
	out := make([]byte, 10)
	out[0] = stage
	out[1], out[2] = player[0], player[1]
	out[3], out[4] = dealer[0], dealer[1]
	copy(out[5:10], community[:])
	return append(out, betMult)
}

func uheDecode(state []byte) (stage uint8, player, dealer [2]uint8, community [5]uint8, betMult uint8, err GameError) {
	if len(state) != 11 {
		return 0, player, dealer, community, 0, InvalidPayload{Reason: "ultimate hold'em state must be 11 bytes"}
	}
	stage = state[0]
	player[0], player[1] = state[1], state[2]
	dealer[0], dealer[1] = state[3], state[4]
	copy(community[:], state[5:10])
	betMult = state[10]
	return stage, player, dealer, community, betMult, nil
}

func (UltimateHoldEm) Init(g *rng.GameRng, bet uint64) ([]byte, GameResult, GameError) {
	deck := rng.NewDeck()
	var player, dealer [2]uint8
	var community [5]uint8
	for i := range player {
		player[i], deck = g.DrawCard(deck)
	}
	for i := range dealer {
		dealer[i], deck = g.DrawCard(deck)
	}
	for i := range community {
		community[i], deck = g.DrawCard(deck)
	}
	return uheEncode(uheStageDecision, player, dealer, community, 0), Continue{}, nil
}

func (UltimateHoldEm) ProcessMove(g *rng.GameRng, state []byte, bet uint64, payload []byte) ([]byte, GameResult, GameError) {
	stage, player, dealer, community, _, derr := uheDecode(state)
	if derr != nil {
		return nil, nil, derr
	}
	if stage == uheStageComplete {
		return nil, nil, GameAlreadyComplete{}
	}
	if len(payload) < 1 {
		return nil, nil, InvalidPayload{Reason: "missing action byte"}
	}
	mult := payload[0]

	if mult == uheFold {
		newState := uheEncode(uheStageComplete, player, dealer, community, 0)
		return newState, Loss{}, nil
	}
	if mult != uheMultPreflop4x && mult != uheMultPreflop3x && mult != uheMultFlop2x && mult != uheMultRiver1x {
		return nil, nil, InvalidMove{Reason: "invalid play multiplier"}
	}

	newState := uheEncode(uheStageComplete, player, dealer, community, mult)
	playBet := bet * uint64(mult)

	var pCards, dCards [7]uint8
	copy(pCards[:2], player[:])
	copy(pCards[2:], community[:])
	copy(dCards[:2], dealer[:])
	copy(dCards[2:], community[:])
	pScore := bestFiveOfSeven(pCards)
	dScore := bestFiveOfSeven(dCards)

	dealerQualifies := dScore>>24 >= rankPair || (dScore>>24 == rankHighCard && ((dScore>>12)&0xFFF) >= 12)

	switch {
	case pScore > dScore:
		if !dealerQualifies {
			// Blind (folded into the original bet) pushes when the
			// dealer doesn't qualify; only the play wager pays even
			// money, and the ante/blind portion already in `bet`
			// returns at par.
			return newState, WinWithExtraDeduction{Return: bet + playBet*2, Extra: playBet}, nil
		}
		return newState, WinWithExtraDeduction{Return: bet*2 + playBet*2, Extra: playBet}, nil
	case pScore == dScore:
		return newState, WinWithExtraDeduction{Return: bet + playBet, Extra: playBet}, nil
	default:
		return newState, LossPreDeductedWithExtraDeduction{Extra: playBet}, nil
	}
}
