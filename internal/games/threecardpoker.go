package games

import (
	"encoding/binary"

	"casinochain/internal/rng"
)

// Three Card Poker state_blob layout:
// [stage][p1][p2][p3][d1][d2][d3][pairPlusBet:u64 BE].
const (
	tcpStageDecision = 0
	tcpStageComplete = 1

	tcpActionPairPlus = 0
	tcpActionFold     = 1
	tcpActionPlay     = 2
)

type ThreeCardPoker struct{}

func tcpEncode(stage uint8, player, dealer [3]uint8, pairPlusBet uint64) []byte {
	out := make([]byte, 15)
	out[0] = stage
	copy(out[1:4], player[:])
	copy(out[4:7], dealer[:])
	binary.BigEndian.PutUint64(out[7:15], pairPlusBet)
	return out
}

func tcpDecode(state []byte) (stage uint8, player, dealer [3]uint8, pairPlusBet uint64, err GameError) {
	if len(state) != 15 {
		return 0, player, dealer, 0, InvalidPayload{Reason: "three card poker state must be 15 bytes"}
	}
	stage = state[0]
	copy(player[:], state[1:4])
	copy(dealer[:], state[4:7])
	pairPlusBet = binary.BigEndian.Uint64(state[7:15])
	return stage, player, dealer, pairPlusBet, nil
}

func (ThreeCardPoker) Init(g *rng.GameRng, bet uint64) ([]byte, GameResult, GameError) {
	deck := rng.NewDeck()
	var player, dealer [3]uint8
	for i := range player {
		player[i], deck = g.DrawCard(deck)
	}
	for i := range dealer {
		dealer[i], deck = g.DrawCard(deck)
	}
	return tcpEncode(tcpStageDecision, player, dealer, 0), Continue{}, nil
}

func (ThreeCardPoker) ProcessMove(g *rng.GameRng, state []byte, bet uint64, payload []byte) ([]byte, GameResult, GameError) {
	stage, player, dealer, pairPlusBet, derr := tcpDecode(state)
	if derr != nil {
		return nil, nil, derr
	}
	if stage == tcpStageComplete {
		return nil, nil, GameAlreadyComplete{}
	}
	if len(payload) < 1 {
		return nil, nil, InvalidPayload{Reason: "missing action byte"}
	}

	switch payload[0] {
	case tcpActionPairPlus:
		if len(payload) < 9 {
			return nil, nil, InvalidPayload{Reason: "pair-plus payload too short"}
		}
		amount := binary.BigEndian.Uint64(payload[1:9])
		if amount == 0 {
			return nil, nil, InvalidMove{Reason: "zero-amount side bet"}
		}
		return tcpEncode(stage, player, dealer, pairPlusBet+amount), ContinueWithUpdate{Delta: -int64(amount)}, nil

	case tcpActionFold:
		newState := tcpEncode(tcpStageComplete, player, dealer, pairPlusBet)
		pp := pairPlusPayout(player[:], pairPlusBet)
		if pp == 0 {
			return newState, Loss{}, nil
		}
		return newState, Win{Amount: pp}, nil

	case tcpActionPlay:
		newState := tcpEncode(tcpStageComplete, player, dealer, pairPlusBet)
		pp := pairPlusPayout(player[:], pairPlusBet)
		if !dealerQualifies(dealer[:]) {
			return newState, WinWithExtraDeduction{Return: bet*2 + pp, Extra: bet}, nil
		}
		pScore := threeCardScore(player[:])
		dScore := threeCardScore(dealer[:])
		switch {
		case pScore > dScore:
			return newState, WinWithExtraDeduction{Return: bet*4 + pp, Extra: bet}, nil
		case pScore == dScore:
			return newState, WinWithExtraDeduction{Return: bet*2 + pp, Extra: bet}, nil
		default:
			return newState, WinWithExtraDeduction{Return: pp, Extra: bet}, nil
		}

	default:
		return nil, nil, InvalidMove{Reason: "unknown three card poker action"}
	}
}

func dealerQualifies(cards []uint8) bool {
	// Queen-high or better: any pair/trips/straight/flush qualifies, or a
	// high card hand with a rank >= Queen (rank 10) present alongside a
	// second card that keeps it from being the lowest possible holding.
	score := threeCardScore(cards)
	return score >= queenHighFloor(cards)
}

// queenHighFloor returns the score of the weakest Queen-high hand, used
// as the dealer's qualification threshold.
func queenHighFloor(cards []uint8) uint64 {
	return uint64(tcpCategoryHighCard)<<32 | uint64(10)<<16
}

const (
	tcpCategoryHighCard    = 0
	tcpCategoryPair        = 1
	tcpCategoryFlush       = 2
	tcpCategoryStraight    = 3
	tcpCategoryThreeOfKind = 4
	tcpCategoryStraightFlush = 5
)

// threeCardScore packs (category, tiebreak ranks) into a single
// comparable integer, high is better.
func threeCardScore(cards []uint8) uint64 {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = int(rankOf(c))
	}
	flush := suitOf(cards[0]) == suitOf(cards[1]) && suitOf(cards[1]) == suitOf(cards[2])
	straight := isThreeCardStraight(ranks)

	counts := map[int]int{}
	for _, r := range ranks {
		counts[r]++
	}
	var trips, pairRank, highRank int = -1, -1, -1
	for r, n := range counts {
		if n == 3 {
			trips = r
		}
		if n == 2 {
			pairRank = r
		}
	}
	for _, r := range ranks {
		if r > highRank {
			highRank = r
		}
	}

	switch {
	case straight && flush:
		return uint64(tcpCategoryStraightFlush)<<32 | uint64(highRank)<<16
	case trips >= 0:
		return uint64(tcpCategoryThreeOfKind)<<32 | uint64(trips)<<16
	case straight:
		return uint64(tcpCategoryStraight)<<32 | uint64(highRank)<<16
	case flush:
		return uint64(tcpCategoryFlush)<<32 | uint64(highRank)<<16
	case pairRank >= 0:
		return uint64(tcpCategoryPair)<<32 | uint64(pairRank)<<16
	default:
		return uint64(tcpCategoryHighCard)<<32 | uint64(highRank)<<16
	}
}

func isThreeCardStraight(ranks []int) bool {
	a, b, c := ranks[0], ranks[1], ranks[2]
	if a == b || b == c || a == c {
		return false
	}
	lo, mid, hi := minOf3(a, b, c), midOf3(a, b, c), maxOf3(a, b, c)
	if hi-lo == 2 && mid == lo+1 {
		return true
	}
	// Ace(12)-2(0)-3(1) low straight.
	return lo == 0 && mid == 1 && hi == 12
}

func minOf3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxOf3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func midOf3(a, b, c int) int {
	return a + b + c - minOf3(a, b, c) - maxOf3(a, b, c)
}

// pairPlusPayout evaluates the side bet independently of the main hand.
func pairPlusPayout(cards []uint8, wager uint64) uint64 {
	if wager == 0 {
		return 0
	}
	score := threeCardScore(cards)
	category := score >> 32
	switch category {
	case tcpCategoryStraightFlush:
		return wager + wager*40
	case tcpCategoryThreeOfKind:
		return wager + wager*30
	case tcpCategoryStraight:
		return wager + wager*6
	case tcpCategoryFlush:
		return wager + wager*3
	case tcpCategoryPair:
		return wager + wager
	default:
		return 0
	}
}
