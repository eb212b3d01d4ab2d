package games

import "casinochain/internal/rng"

// Video Poker (Jacks-or-Better) state_blob layout:
// [stage][c1][c2][c3][c4][c5][holdMask].
const (
	vpStageDealt    = 0
	vpStageComplete = 1
)

type VideoPoker struct{}

func vpEncode(stage uint8, cards [5]uint8, holdMask uint8) []byte {
	return []byte{stage, cards[0], cards[1], cards[2], cards[3], cards[4], holdMask}
}

func vpDecode(state []byte) (stage uint8, cards [5]uint8, holdMask uint8, err GameError) {
	if len(state) != 7 {
		return 0, cards, 0, InvalidPayload{Reason: "video poker state must be 7 bytes"}
	}
	stage = state[0]
	copy(cards[:], state[1:6])
	holdMask = state[6]
	return stage, cards, holdMask, nil
}

func (VideoPoker) Init(g *rng.GameRng, bet uint64) ([]byte, GameResult, GameError) {
	deck := rng.NewDeck()
	var cards [5]uint8
	for i := range cards {
		cards[i], deck = g.DrawCard(deck)
	}
	return vpEncode(vpStageDealt, cards, 0), Continue{}, nil
}

func (VideoPoker) ProcessMove(g *rng.GameRng, state []byte, bet uint64, payload []byte) ([]byte, GameResult, GameError) {
	stage, cards, _, derr := vpDecode(state)
	if derr != nil {
		return nil, nil, derr
	}
	if stage == vpStageComplete {
		return nil, nil, GameAlreadyComplete{}
	}
	if len(payload) < 1 {
		return nil, nil, InvalidPayload{Reason: "missing hold mask"}
	}
	holdMask := payload[0]
	if holdMask >= 1<<5 {
		return nil, nil, InvalidMove{Reason: "hold mask out of range"}
	}

	deck := remainingShoeDeck(cards[:])
	for i := range cards {
		if holdMask&(1<<uint(i)) == 0 {
			cards[i], deck = g.DrawCard(deck)
		}
	}

	newState := vpEncode(vpStageComplete, cards, holdMask)
	multiplier := vpPaytable(cards[:])
	if multiplier == 0 {
		return newState, Loss{}, nil
	}
	return newState, Win{Amount: bet + bet*multiplier}, nil
}

// vpPaytable returns the profit multiplier for a 5-card hand under a
// standard Jacks-or-Better paytable (9/6 full-pay with an 800:1 royal),
// or 0 if the hand pays nothing.
func vpPaytable(cards []uint8) uint64 {
	ranks := make(map[uint8]int, 5)
	suits := make(map[uint8]int, 5)
	for _, c := range cards {
		ranks[rankOf(c)]++
		suits[suitOf(c)]++
	}
	flush := len(suits) == 1
	straight, highStraight := isStraight(cards)

	counts := make([]int, 0, len(ranks))
	for _, n := range ranks {
		counts = append(counts, n)
	}
	hasFour, hasThree, pairs := false, false, 0
	for _, n := range counts {
		switch n {
		case 4:
			hasFour = true
		case 3:
			hasThree = true
		case 2:
			pairs++
		}
	}

	switch {
	case flush && straight && highStraight:
		return 800
	case flush && straight:
		return 50
	case hasFour:
		return 25
	case hasThree && pairs == 1:
		return 9
	case flush:
		return 6
	case straight:
		return 4
	case hasThree:
		return 3
	case pairs == 2:
		return 2
	case pairs == 1:
		return jacksOrBetterPair(ranks)
	default:
		return 0
	}
}

// jacksOrBetterPair returns 1 if the single pair present is Jacks or
// better (rank 9=J, 10=Q, 11=K, 12=A), else 0.
func jacksOrBetterPair(ranks map[uint8]int) uint64 {
	for r, n := range ranks {
		if n == 2 && r >= 9 {
			return 1
		}
	}
	return 0
}

// isStraight reports whether the five ranks form a straight, and whether
// it is the top straight (10-J-Q-K-A, needed to distinguish a royal).
func isStraight(cards []uint8) (ok bool, isHigh bool) {
	rs := make([]int, len(cards))
	for i, c := range cards {
		rs[i] = int(rankOf(c))
	}
	seen := make(map[int]bool, 5)
	min, max := 99, -1
	for _, r := range rs {
		if seen[r] {
			return false, false
		}
		seen[r] = true
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	// Ace (12) low straight: A-2-3-4-5 -> ranks {12,0,1,2,3}.
	if seen[12] && seen[0] && seen[1] && seen[2] && seen[3] {
		return true, false
	}
	if max-min == 4 {
		return true, max == 12 && min == 8 // 10(8)-J-Q-K-A(12)
	}
	return false, false
}
