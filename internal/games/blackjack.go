package games

import "casinochain/internal/rng"

// Blackjack state_blob layout: [pLen][pCards...][dLen][dCards...][stage].
// Stage 0 = player turn, stage 1 = dealer turn, stage 2 = complete. The
// split/multi-hand extension is treated as UI-only in this build (see the
// design ledger's open-question note) — state_blob never grows per-hand
// sub-blocks; every session carries exactly one hand.
const (
	bjStagePlayerTurn = 0
	bjStageDealerTurn = 1
	bjStageComplete   = 2

	bjActionHit    = 0
	bjActionStand  = 1
	bjActionDouble = 2
)

type Blackjack struct{}

func bjEncode(player, dealer []uint8, stage uint8) []byte {
	out := make([]byte, 0, 2+len(player)+len(dealer)+1)
	out = append(out, uint8(len(player)))
	out = append(out, player...)
	out = append(out, uint8(len(dealer)))
	out = append(out, dealer...)
	out = append(out, stage)
	return out
}

func bjDecode(state []byte) (player, dealer []uint8, stage uint8, err GameError) {
	if len(state) < 2 {
		return nil, nil, 0, InvalidPayload{Reason: "blackjack state too short"}
	}
	off := 0
	pLen := int(state[off])
	off++
	if off+pLen+1 > len(state) {
		return nil, nil, 0, InvalidPayload{Reason: "blackjack player block truncated"}
	}
	player = append([]uint8(nil), state[off:off+pLen]...)
	off += pLen
	dLen := int(state[off])
	off++
	if off+dLen+1 > len(state) {
		return nil, nil, 0, InvalidPayload{Reason: "blackjack dealer block truncated"}
	}
	dealer = append([]uint8(nil), state[off:off+dLen]...)
	off += dLen
	stage = state[off]
	off++
	if off != len(state) {
		return nil, nil, 0, InvalidPayload{Reason: "blackjack state has trailing bytes"}
	}
	return player, dealer, stage, nil
}

func (Blackjack) Init(g *rng.GameRng, bet uint64) ([]byte, GameResult, GameError) {
	deck := rng.NewDeck()
	var player, dealer []uint8
	var c uint8
	c, deck = g.DrawCard(deck)
	player = append(player, c)
	c, deck = g.DrawCard(deck)
	dealer = append(dealer, c)
	c, deck = g.DrawCard(deck)
	player = append(player, c)
	c, deck = g.DrawCard(deck)
	dealer = append(dealer, c)

	playerBJ := isBlackjack(player)
	dealerBJ := isBlackjack(dealer)
	if playerBJ || dealerBJ {
		state := bjEncode(player, dealer, bjStageComplete)
		switch {
		case playerBJ && dealerBJ:
			return state, Push{}, nil
		case playerBJ:
			return state, Win{Amount: bet + (bet * 3 / 2)}, nil
		default:
			return state, Loss{}, nil
		}
	}
	return bjEncode(player, dealer, bjStagePlayerTurn), Continue{}, nil
}

func (Blackjack) ProcessMove(g *rng.GameRng, state []byte, bet uint64, payload []byte) ([]byte, GameResult, GameError) {
	player, dealer, stage, derr := bjDecode(state)
	if derr != nil {
		return nil, nil, derr
	}
	if stage == bjStageComplete {
		return nil, nil, GameAlreadyComplete{}
	}
	if len(payload) < 1 {
		return nil, nil, InvalidPayload{Reason: "missing action byte"}
	}
	if stage != bjStagePlayerTurn {
		return nil, nil, InvalidMove{Reason: "not player's turn"}
	}

	switch payload[0] {
	case bjActionHit:
		deck := remainingShoeDeck(player, dealer)
		var c uint8
		c, deck = g.DrawCard(deck)
		_ = deck
		player = append(player, c)
		total, _ := handTotal(player)
		if total > 21 {
			return bjEncode(player, dealer, bjStageComplete), Loss{}, nil
		}
		return bjEncode(player, dealer, bjStagePlayerTurn), Continue{}, nil

	case bjActionStand:
		state, result := bjDealerPlay(g, player, dealer, bet)
		return state, result, nil

	case bjActionDouble:
		if len(player) != 2 {
			return nil, nil, InvalidMove{Reason: "double only available on first decision"}
		}
		deck := remainingShoeDeck(player, dealer)
		var c uint8
		c, deck = g.DrawCard(deck)
		_ = deck
		player = append(player, c)
		total, _ := handTotal(player)
		if total > 21 {
			state := bjEncode(player, dealer, bjStageComplete)
			return state, LossPreDeductedWithExtraDeduction{Extra: bet}, nil
		}
		state, outcome := bjDealerPlay(g, player, dealer, bet)
		switch o := outcome.(type) {
		case Win:
			// Doubling the stake doubles the profit portion: the base
			// Win already reflects a 2x (stake+profit) settlement on
			// `bet`; charging Extra=bet and returning Return=2x that
			// yields the same net effect as resolving against 2*bet.
			return state, WinWithExtraDeduction{Return: o.Amount * 2, Extra: bet}, nil
		case Push:
			// Both halves of the doubled wager return; net effect of
			// charging the extra half and returning it alongside the
			// original stake is zero.
			return state, WinWithExtraDeduction{Return: bet * 2, Extra: bet}, nil
		default: // Loss
			return state, LossPreDeductedWithExtraDeduction{Extra: bet}, nil
		}

	default:
		return nil, nil, InvalidMove{Reason: "unknown blackjack action"}
	}
}

// bjDealerPlay draws for the dealer (hitting soft 17) and settles against
// the original stake.
func bjDealerPlay(g *rng.GameRng, player, dealer []uint8, bet uint64) ([]byte, GameResult) {
	deck := remainingShoeDeck(player, dealer)
	for {
		total, soft := handTotal(dealer)
		if total > 21 {
			break
		}
		if total > 17 || (total == 17 && !soft) {
			break
		}
		var c uint8
		c, deck = g.DrawCard(deck)
		dealer = append(dealer, c)
	}
	state := bjEncode(player, dealer, bjStageComplete)

	pTotal, _ := handTotal(player)
	dTotal, _ := handTotal(dealer)
	switch {
	case dTotal > 21:
		return state, Win{Amount: bet * 2}
	case pTotal > dTotal:
		return state, Win{Amount: bet * 2}
	case pTotal == dTotal:
		return state, Push{}
	default:
		return state, Loss{}
	}
}

// remainingShoeDeck recomputes the undealt portion of a single 52-card
// shoe given the cards already dealt, so determinism survives recomputing
// the deck fresh on every move rather than persisting it in state_blob.
func remainingShoeDeck(groups ...[]uint8) []uint8 {
	dealt := make(map[uint8]bool)
	for _, grp := range groups {
		for _, c := range grp {
			dealt[c] = true
		}
	}
	out := make([]uint8, 0, 52-len(dealt))
	for i := uint8(0); i < 52; i++ {
		if !dealt[i] {
			out = append(out, i)
		}
	}
	return out
}
