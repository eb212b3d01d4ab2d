package games

import (
	"encoding/binary"

	"casinochain/internal/rng"
)

// Baccarat state_blob layout: [stage][pLen][player cards...][bLen]
// [banker cards...][betType][wagered:u64 BE]. Each hand is stored behind a
// one-byte card count, not in fixed [c1][c2][c3?] slots. The 8-byte
// wagered trailer exists because the spec's
// payload table for exactly how much a multi-bet table stake accumulates
// is not present in this corpus copy (original_source/ retained no files),
// so the trailer tracks the total amount actually charged via
// CasinoGameMove(action=0) place-bet calls, which the settlement step
// needs to pay out correctly.
const (
	bacStageBetting  = 0
	bacStageComplete = 1

	bacActionPlaceBet = 0
	bacActionDeal     = 1

	bacBetPlayer uint8 = 0
	bacBetBanker uint8 = 1
	bacBetTie    uint8 = 2
)

type Baccarat struct{}

func bacEncode(stage uint8, player, banker []uint8, betType uint8, wagered uint64) []byte {
	out := make([]byte, 0, 1+1+len(player)+1+len(banker)+1+8)
	out = append(out, stage)
	out = append(out, uint8(len(player)))
	out = append(out, player...)
	out = append(out, uint8(len(banker)))
	out = append(out, banker...)
	out = append(out, betType)
	var w [8]byte
	binary.BigEndian.PutUint64(w[:], wagered)
	out = append(out, w[:]...)
	return out
}

func bacDecode(state []byte) (stage uint8, player, banker []uint8, betType uint8, wagered uint64, err GameError) {
	if len(state) < 3 {
		return 0, nil, nil, 0, 0, InvalidPayload{Reason: "baccarat state too short"}
	}
	off := 0
	stage = state[off]
	off++
	pLen := int(state[off])
	off++
	if off+pLen > len(state) {
		return 0, nil, nil, 0, 0, InvalidPayload{Reason: "baccarat player block truncated"}
	}
	player = state[off : off+pLen]
	off += pLen
	if off >= len(state) {
		return 0, nil, nil, 0, 0, InvalidPayload{Reason: "baccarat state truncated"}
	}
	bLen := int(state[off])
	off++
	if off+bLen+1+8 > len(state) {
		return 0, nil, nil, 0, 0, InvalidPayload{Reason: "baccarat banker block truncated"}
	}
	banker = state[off : off+bLen]
	off += bLen
	betType = state[off]
	off++
	wagered = binary.BigEndian.Uint64(state[off : off+8])
	off += 8
	if off != len(state) {
		return 0, nil, nil, 0, 0, InvalidPayload{Reason: "baccarat state has trailing bytes"}
	}
	return stage, player, banker, betType, wagered, nil
}

func (Baccarat) Init(g *rng.GameRng, bet uint64) ([]byte, GameResult, GameError) {
	deck := rng.NewDeck()
	var player, banker []uint8
	var c uint8
	c, deck = g.DrawCard(deck)
	player = append(player, c)
	c, deck = g.DrawCard(deck)
	banker = append(banker, c)
	c, deck = g.DrawCard(deck)
	player = append(player, c)
	c, deck = g.DrawCard(deck)
	banker = append(banker, c)
	return bacEncode(bacStageBetting, player, banker, bacBetPlayer, bet), Continue{}, nil
}

func (Baccarat) ProcessMove(g *rng.GameRng, state []byte, bet uint64, payload []byte) ([]byte, GameResult, GameError) {
	stage, player, banker, betType, wagered, derr := bacDecode(state)
	if derr != nil {
		return nil, nil, derr
	}
	if stage == bacStageComplete {
		return nil, nil, GameAlreadyComplete{}
	}
	if len(payload) < 1 {
		return nil, nil, InvalidPayload{Reason: "missing action byte"}
	}

	switch payload[0] {
	case bacActionPlaceBet:
		if len(payload) < 10 {
			return nil, nil, InvalidPayload{Reason: "place-bet payload too short"}
		}
		newBetType := payload[1]
		if newBetType > bacBetTie {
			return nil, nil, InvalidMove{Reason: "invalid bet type"}
		}
		amount := binary.BigEndian.Uint64(payload[2:10])
		if amount == 0 {
			return nil, nil, InvalidMove{Reason: "zero-amount bet"}
		}
		newState := bacEncode(stage, player, banker, newBetType, wagered+amount)
		return newState, ContinueWithUpdate{Delta: -int64(amount)}, nil

	case bacActionDeal:
		deck := remainingShoeDeck(player, banker)
		player, banker, deck = baccaratThirdCards(g, player, banker, deck)
		state := bacEncode(bacStageComplete, player, banker, betType, wagered)

		pPoint := baccaratPoint(player)
		bPoint := baccaratPoint(banker)
		var winner uint8
		switch {
		case pPoint > bPoint:
			winner = bacBetPlayer
		case bPoint > pPoint:
			winner = bacBetBanker
		default:
			winner = bacBetTie
		}

		if winner != betType {
			return state, Loss{}, nil
		}
		switch betType {
		case bacBetPlayer:
			return state, Win{Amount: wagered * 2}, nil
		case bacBetBanker:
			// 5% commission on banker wins, the conventional house edge.
			profit := wagered * 95 / 100
			return state, Win{Amount: wagered + profit}, nil
		default: // tie, conventional 8:1
			return state, Win{Amount: wagered * 9}, nil
		}

	default:
		return nil, nil, InvalidMove{Reason: "unknown baccarat action"}
	}
}

func baccaratThirdCards(g *rng.GameRng, player, banker, deck []uint8) ([]uint8, []uint8, []uint8) {
	pPoint := baccaratPoint(player)
	bPoint := baccaratPoint(banker)
	if pPoint >= 8 || bPoint >= 8 {
		return player, banker, deck
	}
	var playerThird uint8
	drewPlayerThird := false
	if pPoint <= 5 {
		playerThird, deck = g.DrawCard(deck)
		player = append(player, playerThird)
		drewPlayerThird = true
	}
	if bankerShouldDraw(bPoint, drewPlayerThird, playerThird) {
		var c uint8
		c, deck = g.DrawCard(deck)
		banker = append(banker, c)
	}
	return player, banker, deck
}

func bankerShouldDraw(bankerPoint int, playerDrew bool, playerThird uint8) bool {
	if !playerDrew {
		return bankerPoint <= 5
	}
	thirdVal := baccaratPoint([]uint8{playerThird})
	switch {
	case bankerPoint <= 2:
		return true
	case bankerPoint == 3:
		return thirdVal != 8
	case bankerPoint == 4:
		return thirdVal >= 2 && thirdVal <= 7
	case bankerPoint == 5:
		return thirdVal >= 4 && thirdVal <= 7
	case bankerPoint == 6:
		return thirdVal == 6 || thirdVal == 7
	default:
		return false
	}
}
