package games

import (
	"encoding/binary"

	"casinochain/internal/rng"
)

// Casino War state_blob layout: [stage][pCard][dCard][warBet:u64 BE].
const (
	cwStageResolved   = 0 // not written by Init or ProcessMove
	cwStageWarPending = 1
	cwStageComplete   = 2

	cwActionWar       = 0
	cwActionSurrender = 1
)

type CasinoWar struct{}

func cwEncode(stage uint8, pCard, dCard uint8, warBet uint64) []byte {
	out := make([]byte, 11)
	out[0] = stage
	out[1] = pCard
	out[2] = dCard
	binary.BigEndian.PutUint64(out[3:11], warBet)
	return out
}

func cwDecode(state []byte) (stage, pCard, dCard uint8, warBet uint64, err GameError) {
	if len(state) != 11 {
		return 0, 0, 0, 0, InvalidPayload{Reason: "casino war state must be 11 bytes"}
	}
	return state[0], state[1], state[2], binary.BigEndian.Uint64(state[3:11]), nil
}

func (CasinoWar) Init(g *rng.GameRng, bet uint64) ([]byte, GameResult, GameError) {
	deck := rng.NewDeck()
	var pCard, dCard uint8
	pCard, deck = g.DrawCard(deck)
	dCard, deck = g.DrawCard(deck)

	pr, dr := rankOf(pCard), rankOf(dCard)
	switch {
	case pr > dr:
		return cwEncode(cwStageComplete, pCard, dCard, 0), Win{Amount: bet * 2}, nil
	case pr < dr:
		return cwEncode(cwStageComplete, pCard, dCard, 0), Loss{}, nil
	default:
		return cwEncode(cwStageWarPending, pCard, dCard, 0), Continue{}, nil
	}
}

func (CasinoWar) ProcessMove(g *rng.GameRng, state []byte, bet uint64, payload []byte) ([]byte, GameResult, GameError) {
	stage, pCard, dCard, warBet, derr := cwDecode(state)
	if derr != nil {
		return nil, nil, derr
	}
	if stage == cwStageComplete {
		return nil, nil, GameAlreadyComplete{}
	}
	if stage != cwStageWarPending {
		return nil, nil, InvalidMove{Reason: "no tie pending"}
	}
	if len(payload) < 1 {
		return nil, nil, InvalidPayload{Reason: "missing action byte"}
	}

	switch payload[0] {
	case cwActionSurrender:
		newState := cwEncode(cwStageComplete, pCard, dCard, warBet)
		return newState, Win{Amount: bet / 2}, nil

	case cwActionWar:
		deck := remainingShoeDeck([]uint8{pCard, dCard})
		pCard, deck = g.DrawCard(deck)
		dCard, deck = g.DrawCard(deck)
		newState := cwEncode(cwStageComplete, pCard, dCard, bet)
		pr, dr := rankOf(pCard), rankOf(dCard)
		switch {
		case pr > dr:
			return newState, WinWithExtraDeduction{Return: bet * 4, Extra: bet}, nil
		case pr < dr:
			return newState, LossPreDeductedWithExtraDeduction{Extra: bet}, nil
		default:
			return newState, WinWithExtraDeduction{Return: bet * 2, Extra: bet}, nil
		}

	default:
		return nil, nil, InvalidMove{Reason: "unknown casino war action"}
	}
}
