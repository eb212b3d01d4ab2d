package games

import (
	"testing"

	"casinochain/internal/rng"
)

func TestRegistry_LooksUpAllTenGames(t *testing.T) {
	reg := NewRegistry()
	gameTypes := []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	for _, gt := range gameTypes {
		if _, ok := reg.Lookup(gt); !ok {
			t.Fatalf("expected game type %d to be registered", gt)
		}
	}
	if _, ok := reg.Lookup(99); ok {
		t.Fatalf("expected unknown game type to be absent")
	}
}

func TestBlackjack_InitProducesPlayableOrTerminalState(t *testing.T) {
	for seed := 0; seed < 20; seed++ {
		g := rng.New([]byte("seed"), uint64(seed), 0)
		state, result, err := Blackjack{}.Init(g, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		player, dealer, stage, derr := bjDecode(state)
		if derr != nil {
			t.Fatalf("decode failed on kernel-produced state: %v", derr)
		}
		if len(player) != 2 || len(dealer) != 2 {
			t.Fatalf("expected two cards each, got %d/%d", len(player), len(dealer))
		}
		switch result.(type) {
		case Continue:
			if stage != bjStagePlayerTurn {
				t.Fatalf("Continue result should leave stage at player turn")
			}
		case Win, Loss, Push:
			if stage != bjStageComplete {
				t.Fatalf("terminal result should leave stage complete")
			}
		default:
			t.Fatalf("unexpected result type %T from Init", result)
		}
	}
}

func TestBlackjack_HitAfterCompleteIsRejected(t *testing.T) {
	g := rng.New([]byte("seed"), 1, 1)
	state := bjEncode([]uint8{0, 1}, []uint8{2, 3}, bjStageComplete)
	_, _, err := Blackjack{}.ProcessMove(g, state, 100, []byte{bjActionHit})
	if err == nil {
		t.Fatalf("expected GameAlreadyComplete error")
	}
	if _, ok := err.(GameAlreadyComplete); !ok {
		t.Fatalf("expected GameAlreadyComplete, got %T", err)
	}
}

func TestBlackjack_HitBustIsLoss(t *testing.T) {
	// Two jacks (20) plus any ten-value card busts.
	state := bjEncode([]uint8{9, 22}, []uint8{1, 14}, bjStagePlayerTurn) // J(9), J(9+13), dealer arbitrary
	g := rng.New([]byte("force-bust-seed"), 1, 1)
	// Draw repeatedly until we find a seed/card combo that busts, bounding
	// the search so the test stays deterministic and terminates quickly.
	var gotLoss bool
	for i := 0; i < 52 && !gotLoss; i++ {
		g2 := rng.New([]byte("force-bust-seed"), uint64(i), 1)
		newState, result, err := Blackjack{}.ProcessMove(g2, state, 100, []byte{bjActionHit})
		if err != nil {
			continue
		}
		if _, ok := result.(Loss); ok {
			player, _, stage, derr := bjDecode(newState)
			if derr != nil {
				t.Fatalf("decode failed: %v", derr)
			}
			if stage != bjStageComplete {
				t.Fatalf("bust should complete the session")
			}
			if total, _ := handTotal(player); total <= 21 {
				t.Fatalf("expected a busted total, got %d", total)
			}
			gotLoss = true
		}
	}
	if !gotLoss {
		t.Skip("no busting draw found in bounded search; non-fatal for a probabilistic search")
	}
	_ = g
}

func TestHiLo_CashOutAtParIsPush(t *testing.T) {
	state := hiloEncode(5, hiloMilli)
	g := rng.New([]byte("seed"), 1, 0)
	_, result, err := HiLo{}.ProcessMove(g, state, 500, []byte{hiloActionCashOut})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := result.(Push); !ok {
		t.Fatalf("expected Push at accumulator==1000 (par), got %T", result)
	}
}

func TestHiLo_CashOutAboveParIsWin(t *testing.T) {
	state := hiloEncode(5, 2*hiloMilli)
	g := rng.New([]byte("seed"), 1, 0)
	_, result, err := HiLo{}.ProcessMove(g, state, 500, []byte{hiloActionCashOut})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	win, ok := result.(Win)
	if !ok {
		t.Fatalf("expected Win, got %T", result)
	}
	if win.Amount <= 500 {
		t.Fatalf("expected a win above the original stake, got %d", win.Amount)
	}
}

func TestHiLo_RejectsMalformedState(t *testing.T) {
	g := rng.New([]byte("seed"), 1, 0)
	_, _, err := HiLo{}.ProcessMove(g, []byte{1, 2, 3}, 100, []byte{hiloActionCashOut})
	if err == nil {
		t.Fatalf("expected a decode error for malformed state")
	}
}

func TestCasinoWar_InitSettlesNonTieImmediately(t *testing.T) {
	found := map[string]bool{}
	for seed := 0; seed < 30; seed++ {
		g := rng.New([]byte("war-seed"), uint64(seed), 0)
		_, result, err := CasinoWar{}.Init(g, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		switch result.(type) {
		case Win:
			found["win"] = true
		case Loss:
			found["loss"] = true
		case Continue:
			found["tie"] = true
		default:
			t.Fatalf("unexpected result type %T", result)
		}
	}
	if len(found) == 0 {
		t.Fatalf("expected at least one outcome across 30 seeds")
	}
}

func TestCasinoWar_SurrenderReturnsHalfStake(t *testing.T) {
	state := cwEncode(cwStageWarPending, 0, 0, 0)
	g := rng.New([]byte("seed"), 1, 0)
	_, result, err := CasinoWar{}.ProcessMove(g, state, 200, []byte{cwActionSurrender})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	win, ok := result.(Win)
	if !ok {
		t.Fatalf("expected Win, got %T", result)
	}
	if win.Amount != 100 {
		t.Fatalf("expected half the 200 stake (100), got %d", win.Amount)
	}
}

func TestRoulette_PlaceBetDebitsThenSpinSettles(t *testing.T) {
	g := rng.New([]byte("seed"), 1, 0)
	state, _, err := Roulette{}.Init(g, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	placePayload := append([]byte{rouActionPlaceBet, rouBetRed, 0}, u64be(50)...)
	state, result, err := Roulette{}.ProcessMove(g, state, 0, placePayload)
	if err != nil {
		t.Fatalf("unexpected error placing bet: %v", err)
	}
	update, ok := result.(ContinueWithUpdate)
	if !ok || update.Delta != -50 {
		t.Fatalf("expected ContinueWithUpdate{-50}, got %#v", result)
	}
	state, result, err = Roulette{}.ProcessMove(g, state, 0, []byte{rouActionSpin})
	if err != nil {
		t.Fatalf("unexpected error spinning: %v", err)
	}
	switch result.(type) {
	case Win, Loss:
	default:
		t.Fatalf("expected Win or Loss after spin, got %T", result)
	}
	if _, _, _, derr := rouDecode(state); derr != nil {
		t.Fatalf("final roulette state should decode cleanly: %v", derr)
	}
}

func u64be(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
