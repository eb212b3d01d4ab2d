package executor

import (
	"casinochain/internal/casino"
	"casinochain/internal/codec"
	"casinochain/internal/events"
	"casinochain/internal/games"
	"casinochain/internal/kv"
	"casinochain/internal/ledger"
	"casinochain/internal/rng"
	"casinochain/internal/state"
)

func (l *Layer) applyCasinoRegister(pub [32]byte, ins codec.CasinoRegister) ([]events.Event, error) {
	_, exists, err := ledger.LoadPlayer(l, pub)
	if err != nil {
		return nil, err
	}
	if exists {
		return []events.Event{events.CasinoError{Code: codec.ErrPlayerAlreadyRegistered, Message: "player already registered"}}, nil
	}
	player := state.CasinoPlayer{
		Name:   ins.Name,
		Chips:  l.Cfg.DefaultChips,
		Shields: 0,
		Doubles: 0,
	}
	ledger.SavePlayer(l, pub, player)
	out := []events.Event{events.CasinoPlayerRegistered{Player: pub, Name: ins.Name}}
	if lbEv, err := ledger.RefreshLeaderboard(l, pub, player.Name, player.Chips); err != nil {
		return nil, err
	} else if lbEv != nil {
		out = append(out, lbEv)
	}
	return out, nil
}

func (l *Layer) applyCasinoDeposit(pub [32]byte, ins codec.CasinoDeposit) ([]events.Event, error) {
	player, ok, err := ledger.LoadPlayer(l, pub)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrPlayerNotFound, Message: "player not found"}}, nil
	}
	if player.LastFaucetBlock != 0 && l.Height-player.LastFaucetBlock < l.Cfg.DepositCooldownBlocks {
		return []events.Event{events.CasinoError{Code: codec.ErrRateLimited, Message: "deposit rate limited"}}, nil
	}
	lbEv, err := ledger.ApplyDelta(l, pub, int64(ins.Amount))
	if err != nil {
		return nil, err
	}
	player, _, err = ledger.LoadPlayer(l, pub)
	if err != nil {
		return nil, err
	}
	player.LastFaucetBlock = l.Height
	ledger.SavePlayer(l, pub, player)
	out := []events.Event{}
	if lbEv != nil {
		out = append(out, lbEv)
	}
	return out, nil
}

func (l *Layer) applyCasinoStartGame(pub [32]byte, ins codec.CasinoStartGame) ([]events.Event, error) {
	player, ok, err := ledger.LoadPlayer(l, pub)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrPlayerNotFound, Message: "player not found"}}, nil
	}
	if ins.Bet == 0 {
		return []events.Event{events.CasinoError{Code: codec.ErrInvalidBet, Message: "bet must be positive"}}, nil
	}
	if player.HasActiveSession {
		return []events.Event{events.CasinoError{Code: codec.ErrSessionExists, Message: "player already has an active session"}}, nil
	}
	if player.Chips < ins.Bet {
		return []events.Event{events.CasinoError{Code: codec.ErrInsufficientFunds, Message: "insufficient chips for bet"}}, nil
	}
	if _, exists, err := l.Get(state.GameSessionKey(ins.SessionID)); err != nil {
		return nil, err
	} else if exists {
		return []events.Event{events.CasinoError{Code: codec.ErrSessionExists, Message: "session id already in use"}}, nil
	}
	kernel, ok := l.Games.Lookup(ins.GameType)
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrInvalidMove, Message: "unknown game type"}}, nil
	}

	r := rng.New(l.Seed, ins.SessionID, 0)
	initState, result, gerr := kernel.Init(r, ins.Bet)
	if gerr != nil {
		return []events.Event{events.CasinoError{Code: codec.ErrInvalidMove, Message: gerr.Error()}}, nil
	}

	player.HasActiveSession = true
	player.ActiveSession = ins.SessionID

	sess := state.GameSession{
		ID:        ins.SessionID,
		Player:    pub,
		GameType:  ins.GameType,
		Bet:       ins.Bet,
		StateBlob: initState,
		MoveCount: 0,
		CreatedAt: l.Height,
	}

	out := []events.Event{events.CasinoGameStarted{
		Player:       pub,
		SessionID:    ins.SessionID,
		GameType:     ins.GameType,
		Bet:          ins.Bet,
		InitialState: initState,
	}}

	delta, completed := resolveResult(&player, ins.Bet, result)
	delta -= int64(ins.Bet) // the initial stake debit, combined with any immediate resolution
	if int64(player.Chips)+delta < 0 {
		return []events.Event{events.CasinoError{Code: codec.ErrInsufficientFunds, Message: "insufficient funds to settle immediate resolution"}}, nil
	}
	if completed {
		player.HasActiveSession = false
		player.ActiveSession = 0
		sess.IsComplete = true
	}
	ledger.SavePlayer(l, pub, player)
	l.Put(state.GameSessionKey(sess.ID), sess.Encode())

	lbEv, err := ledger.ApplyDelta(l, pub, delta)
	if err != nil {
		return nil, err
	}
	if lbEv != nil {
		out = append(out, lbEv)
	}
	if completed {
		out = append(out, events.CasinoGameCompleted{Player: pub, SessionID: sess.ID, Delta: delta})
	}
	return out, nil
}

func (l *Layer) applyCasinoGameMove(pub [32]byte, ins codec.CasinoGameMove) ([]events.Event, error) {
	sessRaw, ok, err := l.Get(state.GameSessionKey(ins.SessionID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrSessionNotFound, Message: "session not found"}}, nil
	}
	sess, err := state.DecodeGameSession(sessRaw)
	if err != nil {
		return nil, err
	}
	if sess.Player != pub {
		return []events.Event{events.CasinoError{Code: codec.ErrSessionNotOwned, Message: "session not owned by signer"}}, nil
	}
	if sess.IsComplete {
		return []events.Event{events.CasinoError{Code: codec.ErrSessionComplete, Message: "session already complete"}}, nil
	}
	player, ok, err := ledger.LoadPlayer(l, pub)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrPlayerNotFound, Message: "player not found"}}, nil
	}
	kernel, ok := l.Games.Lookup(sess.GameType)
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrInvalidMove, Message: "unknown game type"}}, nil
	}

	r := rng.New(l.Seed, sess.ID, uint64(sess.MoveCount)+1)
	newState, result, gerr := kernel.ProcessMove(r, sess.StateBlob, sess.Bet, ins.Payload)
	if gerr != nil {
		return []events.Event{events.CasinoError{Code: codec.ErrInvalidMove, Message: gerr.Error()}}, nil
	}

	delta, completed := resolveResult(&player, sess.Bet, result)
	// A negative delta must be checked for sufficient funds before any
	// state is persisted (spec.md §4.4: "insufficient funds -> revert
	// session write, return InsufficientFunds error").
	if delta < 0 && player.Chips < uint64(-delta) {
		return []events.Event{events.CasinoError{Code: codec.ErrInsufficientFunds, Message: "insufficient funds for move"}}, nil
	}

	sess.StateBlob = newState
	sess.MoveCount++
	if completed {
		player.HasActiveSession = false
		player.ActiveSession = 0
		sess.IsComplete = true
	}
	ledger.SavePlayer(l, pub, player)
	l.Put(state.GameSessionKey(sess.ID), sess.Encode())

	out := []events.Event{events.CasinoGameMoved{Player: pub, SessionID: sess.ID, NewState: newState}}
	if delta != 0 || completed {
		lbEv, err := ledger.ApplyDelta(l, pub, delta)
		if err != nil {
			return nil, err
		}
		if lbEv != nil {
			out = append(out, lbEv)
		}
	}
	if completed {
		out = append(out, events.CasinoGameCompleted{Player: pub, SessionID: sess.ID, Delta: delta})
	}
	return out, nil
}

// resolveResult performs the §4.4 GameResult bookkeeping table, mutating
// player's modifier stocks (Shields/Doubles/Active*) in place and
// returning the net signed chip delta plus whether the session reached a
// terminal state. It never touches storage or the ledger; callers persist
// player/session and route the delta through ledger.ApplyDelta themselves
// so the leaderboard refresh and any insufficient-funds rejection stay in
// one place.
func resolveResult(player *state.CasinoPlayer, bet uint64, result games.GameResult) (delta int64, completed bool) {
	switch r := result.(type) {
	case games.Continue:
		return 0, false
	case games.ContinueWithUpdate:
		return r.Delta, false
	case games.Win:
		amount := int64(r.Amount)
		if player.ActiveDouble && r.Amount > bet {
			profit := r.Amount - bet
			amount += int64(profit)
			player.Doubles--
			player.ActiveDouble = false
		}
		return amount, true
	case games.Push:
		return int64(bet), true
	case games.Loss:
		if player.ActiveShield && player.Shields > 0 {
			player.Shields--
			player.ActiveShield = false
			return int64(bet), true
		}
		return 0, true
	case games.LossPreDeducted:
		if player.ActiveShield && player.Shields > 0 {
			cover := r.Amount
			if cover > bet {
				cover = bet
			}
			player.Shields--
			player.ActiveShield = false
			return int64(cover), true
		}
		return 0, true
	case games.WinWithExtraDeduction:
		amount := int64(r.Return) - int64(r.Extra)
		if player.ActiveDouble && r.Return > bet {
			profit := r.Return - bet
			amount += int64(profit)
			player.Doubles--
			player.ActiveDouble = false
		}
		return amount, true
	case games.LossPreDeductedWithExtraDeduction:
		delta := -int64(r.Extra)
		if player.ActiveShield && player.Shields > 0 {
			player.Shields--
			player.ActiveShield = false
			delta += int64(bet)
		}
		return delta, true
	default:
		return 0, false
	}
}

func (l *Layer) applyCasinoToggle(pub [32]byte, shield bool) ([]events.Event, error) {
	player, ok, err := ledger.LoadPlayer(l, pub)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrPlayerNotFound, Message: "player not found"}}, nil
	}
	if player.HasActiveSession {
		return []events.Event{events.CasinoError{Code: codec.ErrInvalidMove, Message: "cannot toggle modifier during an active session"}}, nil
	}
	if shield {
		if player.Shields == 0 {
			return []events.Event{events.CasinoError{Code: codec.ErrInvalidMove, Message: "no shields available"}}, nil
		}
		player.ActiveShield = !player.ActiveShield
	} else {
		if player.Doubles == 0 {
			return []events.Event{events.CasinoError{Code: codec.ErrInvalidMove, Message: "no doubles available"}}, nil
		}
		player.ActiveDouble = !player.ActiveDouble
	}
	ledger.SavePlayer(l, pub, player)
	return nil, nil
}

func (l *Layer) applyJoinTournament(pub [32]byte, ins codec.CasinoJoinTournament) ([]events.Event, error) {
	if _, ok, err := ledger.LoadPlayer(l, pub); err != nil {
		return nil, err
	} else if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrPlayerNotFound, Message: "player not found"}}, nil
	}
	t, ok, err := casino.LoadTournament(l, ins.TournamentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrTournamentNotRegistering, Message: "tournament not found"}}, nil
	}
	_, ev, err := casino.JoinTournament(l, t, pub)
	if err != nil {
		return nil, err
	}
	return []events.Event{ev}, nil
}

func (l *Layer) applyStartTournament(_ [32]byte, ins codec.StartTournament) ([]events.Event, error) {
	id, err := kv.NextSeq(l, state.TournamentSeqKey())
	if err != nil {
		return nil, err
	}
	t := state.Tournament{
		ID:              id,
		Phase:           state.TournamentRegistration,
		StartBlock:      l.Height,
		StartingChips:   ins.StartingChips,
		StartingShields: ins.StartingShields,
		StartingDoubles: ins.StartingDoubles,
	}
	l.Put(state.TournamentKey(t.ID), t.Encode())
	return []events.Event{events.TournamentStarted{TournamentID: t.ID}}, nil
}

func (l *Layer) applyEndTournament(_ [32]byte, ins codec.EndTournament) ([]events.Event, error) {
	t, ok, err := casino.LoadTournament(l, ins.TournamentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrTournamentNotRegistering, Message: "tournament not found"}}, nil
	}
	evs, err := casino.ForceEnd(l, t)
	if err != nil {
		return nil, err
	}
	return evs, nil
}

func casinoTournamentConfig(cfg Config) casino.Config {
	return casino.Config{RegistrationBlocks: cfg.TournamentReg, ActiveBlocks: cfg.TournamentActive}
}

func tickAllTournaments(l *Layer, cfg casino.Config, height uint64) ([]events.Event, error) {
	return casino.TickAll(l, cfg, height)
}
