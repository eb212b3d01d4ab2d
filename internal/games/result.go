// Package games implements the ten casino game kernels. Each kernel owns a
// flat state blob and a pure ProcessMove function; all chip bookkeeping
// (debiting the bet, crediting a win) happens in the executor from the
// GameResult a kernel returns, so a kernel never touches account balances
// directly.
package games

// GameResult is a closed tagged union describing how a move resolved.
// Every concrete type has an unexported marker method so this package is
// the only place new variants can be added — callers outside the package
// switch over the interface and must handle every case the package ships.
type GameResult interface {
	isGameResult()
}

// Continue means the session stays open; no chips move.
type Continue struct{}

func (Continue) isGameResult() {}

// ContinueWithUpdate means the session stays open and Delta is applied to
// the player's chips (negative: an additional stake is charged, e.g. a
// placed table bet or a double-down; positive: an intermediate win is
// credited, e.g. a craps roll that settles some bets).
type ContinueWithUpdate struct {
	Delta int64
}

func (ContinueWithUpdate) isGameResult() {}

// Win credits Amount to the player and ends the session.
type Win struct {
	Amount uint64
}

func (Win) isGameResult() {}

// Push returns the original bet and ends the session.
type Push struct{}

func (Push) isGameResult() {}

// Loss ends the session with the bet already held by the house (the
// common case: the bet was debited at CasinoStartGame time).
type Loss struct{}

func (Loss) isGameResult() {}

// LossPreDeducted ends the session as a loss whose stakes (Amount in
// total) were already debited by earlier ContinueWithUpdate results, as
// on a multi-bet table; the executor takes no further chips for it.
type LossPreDeducted struct {
	Amount uint64
}

func (LossPreDeducted) isGameResult() {}

// WinWithExtraDeduction credits Return but simultaneously charges Extra
// (used by Ultimate Hold'em style games where an ante/trips side bet can
// lose even on a hand the player otherwise wins).
type WinWithExtraDeduction struct {
	Return uint64
	Extra  uint64
}

func (WinWithExtraDeduction) isGameResult() {}

// LossPreDeductedWithExtraDeduction ends the session as a loss while also
// charging an additional Extra beyond the original bet.
type LossPreDeductedWithExtraDeduction struct {
	Extra uint64
}

func (LossPreDeductedWithExtraDeduction) isGameResult() {}

// GameError is a closed tagged union of the ways a move can be rejected.
// A rejected move never mutates session state or balances.
type GameError interface {
	isGameError()
	Error() string
}

type InvalidPayload struct{ Reason string }

func (InvalidPayload) isGameError()    {}
func (e InvalidPayload) Error() string { return "invalid payload: " + e.Reason }

type InvalidMove struct{ Reason string }

func (InvalidMove) isGameError()    {}
func (e InvalidMove) Error() string { return "invalid move: " + e.Reason }

type GameAlreadyComplete struct{}

func (GameAlreadyComplete) isGameError()    {}
func (GameAlreadyComplete) Error() string { return "game already complete" }

type InsufficientFunds struct{}

func (InsufficientFunds) isGameError()    {}
func (InsufficientFunds) Error() string { return "insufficient funds" }

type DeckExhausted struct{}

func (DeckExhausted) isGameError()    {}
func (DeckExhausted) Error() string { return "deck exhausted" }
