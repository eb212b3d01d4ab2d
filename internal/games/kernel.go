package games

import (
	"casinochain/internal/codec"
	"casinochain/internal/rng"
)

// Kernel is the interface every game implements. Init constructs the
// initial state blob for a freshly started session; ProcessMove advances
// it by one player action. Both are pure given their inputs: all
// randomness flows through the supplied rng.GameRng, never through
// ambient sources, so state transitions are fully reproducible from chain
// data.
type Kernel interface {
	// Init builds the initial, opaque state blob for a new session with
	// the given bet size. It may also resolve immediately (e.g. a natural
	// blackjack), in which case it returns a terminal GameResult alongside
	// the blob it produced right before terminating.
	Init(g *rng.GameRng, bet uint64) (state []byte, result GameResult, err GameError)

	// ProcessMove decodes payload against state, applies it, and returns
	// the new state blob plus the outcome. bet is the session's original
	// stake, carried alongside state_blob in GameSession (not inside the
	// blob itself) so payout math (3:2 blackjack, paytables, odds) can
	// reference it without the kernel re-deriving it from the blob. On
	// error the returned state is ignored by the caller; the prior state
	// blob is left unchanged in the session record.
	ProcessMove(g *rng.GameRng, state []byte, bet uint64, payload []byte) (newState []byte, result GameResult, err GameError)
}

// Registry dispatches a GameType tag to its Kernel implementation.
type Registry struct {
	kernels map[uint8]Kernel
}

// NewRegistry builds a Registry pre-populated with all ten shipped
// kernels.
func NewRegistry() *Registry {
	r := &Registry{kernels: make(map[uint8]Kernel, 10)}
	r.register(codec.GameBlackjack, Blackjack{})
	r.register(codec.GameHiLo, HiLo{})
	r.register(codec.GameBaccarat, Baccarat{})
	r.register(codec.GameRoulette, Roulette{})
	r.register(codec.GameSicBo, SicBo{})
	r.register(codec.GameCraps, Craps{})
	r.register(codec.GameVideoPoker, VideoPoker{})
	r.register(codec.GameThreeCardPoker, ThreeCardPoker{})
	r.register(codec.GameUltimateHoldEm, UltimateHoldEm{})
	r.register(codec.GameCasinoWar, CasinoWar{})
	return r
}

func (r *Registry) register(gameType uint8, k Kernel) {
	r.kernels[gameType] = k
}

// Lookup returns the kernel for gameType, or false if the tag is unknown.
func (r *Registry) Lookup(gameType uint8) (Kernel, bool) {
	k, ok := r.kernels[gameType]
	return k, ok
}
