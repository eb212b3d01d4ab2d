// Package rng implements the deterministic, publicly-seeded randomness
// source used by game kernels. It replaces the teacher's threshold-ElGamal
// confidential dealing (ocpcrypto/ocpshuffle) with a single public hash
// chain: any observer can recompute every draw from the block's seed, the
// session id and the move number, which is what lets a light client verify
// a game outcome without trusting the executor.
package rng

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// GameRng is a hash-chain pseudo-random generator:
//
//	state_0     = H(seed || session_id_be || move_number_be)
//	state_{i+1} = H(state_i)
//
// and each call to NextU8 consumes one state, returning its first byte.
// Two GameRngs constructed from identical inputs produce identical output,
// which is the entire point: outcomes are reproducible from chain data.
type GameRng struct {
	state [32]byte
}

// New derives a GameRng from a block/hand seed, a session id, and the
// move number within that session (so replaying the same session from a
// different move deterministically starts from a different state).
func New(seed []byte, sessionID uint64, moveNumber uint64) *GameRng {
	var buf []byte
	buf = append(buf, seed...)
	var be [8]byte
	binary.BigEndian.PutUint64(be[:], sessionID)
	buf = append(buf, be[:]...)
	binary.BigEndian.PutUint64(be[:], moveNumber)
	buf = append(buf, be[:]...)
	h := blake2b.Sum256(buf)
	return &GameRng{state: h}
}

func (g *GameRng) advance() {
	g.state = blake2b.Sum256(g.state[:])
}

// NextU8 returns the next byte of the chain and advances it.
func (g *GameRng) NextU8() uint8 {
	b := g.state[0]
	g.advance()
	return b
}

// NextBytes fills p with successive chain bytes, one state advance per
// byte, and implements io.Reader (Read never errors).
func (g *GameRng) NextBytes(p []byte) {
	for i := range p {
		p[i] = g.NextU8()
	}
}

// Read implements io.Reader over the chain.
func (g *GameRng) Read(p []byte) (int, error) {
	g.NextBytes(p)
	return len(p), nil
}

// RollDie returns a uniform value in [1, sides] using rejection sampling
// over NextU8 so the result is unbiased for any sides <= 256.
func (g *GameRng) RollDie(sides uint8) uint8 {
	if sides == 0 {
		return 0
	}
	limit := 256 - (256 % int(sides))
	for {
		b := g.NextU8()
		if int(b) < limit {
			return uint8(int(b)%int(sides)) + 1
		}
	}
}

// SpinWheel returns a uniform value in [0, slots) for a roulette-style
// wheel with an arbitrary slot count (e.g. 37 for European roulette).
func (g *GameRng) SpinWheel(slots int) int {
	if slots <= 0 {
		return 0
	}
	limit := 256 - (256 % slots)
	for {
		b := g.NextU8()
		if int(b) < limit {
			return int(b) % slots
		}
	}
}

// DrawCard removes and returns one card from deck using a swap-remove: pick
// a uniform index in [0, len(deck)), swap it to the end, then truncate.
// This matches the teacher's DeterministicDeck shuffle idiom but draws
// lazily, one card at a time, rather than shuffling the whole deck up
// front — a kernel only pays the hashing cost for cards it actually deals.
func (g *GameRng) DrawCard(deck []uint8) (uint8, []uint8) {
	n := len(deck)
	if n == 0 {
		return 0, deck
	}
	idx := g.boundedIndex(n)
	card := deck[idx]
	last := n - 1
	deck[idx] = deck[last]
	return card, deck[:last]
}

// boundedIndex returns a uniform index in [0, n) via rejection sampling,
// consuming as many chain bytes as needed to avoid modulo bias.
func (g *GameRng) boundedIndex(n int) int {
	if n <= 0 {
		return 0
	}
	if n <= 256 {
		limit := 256 - (256 % n)
		for {
			b := g.NextU8()
			if int(b) < limit {
				return int(b) % n
			}
		}
	}
	// Fallback for n > 256 (not exercised by a standard 52-card deck, but
	// kept general): combine four bytes into a uint32 and reject-sample.
	max := uint32(n)
	limit := uint32(0xFFFFFFFF) - (uint32(0xFFFFFFFF) % max)
	for {
		var b [4]byte
		g.NextBytes(b[:])
		v := binary.BigEndian.Uint32(b[:])
		if v < limit {
			return int(v % max)
		}
	}
}

// NewDeck returns a fresh, ordered 52-card deck (0..51, rank = card%13,
// suit = card/13) suitable for repeated DrawCard calls.
func NewDeck() []uint8 {
	deck := make([]uint8, 52)
	for i := range deck {
		deck[i] = uint8(i)
	}
	return deck
}
