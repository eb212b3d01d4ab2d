// Package state defines the entities held in the authenticated key-value
// store (the ADB) and their binary encodings. Every type here round-trips
// through Encode/Decode exactly, since the encoded bytes are what the ADB
// hashes into its root.
package state

import (
	"casinochain/internal/codec"
)

// Account is the non-casino nonce record every public key gets on its
// first transaction.
type Account struct {
	Nonce uint64
}

func (a Account) Encode() []byte {
	w := codec.NewWriter(8)
	w.WriteU64(a.Nonce)
	return w.Bytes()
}

func DecodeAccount(b []byte) (Account, error) {
	r := codec.NewReader(b)
	n, err := r.ReadU64()
	if err != nil {
		return Account{}, err
	}
	if err := r.Done(); err != nil {
		return Account{}, err
	}
	return Account{Nonce: n}, nil
}

// CasinoPlayer is the per-public-key casino profile. VUsdt is the
// account's synthetic-dollar balance, minted by Vault borrows and burned
// on repay/swap — the economic subsystem's only non-chip holding, so it
// lives alongside Chips rather than in its own keyed state entry.
type CasinoPlayer struct {
	Name            string
	Chips           uint64
	VUsdt           uint64
	Shields         uint8
	Doubles         uint8
	ActiveShield    bool
	ActiveDouble    bool
	HasActiveSession bool
	ActiveSession   uint64
	LastFaucetBlock uint64
	Rank            uint32
}

func (p CasinoPlayer) Encode() []byte {
	w := codec.NewWriter(64)
	w.WriteStringBounded(p.Name)
	w.WriteU64(p.Chips)
	w.WriteU64(p.VUsdt)
	w.WriteU8(p.Shields)
	w.WriteU8(p.Doubles)
	w.WriteBool(p.ActiveShield)
	w.WriteBool(p.ActiveDouble)
	w.WriteBool(p.HasActiveSession)
	w.WriteU64(p.ActiveSession)
	w.WriteU64(p.LastFaucetBlock)
	w.WriteU32(p.Rank)
	return w.Bytes()
}

func DecodeCasinoPlayer(b []byte) (CasinoPlayer, error) {
	r := codec.NewReader(b)
	var p CasinoPlayer
	var err error
	if p.Name, err = r.ReadStringBounded(codec.MaxNameLen); err != nil {
		return CasinoPlayer{}, err
	}
	if p.Chips, err = r.ReadU64(); err != nil {
		return CasinoPlayer{}, err
	}
	if p.VUsdt, err = r.ReadU64(); err != nil {
		return CasinoPlayer{}, err
	}
	if p.Shields, err = r.ReadU8(); err != nil {
		return CasinoPlayer{}, err
	}
	if p.Doubles, err = r.ReadU8(); err != nil {
		return CasinoPlayer{}, err
	}
	if p.ActiveShield, err = r.ReadBool(); err != nil {
		return CasinoPlayer{}, err
	}
	if p.ActiveDouble, err = r.ReadBool(); err != nil {
		return CasinoPlayer{}, err
	}
	if p.HasActiveSession, err = r.ReadBool(); err != nil {
		return CasinoPlayer{}, err
	}
	if p.ActiveSession, err = r.ReadU64(); err != nil {
		return CasinoPlayer{}, err
	}
	if p.LastFaucetBlock, err = r.ReadU64(); err != nil {
		return CasinoPlayer{}, err
	}
	if p.Rank, err = r.ReadU32(); err != nil {
		return CasinoPlayer{}, err
	}
	if err := r.Done(); err != nil {
		return CasinoPlayer{}, err
	}
	return p, nil
}

// GameSession is a live or recently-terminal game.
type GameSession struct {
	ID         uint64
	Player     [32]byte
	GameType   uint8
	Bet        uint64
	StateBlob  []byte
	MoveCount  uint32
	CreatedAt  uint64
	IsComplete bool
}

func (s GameSession) Encode() []byte {
	w := codec.NewWriter(64 + len(s.StateBlob))
	w.WriteU64(s.ID)
	w.WriteFixed(s.Player[:])
	w.WriteU8(s.GameType)
	w.WriteU64(s.Bet)
	w.WriteBytes(s.StateBlob)
	w.WriteU32(s.MoveCount)
	w.WriteU64(s.CreatedAt)
	w.WriteBool(s.IsComplete)
	return w.Bytes()
}

func DecodeGameSession(b []byte) (GameSession, error) {
	r := codec.NewReader(b)
	var s GameSession
	var err error
	if s.ID, err = r.ReadU64(); err != nil {
		return GameSession{}, err
	}
	pub, err := r.ReadFixed(32)
	if err != nil {
		return GameSession{}, err
	}
	copy(s.Player[:], pub)
	if s.GameType, err = r.ReadU8(); err != nil {
		return GameSession{}, err
	}
	if s.Bet, err = r.ReadU64(); err != nil {
		return GameSession{}, err
	}
	if s.StateBlob, err = r.ReadBytes(codec.MaxBytesLen); err != nil {
		return GameSession{}, err
	}
	if s.MoveCount, err = r.ReadU32(); err != nil {
		return GameSession{}, err
	}
	if s.CreatedAt, err = r.ReadU64(); err != nil {
		return GameSession{}, err
	}
	if s.IsComplete, err = r.ReadBool(); err != nil {
		return GameSession{}, err
	}
	if err := r.Done(); err != nil {
		return GameSession{}, err
	}
	return s, nil
}

// LeaderboardEntry is one row of the top-10 chip standings.
type LeaderboardEntry struct {
	Player [32]byte
	Name   string
	Chips  uint64
}

// Leaderboard is the length<=10 sorted standings list, stored as a single
// value under KeyCasinoLeaderboard.
type Leaderboard struct {
	Entries []LeaderboardEntry
}

func (l Leaderboard) Encode() []byte {
	w := codec.NewWriter(16 + len(l.Entries)*72)
	w.WriteU32(uint32(len(l.Entries)))
	for _, e := range l.Entries {
		w.WriteFixed(e.Player[:])
		w.WriteStringBounded(e.Name)
		w.WriteU64(e.Chips)
	}
	return w.Bytes()
}

func DecodeLeaderboard(b []byte) (Leaderboard, error) {
	r := codec.NewReader(b)
	n, err := r.CollectionLen(10)
	if err != nil {
		return Leaderboard{}, err
	}
	entries := make([]LeaderboardEntry, 0, n)
	for i := 0; i < n; i++ {
		pub, err := r.ReadFixed(32)
		if err != nil {
			return Leaderboard{}, err
		}
		var e LeaderboardEntry
		copy(e.Player[:], pub)
		if e.Name, err = r.ReadStringBounded(codec.MaxNameLen); err != nil {
			return Leaderboard{}, err
		}
		if e.Chips, err = r.ReadU64(); err != nil {
			return Leaderboard{}, err
		}
		entries = append(entries, e)
	}
	if err := r.Done(); err != nil {
		return Leaderboard{}, err
	}
	return Leaderboard{Entries: entries}, nil
}

// TournamentPhase mirrors spec's Registration/Active/Complete lifecycle.
type TournamentPhase uint8

const (
	TournamentRegistration TournamentPhase = 0
	TournamentActive       TournamentPhase = 1
	TournamentComplete     TournamentPhase = 2
)

type RankingEntry struct {
	Player [32]byte
	Chips  uint64
}

type Tournament struct {
	ID              uint64
	Phase           TournamentPhase
	StartBlock      uint64
	Players         [][32]byte
	StartingChips   uint64
	StartingShields uint8
	StartingDoubles uint8
	Rankings        []RankingEntry
}

const maxTournamentPlayers = 1000

func (t Tournament) Encode() []byte {
	w := codec.NewWriter(64 + len(t.Players)*32 + len(t.Rankings)*40)
	w.WriteU64(t.ID)
	w.WriteU8(uint8(t.Phase))
	w.WriteU64(t.StartBlock)
	w.WriteU32(uint32(len(t.Players)))
	for _, p := range t.Players {
		w.WriteFixed(p[:])
	}
	w.WriteU64(t.StartingChips)
	w.WriteU8(t.StartingShields)
	w.WriteU8(t.StartingDoubles)
	w.WriteU32(uint32(len(t.Rankings)))
	for _, r := range t.Rankings {
		w.WriteFixed(r.Player[:])
		w.WriteU64(r.Chips)
	}
	return w.Bytes()
}

func DecodeTournament(b []byte) (Tournament, error) {
	r := codec.NewReader(b)
	var t Tournament
	var err error
	if t.ID, err = r.ReadU64(); err != nil {
		return Tournament{}, err
	}
	phase, err := r.ReadU8()
	if err != nil {
		return Tournament{}, err
	}
	t.Phase = TournamentPhase(phase)
	if t.StartBlock, err = r.ReadU64(); err != nil {
		return Tournament{}, err
	}
	n, err := r.CollectionLen(maxTournamentPlayers)
	if err != nil {
		return Tournament{}, err
	}
	t.Players = make([][32]byte, 0, n)
	for i := 0; i < n; i++ {
		pub, err := r.ReadFixed(32)
		if err != nil {
			return Tournament{}, err
		}
		var p [32]byte
		copy(p[:], pub)
		t.Players = append(t.Players, p)
	}
	if t.StartingChips, err = r.ReadU64(); err != nil {
		return Tournament{}, err
	}
	if t.StartingShields, err = r.ReadU8(); err != nil {
		return Tournament{}, err
	}
	if t.StartingDoubles, err = r.ReadU8(); err != nil {
		return Tournament{}, err
	}
	nr, err := r.CollectionLen(maxTournamentPlayers)
	if err != nil {
		return Tournament{}, err
	}
	t.Rankings = make([]RankingEntry, 0, nr)
	for i := 0; i < nr; i++ {
		pub, err := r.ReadFixed(32)
		if err != nil {
			return Tournament{}, err
		}
		var e RankingEntry
		copy(e.Player[:], pub)
		if e.Chips, err = r.ReadU64(); err != nil {
			return Tournament{}, err
		}
		t.Rankings = append(t.Rankings, e)
	}
	if err := r.Done(); err != nil {
		return Tournament{}, err
	}
	return t, nil
}
