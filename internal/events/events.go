// Package events defines the tagged event union the executor emits and
// the event log persists. Every event is a self-describing, bounded wire
// value built on internal/codec's primitives, mirroring the way
// instructions are encoded in internal/codec/instructions.go.
package events

import (
	"fmt"

	"casinochain/internal/codec"
)

// Event is the closed tagged union of everything the executor can emit.
// Only this package adds variants.
type Event interface {
	Tag() uint8
	EncodeSize() int
	WriteTo(w *codec.Writer)
}

// Encode serializes an event as tag byte + body.
func Encode(e Event) []byte {
	w := codec.NewWriter(1 + e.EncodeSize())
	w.WriteU8(e.Tag())
	e.WriteTo(w)
	return w.Bytes()
}

// Decode reads one tagged event from the front of b, requiring the
// entire slice be consumed.
func Decode(b []byte) (Event, error) {
	r := codec.NewReader(b)
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	ev, err := decodeBody(tag, r)
	if err != nil {
		return nil, err
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return ev, nil
}

func decodeBody(tag uint8, r *codec.Reader) (Event, error) {
	switch tag {
	case codec.EvCasinoPlayerRegistered:
		return decodeCasinoPlayerRegistered(r)
	case codec.EvCasinoGameStarted:
		return decodeCasinoGameStarted(r)
	case codec.EvCasinoGameMoved:
		return decodeCasinoGameMoved(r)
	case codec.EvCasinoGameCompleted:
		return decodeCasinoGameCompleted(r)
	case codec.EvCasinoLeaderboardUpdated:
		return decodeCasinoLeaderboardUpdated(r)
	case codec.EvTournamentStarted:
		return decodeTournamentStarted(r)
	case codec.EvPlayerJoined:
		return decodePlayerJoined(r)
	case codec.EvTournamentPhaseChanged:
		return decodeTournamentPhaseChanged(r)
	case codec.EvTournamentEnded:
		return decodeTournamentEnded(r)
	case codec.EvCasinoError:
		return decodeCasinoError(r)
	case codec.EvTransaction:
		return decodeTransactionAccepted(r)
	case codec.EvVaultCreated:
		return decodeVaultCreated(r)
	case codec.EvVaultUpdated:
		return decodeVaultUpdated(r)
	case codec.EvSwapExecuted:
		return decodeSwapExecuted(r)
	case codec.EvLiquidityChanged:
		return decodeLiquidityChanged(r)
	case codec.EvStaked:
		return decodeStaked(r)
	case codec.EvUnstaked:
		return decodeUnstaked(r)
	case codec.EvRewardsClaimed:
		return decodeRewardsClaimed(r)
	case codec.EvEpochProcessed:
		return decodeEpochProcessed(r)
	default:
		return nil, &codec.DecodeError{Kind: codec.InvalidTag, Context: fmt.Sprintf("event tag %d", tag)}
	}
}

// CasinoPlayerRegistered fires on a successful CasinoRegister.
type CasinoPlayerRegistered struct {
	Player [32]byte
	Name   string
}

func (CasinoPlayerRegistered) Tag() uint8 { return codec.EvCasinoPlayerRegistered }
func (e CasinoPlayerRegistered) EncodeSize() int {
	return 32 + 2 + len(e.Name)
}
func (e CasinoPlayerRegistered) WriteTo(w *codec.Writer) {
	w.WriteFixed(e.Player[:])
	w.WriteStringBounded(e.Name)
}
func decodeCasinoPlayerRegistered(r *codec.Reader) (Event, error) {
	pub, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	name, err := r.ReadStringBounded(codec.MaxNameLen)
	if err != nil {
		return nil, err
	}
	var e CasinoPlayerRegistered
	copy(e.Player[:], pub)
	e.Name = name
	return e, nil
}

// CasinoGameStarted fires on a successful CasinoStartGame, carrying the
// kernel-produced initial state blob for light-client replay.
type CasinoGameStarted struct {
	Player       [32]byte
	SessionID    uint64
	GameType     uint8
	Bet          uint64
	InitialState []byte
}

func (CasinoGameStarted) Tag() uint8 { return codec.EvCasinoGameStarted }
func (e CasinoGameStarted) EncodeSize() int {
	return 32 + 8 + 1 + 8 + 4 + len(e.InitialState)
}
func (e CasinoGameStarted) WriteTo(w *codec.Writer) {
	w.WriteFixed(e.Player[:])
	w.WriteU64(e.SessionID)
	w.WriteU8(e.GameType)
	w.WriteU64(e.Bet)
	w.WriteBytes(e.InitialState)
}
func decodeCasinoGameStarted(r *codec.Reader) (Event, error) {
	var e CasinoGameStarted
	pub, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(e.Player[:], pub)
	if e.SessionID, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.GameType, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if e.Bet, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.InitialState, err = r.ReadBytes(codec.MaxBytesLen); err != nil {
		return nil, err
	}
	return e, nil
}

// CasinoGameMoved fires on every successful CasinoGameMove, terminal or
// not, carrying the post-move state blob.
type CasinoGameMoved struct {
	Player    [32]byte
	SessionID uint64
	NewState  []byte
}

func (CasinoGameMoved) Tag() uint8 { return codec.EvCasinoGameMoved }
func (e CasinoGameMoved) EncodeSize() int {
	return 32 + 8 + 4 + len(e.NewState)
}
func (e CasinoGameMoved) WriteTo(w *codec.Writer) {
	w.WriteFixed(e.Player[:])
	w.WriteU64(e.SessionID)
	w.WriteBytes(e.NewState)
}
func decodeCasinoGameMoved(r *codec.Reader) (Event, error) {
	var e CasinoGameMoved
	pub, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(e.Player[:], pub)
	if e.SessionID, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.NewState, err = r.ReadBytes(codec.MaxBytesLen); err != nil {
		return nil, err
	}
	return e, nil
}

// CasinoGameCompleted fires once a kernel returns a terminal GameResult.
// Delta is the net signed chip change applied by the executor's
// bookkeeping (§4.4), including shield/double modifier effects.
type CasinoGameCompleted struct {
	Player    [32]byte
	SessionID uint64
	Delta     int64
}

func (CasinoGameCompleted) Tag() uint8 { return codec.EvCasinoGameCompleted }
func (e CasinoGameCompleted) EncodeSize() int { return 32 + 8 + 8 }
func (e CasinoGameCompleted) WriteTo(w *codec.Writer) {
	w.WriteFixed(e.Player[:])
	w.WriteU64(e.SessionID)
	w.WriteI64(e.Delta)
}
func decodeCasinoGameCompleted(r *codec.Reader) (Event, error) {
	var e CasinoGameCompleted
	pub, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(e.Player[:], pub)
	if e.SessionID, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.Delta, err = r.ReadI64(); err != nil {
		return nil, err
	}
	return e, nil
}

// CasinoLeaderboardUpdated carries the already-encoded Leaderboard value
// (internal/state.Leaderboard.Encode()) so subscribers can decode it
// without a second state read.
type CasinoLeaderboardUpdated struct {
	Blob []byte
}

func (CasinoLeaderboardUpdated) Tag() uint8 { return codec.EvCasinoLeaderboardUpdated }
func (e CasinoLeaderboardUpdated) EncodeSize() int { return 4 + len(e.Blob) }
func (e CasinoLeaderboardUpdated) WriteTo(w *codec.Writer) { w.WriteBytes(e.Blob) }
func decodeCasinoLeaderboardUpdated(r *codec.Reader) (Event, error) {
	b, err := r.ReadBytes(codec.MaxBytesLen)
	if err != nil {
		return nil, err
	}
	return CasinoLeaderboardUpdated{Blob: b}, nil
}

// TournamentStarted fires on a successful StartTournament.
type TournamentStarted struct {
	TournamentID uint64
}

func (TournamentStarted) Tag() uint8         { return codec.EvTournamentStarted }
func (TournamentStarted) EncodeSize() int    { return 8 }
func (e TournamentStarted) WriteTo(w *codec.Writer) { w.WriteU64(e.TournamentID) }
func decodeTournamentStarted(r *codec.Reader) (Event, error) {
	id, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return TournamentStarted{TournamentID: id}, nil
}

// PlayerJoined fires on a successful CasinoJoinTournament.
type PlayerJoined struct {
	TournamentID uint64
	Player       [32]byte
}

func (PlayerJoined) Tag() uint8      { return codec.EvPlayerJoined }
func (PlayerJoined) EncodeSize() int { return 8 + 32 }
func (e PlayerJoined) WriteTo(w *codec.Writer) {
	w.WriteU64(e.TournamentID)
	w.WriteFixed(e.Player[:])
}
func decodePlayerJoined(r *codec.Reader) (Event, error) {
	id, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	pub, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	var e PlayerJoined
	e.TournamentID = id
	copy(e.Player[:], pub)
	return e, nil
}

// TournamentPhaseChanged fires once per block-ticker phase transition.
type TournamentPhaseChanged struct {
	TournamentID uint64
	NewPhase     uint8
}

func (TournamentPhaseChanged) Tag() uint8      { return codec.EvTournamentPhaseChanged }
func (TournamentPhaseChanged) EncodeSize() int { return 8 + 1 }
func (e TournamentPhaseChanged) WriteTo(w *codec.Writer) {
	w.WriteU64(e.TournamentID)
	w.WriteU8(e.NewPhase)
}
func decodeTournamentPhaseChanged(r *codec.Reader) (Event, error) {
	id, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	phase, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	return TournamentPhaseChanged{TournamentID: id, NewPhase: phase}, nil
}

// TournamentEnded fires when the ticker drives a tournament to Complete.
type TournamentEnded struct {
	TournamentID uint64
}

func (TournamentEnded) Tag() uint8         { return codec.EvTournamentEnded }
func (TournamentEnded) EncodeSize() int    { return 8 }
func (e TournamentEnded) WriteTo(w *codec.Writer) { w.WriteU64(e.TournamentID) }
func decodeTournamentEnded(r *codec.Reader) (Event, error) {
	id, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return TournamentEnded{TournamentID: id}, nil
}

// CasinoError is emitted on every rejected policy-layer operation (§6.2,
// §7 stratum 2) — the core's "no silent no-op" contract.
type CasinoError struct {
	Code    uint32
	Message string
}

func (CasinoError) Tag() uint8 { return codec.EvCasinoError }
func (e CasinoError) EncodeSize() int { return 4 + 2 + len(e.Message) }
func (e CasinoError) WriteTo(w *codec.Writer) {
	w.WriteU32(e.Code)
	w.WriteStringBounded(e.Message)
}
func decodeCasinoError(r *codec.Reader) (Event, error) {
	code, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	msg, err := r.ReadStringBounded(codec.MaxMessageLen)
	if err != nil {
		return nil, err
	}
	return CasinoError{Code: code, Message: msg}, nil
}

// TransactionAccepted marks one transaction as having reached Apply,
// identified by the BLAKE2b-256 digest of its encoding. Tag 1 ("Transaction"
// in the registry) is the one event every accepted tx gets regardless of
// instruction type, letting a subscriber count accepted txs without
// decoding every instruction-specific event that followed it.
type TransactionAccepted struct {
	Digest [32]byte
}

func (TransactionAccepted) Tag() uint8      { return codec.EvTransaction }
func (TransactionAccepted) EncodeSize() int { return 32 }
func (e TransactionAccepted) WriteTo(w *codec.Writer) { w.WriteFixed(e.Digest[:]) }
func decodeTransactionAccepted(r *codec.Reader) (Event, error) {
	d, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	var e TransactionAccepted
	copy(e.Digest[:], d)
	return e, nil
}

// VaultCreated fires on a successful CreateVault.
type VaultCreated struct {
	Owner      [32]byte
	VaultID    uint64
	Collateral uint64
}

func (VaultCreated) Tag() uint8        { return codec.EvVaultCreated }
func (VaultCreated) EncodeSize() int   { return 32 + 8 + 8 }
func (e VaultCreated) WriteTo(w *codec.Writer) {
	w.WriteFixed(e.Owner[:])
	w.WriteU64(e.VaultID)
	w.WriteU64(e.Collateral)
}
func decodeVaultCreated(r *codec.Reader) (Event, error) {
	var e VaultCreated
	owner, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(e.Owner[:], owner)
	if e.VaultID, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.Collateral, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return e, nil
}

// VaultUpdated fires on DepositCollateral, BorrowVUsdt and RepayVUsdt,
// carrying the vault's post-mutation collateral and debt.
type VaultUpdated struct {
	VaultID    uint64
	Collateral uint64
	Debt       uint64
}

func (VaultUpdated) Tag() uint8      { return codec.EvVaultUpdated }
func (VaultUpdated) EncodeSize() int { return 8 + 8 + 8 }
func (e VaultUpdated) WriteTo(w *codec.Writer) {
	w.WriteU64(e.VaultID)
	w.WriteU64(e.Collateral)
	w.WriteU64(e.Debt)
}
func decodeVaultUpdated(r *codec.Reader) (Event, error) {
	var e VaultUpdated
	var err error
	if e.VaultID, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.Collateral, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.Debt, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return e, nil
}

// SwapExecuted fires on a successful Swap.
type SwapExecuted struct {
	Trader       [32]byte
	AmountIn     uint64
	AmountOut    uint64
	ChipsToVUsdt bool
}

func (SwapExecuted) Tag() uint8      { return codec.EvSwapExecuted }
func (SwapExecuted) EncodeSize() int { return 32 + 8 + 8 + 1 }
func (e SwapExecuted) WriteTo(w *codec.Writer) {
	w.WriteFixed(e.Trader[:])
	w.WriteU64(e.AmountIn)
	w.WriteU64(e.AmountOut)
	w.WriteBool(e.ChipsToVUsdt)
}
func decodeSwapExecuted(r *codec.Reader) (Event, error) {
	var e SwapExecuted
	trader, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(e.Trader[:], trader)
	if e.AmountIn, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.AmountOut, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.ChipsToVUsdt, err = r.ReadBool(); err != nil {
		return nil, err
	}
	return e, nil
}

// LiquidityChanged fires on AddLiquidity and RemoveLiquidity, carrying
// the pool's post-mutation reserves so light clients can track price
// without replaying every swap.
type LiquidityChanged struct {
	Provider     [32]byte
	ChipsReserve uint64
	VUsdtReserve uint64
	TotalLp      uint64
}

func (LiquidityChanged) Tag() uint8      { return codec.EvLiquidityChanged }
func (LiquidityChanged) EncodeSize() int { return 32 + 8 + 8 + 8 }
func (e LiquidityChanged) WriteTo(w *codec.Writer) {
	w.WriteFixed(e.Provider[:])
	w.WriteU64(e.ChipsReserve)
	w.WriteU64(e.VUsdtReserve)
	w.WriteU64(e.TotalLp)
}
func decodeLiquidityChanged(r *codec.Reader) (Event, error) {
	var e LiquidityChanged
	p, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(e.Provider[:], p)
	if e.ChipsReserve, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.VUsdtReserve, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.TotalLp, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return e, nil
}

// Staked fires on a successful Stake.
type Staked struct {
	Owner      [32]byte
	StakeID    uint64
	Amount     uint64
	LockBlocks uint64
}

func (Staked) Tag() uint8      { return codec.EvStaked }
func (Staked) EncodeSize() int { return 32 + 8 + 8 + 8 }
func (e Staked) WriteTo(w *codec.Writer) {
	w.WriteFixed(e.Owner[:])
	w.WriteU64(e.StakeID)
	w.WriteU64(e.Amount)
	w.WriteU64(e.LockBlocks)
}
func decodeStaked(r *codec.Reader) (Event, error) {
	var e Staked
	owner, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(e.Owner[:], owner)
	if e.StakeID, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.Amount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.LockBlocks, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return e, nil
}

// Unstaked fires when a matured stake returns its principal.
type Unstaked struct {
	Owner   [32]byte
	StakeID uint64
	Amount  uint64
}

func (Unstaked) Tag() uint8      { return codec.EvUnstaked }
func (Unstaked) EncodeSize() int { return 32 + 8 + 8 }
func (e Unstaked) WriteTo(w *codec.Writer) {
	w.WriteFixed(e.Owner[:])
	w.WriteU64(e.StakeID)
	w.WriteU64(e.Amount)
}
func decodeUnstaked(r *codec.Reader) (Event, error) {
	var e Unstaked
	owner, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(e.Owner[:], owner)
	if e.StakeID, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.Amount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return e, nil
}

// RewardsClaimed fires on a ClaimRewards call that pays out a nonzero
// amount.
type RewardsClaimed struct {
	Owner   [32]byte
	StakeID uint64
	Amount  uint64
}

func (RewardsClaimed) Tag() uint8      { return codec.EvRewardsClaimed }
func (RewardsClaimed) EncodeSize() int { return 32 + 8 + 8 }
func (e RewardsClaimed) WriteTo(w *codec.Writer) {
	w.WriteFixed(e.Owner[:])
	w.WriteU64(e.StakeID)
	w.WriteU64(e.Amount)
}
func decodeRewardsClaimed(r *codec.Reader) (Event, error) {
	var e RewardsClaimed
	owner, err := r.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(e.Owner[:], owner)
	if e.StakeID, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if e.Amount, err = r.ReadU64(); err != nil {
		return nil, err
	}
	return e, nil
}

// EpochProcessed fires when ProcessEpoch actually advances the house's
// epoch counter (a no-op call before the next boundary emits nothing).
type EpochProcessed struct {
	NewEpoch uint64
}

func (EpochProcessed) Tag() uint8        { return codec.EvEpochProcessed }
func (EpochProcessed) EncodeSize() int   { return 8 }
func (e EpochProcessed) WriteTo(w *codec.Writer) { w.WriteU64(e.NewEpoch) }
func decodeEpochProcessed(r *codec.Reader) (Event, error) {
	newEpoch, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return EpochProcessed{NewEpoch: newEpoch}, nil
}
