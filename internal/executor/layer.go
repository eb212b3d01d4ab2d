// Package executor implements the Layer, the per-block mutation
// authority: one Prepare/Apply pair per transaction over an in-memory
// write overlay, generalizing the teacher's deliverTx/applyAction split
// and its requireAccountAuth signature check (apps/chain/internal/app/
// auth.go) from the teacher's ad hoc JSON signing domain to the binary
// codec.TransactionPayload.
package executor

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"casinochain/internal/codec"
	"casinochain/internal/econ"
	"casinochain/internal/events"
	"casinochain/internal/games"
	"casinochain/internal/state"
	"casinochain/internal/storage"
)

// Config carries the Layer's policy constants, viper-bound by
// internal/config rather than compiled in (spec.md §4.6's "not
// compile-time constants" rule applies equally here).
type Config struct {
	DefaultChips          uint64
	DepositCooldownBlocks uint64
	TournamentReg         uint64 // blocks spent in Registration before Active
	TournamentActive      uint64 // blocks spent in Active before Complete

	StakeMaxLockBlocks uint64 // lock duration that earns full voting power
	StakeEpochBlocks   uint64 // block span of one staking epoch
	StakeRewardBps     uint64 // per-epoch reward rate, in bps of voting power
}

// DefaultConfig mirrors the values exercised in spec.md's end-to-end
// scenarios (§8): a fresh CasinoRegister leaves chips=10000.
func DefaultConfig() Config {
	return Config{
		DefaultChips:          10000,
		DepositCooldownBlocks: 10,
		TournamentReg:         100,
		TournamentActive:      1000,
		StakeMaxLockBlocks:    100000,
		StakeEpochBlocks:      1000,
		StakeRewardBps:        50,
	}
}

func (l *Layer) stakeConfig() econ.StakeConfig {
	return econ.StakeConfig{
		MaxLockBlocks: l.Cfg.StakeMaxLockBlocks,
		EpochBlocks:   l.Cfg.StakeEpochBlocks,
		RewardBps:     l.Cfg.StakeRewardBps,
	}
}

// PrepareError is the typed rejection surface for the Prepare phase,
// kept distinct from events.CasinoError because a Prepare rejection
// never consumes a nonce and is never recorded in the event log
// (spec.md §4.4: "the prepare phase is idempotent and read-only with
// respect to accepted nonces").
type PrepareError struct {
	Kind     PrepareErrorKind
	Expected uint64
	Actual   uint64
}

type PrepareErrorKind uint8

const (
	PrepareBadSignature PrepareErrorKind = iota
	PrepareNonceMismatch
)

func (e *PrepareError) Error() string {
	switch e.Kind {
	case PrepareNonceMismatch:
		return fmt.Sprintf("nonce mismatch: expected %d, got %d", e.Expected, e.Actual)
	default:
		return "bad signature"
	}
}

// Layer is the per-block write overlay over the ADB: Put/Delete stage
// changes that Get/Iterate observe immediately (read-your-own-writes
// within the block) but that the driver only makes durable by flushing
// the overlay into the ADB's own pending batch at Commit time — this is
// the fix for the ADB's "writes invisible until Commit" limitation
// (storage.ADB.Get reads the committed leveldb.DB directly).
type Layer struct {
	adb    *storage.ADB
	Games  *games.Registry
	Cfg    Config
	Log    *logrus.Logger
	Height uint64
	Seed   []byte

	overlay   map[string][]byte
	tombstone map[string]bool

	pendingNonces map[[32]byte]uint64
}

// NewLayer opens a Layer for one block: height is the block about to be
// applied, seed is its consensus-supplied randomness source.
func NewLayer(adb *storage.ADB, height uint64, seed []byte, log *logrus.Logger) *Layer {
	if log == nil {
		log = logrus.New()
	}
	return &Layer{
		adb:           adb,
		Games:         games.NewRegistry(),
		Cfg:           DefaultConfig(),
		Log:           log,
		Height:        height,
		Seed:          seed,
		overlay:       make(map[string][]byte),
		tombstone:     make(map[string]bool),
		pendingNonces: make(map[[32]byte]uint64),
	}
}

// Get implements kv.Store.
func (l *Layer) Get(key []byte) ([]byte, bool, error) {
	k := string(key)
	if l.tombstone[k] {
		return nil, false, nil
	}
	if v, ok := l.overlay[k]; ok {
		return v, true, nil
	}
	return l.adb.Get(key)
}

// Put implements kv.Store.
func (l *Layer) Put(key, value []byte) {
	k := string(key)
	delete(l.tombstone, k)
	l.overlay[k] = value
}

// Delete implements kv.Store.
func (l *Layer) Delete(key []byte) {
	k := string(key)
	delete(l.overlay, k)
	l.tombstone[k] = true
}

// Iterate implements kv.Store, merging staged writes over the last
// committed ADB view in ascending key order so replicas iterating the
// leaderboard or the tournament set agree regardless of Go's randomized
// map iteration order.
func (l *Layer) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	type row struct {
		key   []byte
		value []byte
	}
	var rows []row
	for k, v := range l.overlay {
		if bytes.HasPrefix([]byte(k), prefix) {
			rows = append(rows, row{key: []byte(k), value: v})
		}
	}
	if err := l.adb.Iterate(prefix, func(k, v []byte) error {
		ks := string(k)
		if _, staged := l.overlay[ks]; staged {
			return nil
		}
		if l.tombstone[ks] {
			return nil
		}
		rows = append(rows, row{key: k, value: v})
		return nil
	}); err != nil {
		return err
	}
	sort.Slice(rows, func(i, j int) bool { return bytes.Compare(rows[i].key, rows[j].key) < 0 })
	for _, r := range rows {
		if err := fn(r.key, r.value); err != nil {
			return err
		}
	}
	return nil
}

// Flush hands every staged write/delete to the ADB's own pending batch,
// ready for the ADB's Commit. Called once per block by internal/driver
// after every transaction has been applied.
func (l *Layer) Flush() {
	l.adb.BeginPending()
	for k, v := range l.overlay {
		l.adb.Insert([]byte(k), v)
	}
	for k := range l.tombstone {
		l.adb.Delete([]byte(k))
	}
}

// Prepare verifies tx's signature and nonce without mutating durable
// state: only Layer.pendingNonces (in-memory, this block only) advances,
// matching spec.md §4.4's "idempotent and read-only with respect to
// accepted nonces".
func (l *Layer) Prepare(tx codec.Transaction) error {
	if !ed25519.Verify(ed25519.PublicKey(tx.Public[:]), codec.SigningPayload(tx), tx.Signature[:]) {
		return &PrepareError{Kind: PrepareBadSignature}
	}
	expected, ok := l.pendingNonces[tx.Public]
	if !ok {
		acct, found, err := l.Get(state.AccountKey(tx.Public))
		if err != nil {
			return err
		}
		if found {
			a, derr := state.DecodeAccount(acct)
			if derr != nil {
				return derr
			}
			expected = a.Nonce
		}
	}
	if tx.Nonce != expected {
		return &PrepareError{Kind: PrepareNonceMismatch, Expected: expected, Actual: tx.Nonce}
	}
	l.pendingNonces[tx.Public] = expected + 1
	return nil
}

// Apply dispatches tx's instruction and returns the events it produced.
// The first event is always TransactionAccepted, per events.go: "every
// accepted tx gets [this] regardless of instruction type". Apply never
// returns a Go error for a policy-layer rejection (insufficient funds, an
// unknown session, ...); those surface as an events.CasinoError instead,
// per spec.md §4.4's "no silent no-op" contract. A non-nil error here
// means a storage/codec failure the driver should halt on.
func (l *Layer) Apply(tx codec.Transaction) ([]events.Event, error) {
	acct, found, err := l.Get(state.AccountKey(tx.Public))
	if err != nil {
		return nil, err
	}
	var account state.Account
	if found {
		if account, err = state.DecodeAccount(acct); err != nil {
			return nil, err
		}
	}
	account.Nonce = tx.Nonce + 1
	l.Put(state.AccountKey(tx.Public), account.Encode())

	digest := blake2b.Sum256(codec.EncodeTransaction(tx))
	out := []events.Event{events.TransactionAccepted{Digest: digest}}

	evs, err := l.dispatch(tx.Public, tx.Instruction)
	if err != nil {
		return nil, err
	}
	return append(out, evs...), nil
}

func (l *Layer) dispatch(pub [32]byte, ins codec.Instruction) ([]events.Event, error) {
	switch i := ins.(type) {
	case codec.CasinoRegister:
		return l.applyCasinoRegister(pub, i)
	case codec.CasinoDeposit:
		return l.applyCasinoDeposit(pub, i)
	case codec.CasinoStartGame:
		return l.applyCasinoStartGame(pub, i)
	case codec.CasinoGameMove:
		return l.applyCasinoGameMove(pub, i)
	case codec.CasinoToggleShield:
		return l.applyCasinoToggle(pub, true)
	case codec.CasinoToggleDouble:
		return l.applyCasinoToggle(pub, false)
	case codec.CasinoToggleSuper:
		return []events.Event{events.CasinoError{Code: codec.ErrInvalidMove, Message: "super modifier not defined"}}, nil
	case codec.CasinoJoinTournament:
		return l.applyJoinTournament(pub, i)
	case codec.StartTournament:
		return l.applyStartTournament(pub, i)
	case codec.EndTournament:
		return l.applyEndTournament(pub, i)
	case codec.CreateVault:
		return l.applyCreateVault(pub, i)
	case codec.DepositCollateral:
		return l.applyDepositCollateral(pub, i)
	case codec.BorrowVUsdt:
		return l.applyBorrowVUsdt(pub, i)
	case codec.RepayVUsdt:
		return l.applyRepayVUsdt(pub, i)
	case codec.Swap:
		return l.applySwap(pub, i)
	case codec.AddLiquidity:
		return l.applyAddLiquidity(pub, i)
	case codec.RemoveLiquidity:
		return l.applyRemoveLiquidity(pub, i)
	case codec.Stake:
		return l.applyStake(pub, i)
	case codec.Unstake:
		return l.applyUnstake(pub, i)
	case codec.ClaimRewards:
		return l.applyClaimRewards(pub, i)
	case codec.ProcessEpoch:
		return l.applyProcessEpoch(pub)
	default:
		return []events.Event{events.CasinoError{Code: codec.ErrInvalidMove, Message: "unhandled instruction"}}, nil
	}
}

// TickTournaments drives every non-Complete tournament forward by one
// block, called once per block by internal/driver after every
// transaction has been applied (spec.md §4.7).
func (l *Layer) TickTournaments() ([]events.Event, error) {
	return tickAllTournaments(l, casinoTournamentConfig(l.Cfg), l.Height)
}
