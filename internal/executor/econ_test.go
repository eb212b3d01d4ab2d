package executor

import (
	"crypto/ed25519"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"casinochain/internal/codec"
	"casinochain/internal/events"
	"casinochain/internal/storage"
)

func openTestLayer(t *testing.T, height uint64) (*Layer, *storage.ADB) {
	t.Helper()
	adb, err := storage.Open(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	t.Cleanup(func() { adb.Close() })
	l := NewLayer(adb, height, []byte("seed"), nil)
	l.Cfg = DefaultConfig()
	return l, adb
}

func applyOne(t *testing.T, l *Layer, pub ed25519.PublicKey, priv ed25519.PrivateKey, nonce uint64, ins codec.Instruction) []events.Event {
	t.Helper()
	var tx codec.Transaction
	tx.Nonce = nonce
	tx.Instruction = ins
	copy(tx.Public[:], pub)
	sig := ed25519.Sign(priv, codec.SigningPayload(tx))
	copy(tx.Signature[:], sig)

	require.NoError(t, l.Prepare(tx))
	evs, err := l.Apply(tx)
	require.NoError(t, err)
	return evs
}

func findEvent[T events.Event](t *testing.T, evs []events.Event) T {
	t.Helper()
	for _, e := range evs {
		if te, ok := e.(T); ok {
			return te
		}
	}
	t.Fatalf("expected an event of the requested type among %d events", len(evs))
	var zero T
	return zero
}

func TestVaultLifecycle_CreateDepositBorrowRepay(t *testing.T) {
	l, _ := openTestLayer(t, 1)
	pub, priv, _ := ed25519.GenerateKey(nil)

	applyOne(t, l, pub, priv, 0, codec.CasinoRegister{Name: "alice"})

	evs := applyOne(t, l, pub, priv, 1, codec.CreateVault{CollateralAmount: 1000})
	created := findEvent[events.VaultCreated](t, evs)
	require.Equal(t, uint64(1000), created.Collateral)

	evs = applyOne(t, l, pub, priv, 2, codec.BorrowVUsdt{VaultID: created.VaultID, Amount: 400})
	updated := findEvent[events.VaultUpdated](t, evs)
	require.Equal(t, uint64(400), updated.Debt)

	evs = applyOne(t, l, pub, priv, 3, codec.BorrowVUsdt{VaultID: created.VaultID, Amount: 200})
	errEv := findEvent[events.CasinoError](t, evs)
	require.Equal(t, codec.ErrLTVExceeded, errEv.Code)

	evs = applyOne(t, l, pub, priv, 4, codec.RepayVUsdt{VaultID: created.VaultID, Amount: 400})
	updated = findEvent[events.VaultUpdated](t, evs)
	require.Equal(t, uint64(0), updated.Debt)
}

func TestVaultOperations_RejectNonOwner(t *testing.T) {
	l, _ := openTestLayer(t, 1)
	owner, ownerPriv, _ := ed25519.GenerateKey(nil)
	other, otherPriv, _ := ed25519.GenerateKey(nil)

	applyOne(t, l, owner, ownerPriv, 0, codec.CasinoRegister{Name: "alice"})
	applyOne(t, l, other, otherPriv, 0, codec.CasinoRegister{Name: "bob"})
	evs := applyOne(t, l, owner, ownerPriv, 1, codec.CreateVault{CollateralAmount: 1000})
	created := findEvent[events.VaultCreated](t, evs)

	evs = applyOne(t, l, other, otherPriv, 1, codec.DepositCollateral{VaultID: created.VaultID, Amount: 10})
	errEv := findEvent[events.CasinoError](t, evs)
	require.Equal(t, codec.ErrNotVaultOwner, errEv.Code)
}

func TestStakingLifecycle_StakeProcessEpochClaimUnstake(t *testing.T) {
	l, adb := openTestLayer(t, 1)
	l.Cfg.StakeMaxLockBlocks = 1000
	l.Cfg.StakeEpochBlocks = 10
	l.Cfg.StakeRewardBps = 5000
	pub, priv, _ := ed25519.GenerateKey(nil)

	applyOne(t, l, pub, priv, 0, codec.CasinoRegister{Name: "alice"})
	evs := applyOne(t, l, pub, priv, 1, codec.Stake{Amount: 1000, LockBlocks: 1000})
	staked := findEvent[events.Staked](t, evs)
	require.Equal(t, uint64(1000), staked.Amount)

	evs = applyOne(t, l, pub, priv, 2, codec.ClaimRewards{StakeID: staked.StakeID})
	errEv := findEvent[events.CasinoError](t, evs)
	require.Equal(t, codec.ErrEpochNotReady, errEv.Code)

	l.Flush()
	require.NoError(t, adb.Commit(1))

	l2 := NewLayer(adb, 10, []byte("seed2"), nil)
	l2.Cfg = l.Cfg
	evs = applyOne(t, l2, pub, priv, 3, codec.ProcessEpoch{})
	processed := findEvent[events.EpochProcessed](t, evs)
	require.Equal(t, uint64(1), processed.NewEpoch)

	evs = applyOne(t, l2, pub, priv, 4, codec.ClaimRewards{StakeID: staked.StakeID})
	claimed := findEvent[events.RewardsClaimed](t, evs)
	// No swap fees have accrued in this test, so the reward is capped at
	// zero, but the claim itself must succeed and advance LastEpochClaimed
	// (checked indirectly: a second claim this same epoch is rejected).
	require.Equal(t, uint64(0), claimed.Amount)

	evs = applyOne(t, l2, pub, priv, 5, codec.ClaimRewards{StakeID: staked.StakeID})
	errEv2 := findEvent[events.CasinoError](t, evs)
	require.Equal(t, codec.ErrEpochNotReady, errEv2.Code)
	l2.Flush()
	require.NoError(t, adb.Commit(10))

	l3 := NewLayer(adb, 1010, []byte("seed3"), nil)
	l3.Cfg = l.Cfg
	evs = applyOne(t, l3, pub, priv, 6, codec.Unstake{StakeID: staked.StakeID})
	unstaked := findEvent[events.Unstaked](t, evs)
	require.Equal(t, staked.Amount, unstaked.Amount)
}
