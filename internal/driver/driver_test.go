package driver

import (
	"crypto/ed25519"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"casinochain/internal/codec"
	"casinochain/internal/executor"
	"casinochain/internal/storage"
)

func openTestDriver(t *testing.T) *Driver {
	t.Helper()
	adb, err := storage.Open(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	t.Cleanup(func() { adb.Close() })
	evl, err := storage.OpenEventLog(filepath.Join(t.TempDir(), "events"))
	require.NoError(t, err)
	t.Cleanup(func() { evl.Close() })
	return Open(adb, evl, executor.DefaultConfig(), nil)
}

func signedTx(t *testing.T, pub ed25519.PublicKey, priv ed25519.PrivateKey, nonce uint64, ins codec.Instruction) []byte {
	t.Helper()
	var tx codec.Transaction
	tx.Nonce = nonce
	tx.Instruction = ins
	copy(tx.Public[:], pub)
	sig := ed25519.Sign(priv, codec.SigningPayload(tx))
	copy(tx.Signature[:], sig)
	return codec.EncodeTransaction(tx)
}

func TestApplyBlock_CommitsBothStoresAtSameHeight(t *testing.T) {
	d := openTestDriver(t)
	require.True(t, d.Consistent())
	require.Equal(t, int64(-1), d.Height())

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	raw := signedTx(t, pub, priv, 0, codec.CasinoRegister{Name: "alice"})

	evs, err := d.ApplyBlock(1, []byte("seed-1"), [][]byte{raw})
	require.NoError(t, err)
	require.NotEmpty(t, evs)
	require.Equal(t, int64(1), d.Height())
	require.True(t, d.Consistent())
}

func TestApplyBlock_RejectsOutOfOrderHeight(t *testing.T) {
	d := openTestDriver(t)
	_, err := d.ApplyBlock(2, []byte("seed"), nil)
	require.Error(t, err)
}

func TestApplyBlock_SkipsMalformedTransactionButContinuesBlock(t *testing.T) {
	d := openTestDriver(t)
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	good := signedTx(t, pub, priv, 0, codec.CasinoRegister{Name: "bob"})
	bad := []byte{0xff, 0xff, 0xff}

	evs, err := d.ApplyBlock(1, []byte("seed"), [][]byte{bad, good})
	require.NoError(t, err)
	require.NotEmpty(t, evs)
	require.Equal(t, int64(1), d.Height())
}

func TestApplyBlock_ReplayingTipYieldsIdenticalRootsAndEvents(t *testing.T) {
	d := openTestDriver(t)
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	raw := signedTx(t, pub, priv, 0, codec.CasinoRegister{Name: "alice"})

	first, err := d.ApplyBlock(1, []byte("seed-1"), [][]byte{raw})
	require.NoError(t, err)
	stateRoot, err := d.adb.Root()
	require.NoError(t, err)
	eventRoot := d.log.Root()

	second, err := d.ApplyBlock(1, []byte("seed-1"), [][]byte{raw})
	require.NoError(t, err)
	require.Equal(t, int64(1), d.Height(), "replaying the tip must not advance height")

	stateRoot2, err := d.adb.Root()
	require.NoError(t, err)
	require.Equal(t, stateRoot, stateRoot2)
	require.Equal(t, eventRoot, d.log.Root())
	require.Equal(t, len(first), len(second))
}

func TestRecover_ReportsWhichStoreIsBehind(t *testing.T) {
	d := openTestDriver(t)
	behindState, behindEvents := d.Recover()
	require.False(t, behindState)
	require.False(t, behindEvents)
}
