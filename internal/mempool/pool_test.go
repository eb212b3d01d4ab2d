package mempool

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"casinochain/internal/codec"
)

func rawTx(t *testing.T, priv ed25519.PrivateKey, pub ed25519.PublicKey, nonce uint64, name string) []byte {
	t.Helper()
	var tx codec.Transaction
	tx.Nonce = nonce
	tx.Instruction = codec.CasinoRegister{Name: name}
	copy(tx.Public[:], pub)
	sig := ed25519.Sign(priv, codec.SigningPayload(tx))
	copy(tx.Signature[:], sig)
	return codec.EncodeTransaction(tx)
}

func TestSubmit_RejectsDuplicateDigest(t *testing.T) {
	p := New(DefaultConfig())
	pub, priv, _ := ed25519.GenerateKey(nil)
	raw := rawTx(t, priv, pub, 0, "a")

	_, err := p.Submit(raw)
	require.NoError(t, err)
	_, err = p.Submit(raw)
	require.ErrorIs(t, err, ErrAlreadyKnown)
}

func TestSubmit_EnforcesPerAccountCap(t *testing.T) {
	cfg := Config{MaxBacklog: 100, MaxPerAccount: 2}
	p := New(cfg)
	pub, priv, _ := ed25519.GenerateKey(nil)

	for i := uint64(0); i < 2; i++ {
		_, err := p.Submit(rawTx(t, priv, pub, i, "a"))
		require.NoError(t, err)
	}
	_, err := p.Submit(rawTx(t, priv, pub, 2, "a"))
	require.ErrorIs(t, err, ErrAccountFull)
}

func TestPending_RoundRobinsAcrossAccounts(t *testing.T) {
	p := New(DefaultConfig())
	pubA, privA, _ := ed25519.GenerateKey(nil)
	pubB, privB, _ := ed25519.GenerateKey(nil)

	_, err := p.Submit(rawTx(t, privA, pubA, 0, "a"))
	require.NoError(t, err)
	_, err = p.Submit(rawTx(t, privA, pubA, 1, "a"))
	require.NoError(t, err)
	_, err = p.Submit(rawTx(t, privB, pubB, 0, "b"))
	require.NoError(t, err)

	drained := p.Pending(10)
	require.Len(t, drained, 3)
	require.NotEqual(t, drained[0].Tx.Public, drained[1].Tx.Public, "round robin should alternate accounts before revisiting")
	require.Equal(t, uint64(0), drained[0].Tx.Nonce)
	require.Equal(t, 0, p.Len())
}

func TestForget_AllowsDigestToBeSubmittedAgain(t *testing.T) {
	p := New(DefaultConfig())
	pub, priv, _ := ed25519.GenerateKey(nil)
	raw := rawTx(t, priv, pub, 0, "a")

	pt, err := p.Submit(raw)
	require.NoError(t, err)
	p.Forget(pt.Digest)

	_, err = p.Submit(raw)
	require.NoError(t, err)
}
