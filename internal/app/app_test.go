package app

import (
	"context"
	"crypto/ed25519"
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/require"

	"casinochain/internal/codec"
	"casinochain/internal/config"
)

func newTestApp(t *testing.T) *CasinoApp {
	t.Helper()
	cfg := config.Default()
	cfg.Home = t.TempDir()
	a, err := New(cfg, nil)
	require.NoError(t, err)
	return a
}

func registerTx(t *testing.T, pub ed25519.PublicKey, priv ed25519.PrivateKey, nonce uint64, name string) []byte {
	t.Helper()
	var tx codec.Transaction
	tx.Nonce = nonce
	tx.Instruction = codec.CasinoRegister{Name: name}
	copy(tx.Public[:], pub)
	sig := ed25519.Sign(priv, codec.SigningPayload(tx))
	copy(tx.Signature[:], sig)
	return codec.EncodeTransaction(tx)
}

func TestCheckTx_AcceptsWellFormedTransaction(t *testing.T) {
	a := newTestApp(t)
	pub, priv, _ := ed25519.GenerateKey(nil)
	raw := registerTx(t, pub, priv, 0, "alice")

	resp, err := a.CheckTx(context.Background(), &abci.CheckTxRequest{Tx: raw})
	require.NoError(t, err)
	require.Equal(t, uint32(0), resp.Code)
}

func TestCheckTx_RejectsDuplicateSubmission(t *testing.T) {
	a := newTestApp(t)
	pub, priv, _ := ed25519.GenerateKey(nil)
	raw := registerTx(t, pub, priv, 0, "alice")

	_, err := a.CheckTx(context.Background(), &abci.CheckTxRequest{Tx: raw})
	require.NoError(t, err)
	resp, err := a.CheckTx(context.Background(), &abci.CheckTxRequest{Tx: raw})
	require.NoError(t, err)
	require.NotEqual(t, uint32(0), resp.Code)
}

func TestFinalizeBlock_CommitsAndAdvancesHeight(t *testing.T) {
	a := newTestApp(t)
	pub, priv, _ := ed25519.GenerateKey(nil)
	raw := registerTx(t, pub, priv, 0, "alice")

	resp, err := a.FinalizeBlock(context.Background(), &abci.FinalizeBlockRequest{
		Height: 1,
		Hash:   []byte("block-1"),
		Txs:    [][]byte{raw},
	})
	require.NoError(t, err)
	require.Len(t, resp.TxResults, 1)
	require.NotEmpty(t, resp.AppHash)

	info, err := a.Info(context.Background(), &abci.InfoRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), info.LastBlockHeight)
}

func TestQuery_ServesPlayerAfterFinalize(t *testing.T) {
	a := newTestApp(t)
	pub, priv, _ := ed25519.GenerateKey(nil)
	raw := registerTx(t, pub, priv, 0, "alice")

	_, err := a.FinalizeBlock(context.Background(), &abci.FinalizeBlockRequest{
		Height: 1,
		Hash:   []byte("block-1"),
		Txs:    [][]byte{raw},
	})
	require.NoError(t, err)

	hexPub := ""
	for _, b := range pub {
		hexPub += string("0123456789abcdef"[b>>4]) + string("0123456789abcdef"[b&0xf])
	}
	resp, err := a.Query(context.Background(), &abci.QueryRequest{Path: "/player/" + hexPub})
	require.NoError(t, err)
	require.Equal(t, uint32(0), resp.Code)
	require.NotEmpty(t, resp.Value)
}
