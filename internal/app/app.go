// Package app wires internal/driver, internal/mempool and internal/config
// into a cometbft ABCI application, generalizing the teacher's OCPApp
// (apps/chain/internal/app/app.go): the same Info/CheckTx/FinalizeBlock/
// Commit/Query method set, but CheckTx now submits into a real mempool.Pool
// instead of only structurally decoding, and FinalizeBlock hands req.Txs
// to internal/driver.Driver.ApplyBlock rather than looping a bare
// deliverTx over them directly.
package app

import (
	"context"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"casinochain/internal/config"
	"casinochain/internal/driver"
	"casinochain/internal/events"
	"casinochain/internal/ledger"
	"casinochain/internal/mempool"
	"casinochain/internal/state"
	"casinochain/internal/storage"
)

const Version uint64 = 1

// CasinoApp is the ABCI application one casinod process runs.
type CasinoApp struct {
	*abci.BaseApplication

	cfg config.Config
	log *logrus.Logger

	mu   sync.Mutex
	adb  *storage.ADB
	evl  *storage.EventLog
	drv  *driver.Driver
	pool *mempool.Pool
}

// New opens the two backing stores under <home>/data and wires the
// driver and mempool over them, mirroring the teacher's New(home) that
// opens a single state.State under <home>/app.
func New(cfg config.Config, log *logrus.Logger) (*CasinoApp, error) {
	if log == nil {
		log = logrus.New()
	}
	dataDir := filepath.Join(cfg.Home, "data")
	adb, err := storage.Open(filepath.Join(dataDir, "state"))
	if err != nil {
		return nil, fmt.Errorf("app: open state store: %w", err)
	}
	evl, err := storage.OpenEventLog(filepath.Join(dataDir, "events"))
	if err != nil {
		return nil, fmt.Errorf("app: open event log: %w", err)
	}
	a := &CasinoApp{
		BaseApplication: abci.NewBaseApplication(),
		cfg:             cfg,
		log:             log,
		adb:             adb,
		evl:             evl,
		drv:             driver.Open(adb, evl, cfg.Executor, log),
		pool:            mempool.New(cfg.Mempool),
	}
	return a, nil
}

func (a *CasinoApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &abci.InfoResponse{
		Data:             "casinochain",
		Version:          "v1",
		AppVersion:       Version,
		LastBlockHeight:  a.drv.Height(),
		LastBlockAppHash: a.lastAppHash(),
	}, nil
}

// CheckTx decodes and submits raw transactions into the mempool, the
// generalization of the teacher's "v0: only structural validation" check
// now that there's a real pool to dedupe and queue into.
func (a *CasinoApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.pool.Submit(req.Tx); err != nil {
		a.log.WithFields(logrus.Fields{"err": err}).Warn("checktx rejected")
		return &abci.CheckTxResponse{Code: 1, Log: err.Error()}, nil
	}
	return &abci.CheckTxResponse{Code: 0}, nil
}

func (a *CasinoApp) InitChain(_ context.Context, _ *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	return &abci.InitChainResponse{}, nil
}

// FinalizeBlock hands consensus's req.Txs to the driver, instead of the
// teacher's direct req.Txs loop over deliverTx, then calls Pool.Forget on
// each transaction's digest. It does not read transactions from the
// mempool; Forget clears only the pool's dedupe entry for each digest.
func (a *CasinoApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	seed := blockSeed(req.Hash, uint64(req.Height))
	evs, err := a.drv.ApplyBlock(uint64(req.Height), seed, req.Txs)
	if err != nil {
		return nil, err
	}
	for _, raw := range req.Txs {
		a.pool.Forget(digestOf(raw))
	}

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for range req.Txs {
		txResults = append(txResults, &abci.ExecTxResult{Code: 0})
	}
	eventJSON := make([]abci.Event, 0, len(evs))
	for _, ev := range evs {
		eventJSON = append(eventJSON, abciEvent(ev))
	}
	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		Events:    eventJSON,
		AppHash:   a.lastAppHash(),
	}, nil
}

func (a *CasinoApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	// internal/driver.ApplyBlock already committed both stores
	// durably; Commit has nothing further to persist.
	return &abci.CommitResponse{}, nil
}

// Query serves light-client lookups directly from the state store:
// - /player/<pubkey hex>
// - /leaderboard
func (a *CasinoApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := strings.TrimSpace(req.Path)
	switch {
	case path == "/leaderboard":
		raw, ok, err := a.adb.Get(state.LeaderboardKey())
		if err != nil {
			return nil, err
		}
		if !ok {
			return &abci.QueryResponse{Code: 0, Value: nil, Height: a.drv.Height()}, nil
		}
		return &abci.QueryResponse{Code: 0, Value: raw, Height: a.drv.Height()}, nil
	case strings.HasPrefix(path, "/player/"):
		hexKey := strings.TrimPrefix(path, "/player/")
		var pub [32]byte
		if n, err := fmt.Sscanf(hexKey, "%x", &pub); err != nil || n != 1 {
			return &abci.QueryResponse{Code: 1, Log: "invalid pubkey"}, nil
		}
		p, ok, err := ledger.LoadPlayer(adbStore{a.adb}, pub)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &abci.QueryResponse{Code: 1, Log: "player not found", Height: a.drv.Height()}, nil
		}
		return &abci.QueryResponse{Code: 0, Value: p.Encode(), Height: a.drv.Height()}, nil
	default:
		return &abci.QueryResponse{Code: 1, Log: "unknown query path", Height: a.drv.Height()}, nil
	}
}

// adbStore adapts *storage.ADB to kv.Store for the read-only query path,
// which never needs the Layer's write overlay.
type adbStore struct{ adb *storage.ADB }

func (s adbStore) Get(key []byte) ([]byte, bool, error) { return s.adb.Get(key) }
func (s adbStore) Put([]byte, []byte)                   {}
func (s adbStore) Delete([]byte)                         {}
func (s adbStore) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return s.adb.Iterate(prefix, fn)
}

func (a *CasinoApp) lastAppHash() []byte {
	root, err := a.adb.Root()
	if err != nil {
		a.log.WithFields(logrus.Fields{"err": err}).Fatal("failed to compute state root")
		return nil
	}
	return root[:]
}

func blockSeed(blockHash []byte, height uint64) []byte {
	var h [8]byte
	binary.BigEndian.PutUint64(h[:], height)
	return append(append([]byte(nil), blockHash...), h[:]...)
}

func digestOf(raw []byte) [32]byte { return blake2b.Sum256(raw) }

func abciEvent(ev events.Event) abci.Event {
	return abci.Event{
		Type: fmt.Sprintf("tag-%d", ev.Tag()),
	}
}
