// Package mempool implements the pending-transaction pool spec.md §4.6
// describes: per-account nonce-ordered queues, a round-robin account
// schedule so one prolific signer can't starve everyone else's block
// inclusion, and a BLAKE2b-256 digest dedupe set. The teacher has no
// mempool of its own (CheckTx in apps/chain/internal/app/app.go only does
// structural decode); this package is grounded instead on the
// go-ethereum-derived txpool.go found in other_examples/, generalizing
// its per-account pending-queue split and its digest-keyed "already
// known" rejection into a much smaller, driver-agnostic pool.
package mempool

import (
	"container/heap"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"casinochain/internal/codec"
)

// Config bounds the pool's memory footprint, viper-bound per spec.md
// §4.6's "not compile-time constants" rule.
type Config struct {
	MaxBacklog     int // total pending transactions across every account
	MaxPerAccount  int // pending transactions queued for a single account
}

func DefaultConfig() Config {
	return Config{MaxBacklog: 50000, MaxPerAccount: 256}
}

// PendingTx is one queued, not-yet-applied transaction. CorrelationID is a
// non-consensus identifier for log correlation only — it never enters the
// encoded transaction, a digest, or any consensus-visible state, so two
// nodes observing the same submission are free to generate different IDs.
type PendingTx struct {
	Tx            codec.Transaction
	Raw           []byte
	Digest        [32]byte
	CorrelationID string
}

// accountQueue is a min-heap over PendingTx ordered by nonce, so the
// lowest unapplied nonce for an account always pops first.
type accountQueue []*PendingTx

func (q accountQueue) Len() int            { return len(q) }
func (q accountQueue) Less(i, j int) bool  { return q[i].Tx.Nonce < q[j].Tx.Nonce }
func (q accountQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *accountQueue) Push(x interface{}) { *q = append(*q, x.(*PendingTx)) }
func (q *accountQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

var (
	ErrBacklogFull    = fmt.Errorf("mempool: backlog full")
	ErrAccountFull    = fmt.Errorf("mempool: account queue full")
	ErrAlreadyKnown   = fmt.Errorf("mempool: transaction already known")
)

// Pool holds every pending transaction not yet included in a block.
type Pool struct {
	cfg Config

	queues map[[32]byte]*accountQueue
	// order is the round-robin schedule: accounts with at least one
	// pending transaction, visited in the order they first became
	// non-empty. Popping from the front and re-appending a still-nonempty
	// account to the back is what gives every account a fair turn instead
	// of letting one signer's backlog monopolize a block.
	order []([32]byte)
	inOrder map[[32]byte]bool

	seen map[[32]byte]bool
	size int
}

func New(cfg Config) *Pool {
	return &Pool{
		cfg:     cfg,
		queues:  make(map[[32]byte]*accountQueue),
		inOrder: make(map[[32]byte]bool),
		seen:    make(map[[32]byte]bool),
	}
}

// Submit adds raw (an encoded Transaction) to the pool, rejecting
// duplicates by digest and enforcing both backlog caps.
func (p *Pool) Submit(raw []byte) (*PendingTx, error) {
	digest := blake2b.Sum256(raw)
	if p.seen[digest] {
		return nil, ErrAlreadyKnown
	}
	if p.size >= p.cfg.MaxBacklog {
		return nil, ErrBacklogFull
	}
	tx, err := codec.DecodeTransaction(raw)
	if err != nil {
		return nil, err
	}
	q, ok := p.queues[tx.Public]
	if !ok {
		nq := make(accountQueue, 0, 4)
		q = &nq
		p.queues[tx.Public] = q
	}
	if q.Len() >= p.cfg.MaxPerAccount {
		return nil, ErrAccountFull
	}
	pt := &PendingTx{Tx: tx, Raw: raw, Digest: digest, CorrelationID: uuid.NewString()}
	heap.Push(q, pt)
	p.seen[digest] = true
	p.size++
	if !p.inOrder[tx.Public] {
		p.order = append(p.order, tx.Public)
		p.inOrder[tx.Public] = true
	}
	return pt, nil
}

// Pending drains up to max transactions in round-robin account order,
// each account contributing its lowest-nonce pending transaction per
// visit before the schedule moves to the next account. The drained
// transactions are removed from the pool (a block either includes them
// or the driver must resubmit on rejection — this pool does not retain a
// processed-but-rejected transaction).
func (p *Pool) Pending(max int) []*PendingTx {
	var out []*PendingTx
	for len(p.order) > 0 && len(out) < max {
		acct := p.order[0]
		p.order = p.order[1:]
		q := p.queues[acct]
		if q == nil || q.Len() == 0 {
			p.inOrder[acct] = false
			continue
		}
		pt := heap.Pop(q).(*PendingTx)
		out = append(out, pt)
		p.size--
		if q.Len() > 0 {
			p.order = append(p.order, acct)
		} else {
			p.inOrder[acct] = false
		}
	}
	return out
}

// Forget drops digest from the seen set, e.g. after its transaction has
// been committed and the driver wants a future digest collision (replay
// of an already-applied tx) to be rejected for a different reason than
// "already known".
func (p *Pool) Forget(digest [32]byte) { delete(p.seen, digest) }

// Len returns the total number of pending transactions across every
// account.
func (p *Pool) Len() int { return p.size }
