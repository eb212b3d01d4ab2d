// Package storage implements the two backing stores the driver commits to
// every block: an authenticated key-value store (ADB) for account/casino/
// economic state, and an append-only keyless event log. Both are backed
// by goleveldb, following the same thin-wrapper idiom the pack's leaner
// chain examples use around it.
package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/crypto/blake2b"
)

// metaHeightKey is reserved and never collides with a real state key: no
// codec.Key* tag is zero-length, but this key is a distinct fixed byte
// string outside the single-byte tag space used by state.Key* helpers.
var metaHeightKey = []byte("__adb_height__")

// ADB is the authenticated key-value store backing account and casino
// state. It tracks a monotonic op_count and a committed height so the
// driver can enforce the state_height == events_height invariant.
type ADB struct {
	db       *leveldb.DB
	opCount  uint64
	height   int64
	pending  *leveldb.Batch
	pendingN uint64
}

// Open opens (or creates) the ADB at path.
func Open(path string) (*ADB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open adb %q: %w", path, err)
	}
	a := &ADB{db: db, height: -1}
	if v, err := db.Get(metaHeightKey, nil); err == nil {
		h, n, derr := decodeMeta(v)
		if derr == nil {
			a.height = h
			a.opCount = n
		}
	}
	return a, nil
}

func (a *ADB) Close() error { return a.db.Close() }

// Get reads a value by key. Returns (nil, false, nil) on a miss.
func (a *ADB) Get(key []byte) ([]byte, bool, error) {
	v, err := a.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// BeginPending starts a new tentative write batch. All subsequent
// Insert/Delete calls accumulate in it until Commit or Discard.
func (a *ADB) BeginPending() {
	a.pending = new(leveldb.Batch)
	a.pendingN = 0
}

// Insert stages a key/value write in the pending batch.
func (a *ADB) Insert(key, value []byte) {
	a.pending.Put(key, value)
	a.pendingN++
}

// Delete stages a key removal in the pending batch.
func (a *ADB) Delete(key []byte) {
	a.pending.Delete(key)
	a.pendingN++
}

// Discard drops the pending batch without writing it.
func (a *ADB) Discard() {
	a.pending = nil
	a.pendingN = 0
}

// Commit writes the pending batch plus the block-closing height/op_count
// record in one atomic goleveldb batch.
func (a *ADB) Commit(height int64) error {
	if a.pending == nil {
		a.pending = new(leveldb.Batch)
	}
	newCount := a.opCount + a.pendingN
	a.pending.Put(metaHeightKey, encodeMeta(height, newCount))
	if err := a.db.Write(a.pending, nil); err != nil {
		return err
	}
	a.height = height
	a.opCount = newCount
	a.pending = nil
	a.pendingN = 0
	return nil
}

// Height returns the last committed height, or -1 if nothing committed.
func (a *ADB) Height() int64 { return a.height }

// OpCount returns the total number of insert/delete ops ever committed.
func (a *ADB) OpCount() uint64 { return a.opCount }

// Root hashes every live key/value pair in key order into a single
// blake2b-256 digest. goleveldb iterates keys in lexicographic byte
// order already, so this is a deterministic O(n) scan rather than a
// maintained merkle tree — acceptable at this store's expected size, and
// simple enough that two independently-built replicas cannot disagree on
// the hashing order.
func (a *ADB) Root() ([32]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, err
	}
	it := a.newIterator()
	defer it.Release()
	for it.Next() {
		k := it.Key()
		if string(k) == string(metaHeightKey) {
			continue
		}
		var lenBuf [4]byte
		putU32(lenBuf[:], uint32(len(k)))
		h.Write(lenBuf[:])
		h.Write(k)
		v := it.Value()
		putU32(lenBuf[:], uint32(len(v)))
		h.Write(lenBuf[:])
		h.Write(v)
	}
	if err := it.Error(); err != nil {
		return [32]byte{}, err
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

func (a *ADB) newIterator() iterator.Iterator {
	return a.db.NewIterator(util.BytesPrefix(nil), nil)
}

// Iterate walks every live key with the given prefix in key order,
// calling fn(key, value) for each. Used by callers (the leaderboard and
// tournament ticker) that need every entry under a single state-key tag
// byte without maintaining a separate index.
func (a *ADB) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	it := a.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	for it.Next() {
		k := make([]byte, len(it.Key()))
		copy(k, it.Key())
		v := make([]byte, len(it.Value()))
		copy(v, it.Value())
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return it.Error()
}

func encodeMeta(height int64, opCount uint64) []byte {
	b := make([]byte, 16)
	putI64(b[0:8], height)
	putU64(b[8:16], opCount)
	return b
}

func decodeMeta(b []byte) (int64, uint64, error) {
	if len(b) != 16 {
		return 0, 0, fmt.Errorf("adb: malformed meta record")
	}
	return getI64(b[0:8]), getU64(b[8:16]), nil
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[7-i] = byte(v >> (8 * i))
	}
}

func getU64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func putI64(b []byte, v int64) { putU64(b, uint64(v)) }
func getI64(b []byte) int64    { return int64(getU64(b)) }
