package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"golang.org/x/crypto/blake2b"
)

// EventLog is the append-only, keyless event store. Events are indexed by
// a dense uint64 op index rather than any domain key, matching the
// Glossary's "keyless event log" — callers look events up by range, not
// by identity.
type EventLog struct {
	db      *leveldb.DB
	opCount uint64
	height  int64
	chain   [32]byte
	pending *leveldb.Batch
	staged  [][]byte
}

var logMetaKey = []byte("__events_meta__")

// Open opens (or creates) the event log at path.
func OpenEventLog(path string) (*EventLog, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open eventlog %q: %w", path, err)
	}
	l := &EventLog{db: db, height: -1}
	if v, err := db.Get(logMetaKey, nil); err == nil {
		h, n, chain, derr := decodeLogMeta(v)
		if derr == nil {
			l.height, l.opCount, l.chain = h, n, chain
		}
	}
	return l, nil
}

func (l *EventLog) Close() error { return l.db.Close() }

// BeginPending starts a tentative batch of events for the block under
// construction.
func (l *EventLog) BeginPending() {
	l.pending = new(leveldb.Batch)
	l.staged = l.staged[:0]
}

// Append stages one event's raw encoded bytes. The event's final op
// index is assigned at Commit time, once the whole block's event count
// is known, so callers never need to pre-reserve indices.
func (l *EventLog) Append(event []byte) {
	l.staged = append(l.staged, event)
}

// Discard drops all staged events without writing them.
func (l *EventLog) Discard() {
	l.pending = nil
	l.staged = nil
}

// Commit assigns op indices to every staged event, writes them plus the
// updated chain hash and height in one atomic batch, and advances the
// log's running chain digest: chain' = H(chain || event) folded in
// append order, so the digest is order-sensitive and any replay that
// drops or reorders an event produces a different root.
func (l *EventLog) Commit(height int64) error {
	b := new(leveldb.Batch)
	chain := l.chain
	nextIdx := l.opCount
	for _, ev := range l.staged {
		var idxKey [8]byte
		putU64(idxKey[:], nextIdx)
		b.Put(idxKey[:], ev)
		chain = foldEvent(chain, ev)
		nextIdx++
	}
	b.Put(logMetaKey, encodeLogMeta(height, nextIdx, chain))
	if err := l.db.Write(b, nil); err != nil {
		return err
	}
	l.height = height
	l.opCount = nextIdx
	l.chain = chain
	l.staged = nil
	l.pending = nil
	return nil
}

func foldEvent(chain [32]byte, event []byte) [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write(chain[:])
	h.Write(event)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Get reads the event at op index idx.
func (l *EventLog) Get(idx uint64) ([]byte, bool, error) {
	var key [8]byte
	putU64(key[:], idx)
	v, err := l.db.Get(key[:], nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Range reads events [from, to).
func (l *EventLog) Range(from, to uint64) ([][]byte, error) {
	out := make([][]byte, 0, to-from)
	for i := from; i < to; i++ {
		v, ok, err := l.Get(i)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out, nil
}

// Height returns the last committed height, or -1 if nothing committed.
func (l *EventLog) Height() int64 { return l.height }

// OpCount is the total number of events ever appended.
func (l *EventLog) OpCount() uint64 { return l.opCount }

// Root returns the current chain digest, the event log's authenticated
// root.
func (l *EventLog) Root() [32]byte { return l.chain }

func encodeLogMeta(height int64, opCount uint64, chain [32]byte) []byte {
	b := make([]byte, 16+32)
	putI64(b[0:8], height)
	putU64(b[8:16], opCount)
	copy(b[16:], chain[:])
	return b
}

func decodeLogMeta(b []byte) (int64, uint64, [32]byte, error) {
	if len(b) != 48 {
		return 0, 0, [32]byte{}, fmt.Errorf("eventlog: malformed meta record")
	}
	var chain [32]byte
	copy(chain[:], b[16:])
	return getI64(b[0:8]), getU64(b[8:16]), chain, nil
}
