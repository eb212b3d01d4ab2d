// Package kv defines the narrow read/write/iterate contract the executor,
// the economic subsystems, and the casino leaderboard/tournament ticker
// share, so none of them needs to import internal/executor directly.
// internal/executor.Layer is the only production implementation; tests
// substitute a bare map-backed Store.
package kv

// Store is a key/value view over one block's pending state. Put and
// Delete stage a change; Get observes the effect of any Put/Delete
// already made against the same Store, so callers within one block see
// their own and earlier transactions' writes ("read your own writes")
// even though nothing is durable until the driver commits the block.
type Store interface {
	Get(key []byte) ([]byte, bool, error)
	Put(key, value []byte)
	Delete(key []byte)

	// Iterate calls fn for every live key with the given prefix, in
	// ascending key order, merging any staged writes over the
	// last-committed view. Order is deterministic so replicas that
	// iterate (the leaderboard rebuild, the tournament ticker) agree.
	Iterate(prefix []byte, fn func(key, value []byte) error) error
}
