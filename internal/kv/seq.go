package kv

import "encoding/binary"

// NextSeq reads the u64 counter at key, returns it, and stores the
// incremented value back under the same key. Used to hand out
// tournament/vault/staker ids deterministically from state rather than
// from block height or map iteration order, which would vary between
// otherwise-identical blocks containing more than one creation
// instruction.
func NextSeq(s Store, key []byte) (uint64, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	var id uint64
	if ok {
		id = binary.BigEndian.Uint64(raw)
	}
	var next [8]byte
	binary.BigEndian.PutUint64(next[:], id+1)
	s.Put(key, next[:])
	return id, nil
}
