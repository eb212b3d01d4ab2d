package econ

import (
	"testing"

	"casinochain/internal/ledger"
	"casinochain/internal/state"
)

// memStore is a bare map-backed kv.Store, the substitute
// internal/kv.Store's package doc says tests use in place of
// internal/executor.Layer's overlay.
type memStore struct{ m map[string][]byte }

func newMemStore() *memStore { return &memStore{m: make(map[string][]byte)} }

func (s *memStore) Get(key []byte) ([]byte, bool, error) {
	v, ok := s.m[string(key)]
	return v, ok, nil
}
func (s *memStore) Put(key, value []byte) { s.m[string(key)] = append([]byte(nil), value...) }
func (s *memStore) Delete(key []byte)     { delete(s.m, string(key)) }
func (s *memStore) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	for k, v := range s.m {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			if err := fn([]byte(k), v); err != nil {
				return err
			}
		}
	}
	return nil
}

func registerPlayer(t *testing.T, s *memStore, pub [32]byte, chips uint64) {
	t.Helper()
	ledger.SavePlayer(s, pub, state.CasinoPlayer{Name: "p", Chips: chips})
}

func player(n byte) [32]byte {
	var p [32]byte
	p[0] = n
	return p
}
