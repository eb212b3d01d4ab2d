package econ

import (
	"casinochain/internal/kv"
	"casinochain/internal/state"
)

// LoadHouse reads the singleton protocol ledger, defaulting to the zero
// value before its first write.
func LoadHouse(s kv.Store) (state.House, error) {
	raw, ok, err := s.Get(state.HouseKey())
	if err != nil {
		return state.House{}, err
	}
	if !ok {
		return state.House{}, nil
	}
	return state.DecodeHouse(raw)
}

func SaveHouse(s kv.Store, h state.House) { s.Put(state.HouseKey(), h.Encode()) }
