package state

import (
	"encoding/binary"

	"casinochain/internal/codec"
)

// Key builds a storage key: one tag byte (codec.Key*) followed by an
// identifier. Accounts/players/sessions/vaults/stakers key off an 8-byte
// id or a 32-byte public key depending on the entity; singleton entities
// (leaderboard, house, a given amm pool) use the tag alone.

func AccountKey(pub [32]byte) []byte {
	return append([]byte{codec.KeyAccount}, pub[:]...)
}

func CasinoPlayerKey(pub [32]byte) []byte {
	return append([]byte{codec.KeyCasinoPlayer}, pub[:]...)
}

func GameSessionKey(id uint64) []byte {
	return appendU64([]byte{codec.KeyCasinoSession}, id)
}

func LeaderboardKey() []byte {
	return []byte{codec.KeyCasinoLeaderboard}
}

func TournamentKey(id uint64) []byte {
	return appendU64([]byte{codec.KeyTournament}, id)
}

func VaultKey(id uint64) []byte {
	return appendU64([]byte{codec.KeyVault}, id)
}

func AmmPoolKey() []byte {
	return []byte{codec.KeyAmmPool}
}

func LpBalanceKey(owner [32]byte) []byte {
	return append([]byte{codec.KeyLpBalance}, owner[:]...)
}

func HouseKey() []byte {
	return []byte{codec.KeyHouse}
}

func StakerKey(id uint64) []byte {
	return appendU64([]byte{codec.KeyStaker}, id)
}

// TournamentSeqKey, VaultSeqKey and StakerSeqKey hold the next id each
// admin/user-created entity sequence will hand out; singleton entries
// like the leaderboard and house don't need one.
func TournamentSeqKey() []byte { return []byte{codec.KeyTournamentSeq} }
func VaultSeqKey() []byte      { return []byte{codec.KeyVaultSeq} }
func StakerSeqKey() []byte     { return []byte{codec.KeyStakerSeq} }

func appendU64(prefix []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(prefix, b[:]...)
}
