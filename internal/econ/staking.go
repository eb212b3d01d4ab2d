package econ

import (
	"errors"

	"casinochain/internal/kv"
	"casinochain/internal/ledger"
	"casinochain/internal/state"
)

// StakeConfig carries the three constants staking needs from
// internal/config: the lock duration that earns full voting power, the
// block span of one epoch, and the per-epoch reward rate.
type StakeConfig struct {
	MaxLockBlocks uint64
	EpochBlocks   uint64
	RewardBps     uint64
}

var (
	ErrStakerNotFound = errors.New("econ: staker not found")
	ErrStillLocked    = errors.New("econ: stake still locked")
	ErrNotStakeOwner  = errors.New("econ: not stake owner")
	ErrEpochNotReady  = errors.New("econ: epoch already claimed")
)

// Stake debits amount chips from owner and opens a new time-locked bond.
func Stake(s kv.Store, owner [32]byte, amount, lockBlocks, bondedAt uint64) (state.Staker, error) {
	if _, err := ledger.ApplyDelta(s, owner, -int64(amount)); err != nil {
		return state.Staker{}, err
	}
	id, err := kv.NextSeq(s, state.StakerSeqKey())
	if err != nil {
		return state.Staker{}, err
	}
	house, err := LoadHouse(s)
	if err != nil {
		return state.Staker{}, err
	}
	st := state.Staker{
		ID: id, Owner: owner, Amount: amount, LockBlocks: lockBlocks,
		BondedAt: bondedAt, LastEpochClaimed: house.Epoch,
	}
	s.Put(state.StakerKey(st.ID), st.Encode())
	return st, nil
}

func LoadStaker(s kv.Store, id uint64) (state.Staker, bool, error) {
	raw, ok, err := s.Get(state.StakerKey(id))
	if err != nil || !ok {
		return state.Staker{}, ok, err
	}
	st, err := state.DecodeStaker(raw)
	if err != nil {
		return state.Staker{}, false, err
	}
	return st, true, nil
}

// Unstake returns a bond's principal to its owner once its lock has
// elapsed, and removes the record.
func Unstake(s kv.Store, st state.Staker, currentHeight uint64) error {
	if currentHeight < st.BondedAt+st.LockBlocks {
		return ErrStillLocked
	}
	if _, err := ledger.ApplyDelta(s, st.Owner, int64(st.Amount)); err != nil {
		return err
	}
	s.Delete(state.StakerKey(st.ID))
	return nil
}

// votingPower is linear in lock duration, capped at cfg.MaxLockBlocks
// (spec.md §4.8: "linear voting power vs lock duration").
func votingPower(amount, lockBlocks uint64, cfg StakeConfig) uint64 {
	if cfg.MaxLockBlocks == 0 {
		return 0
	}
	lb := lockBlocks
	if lb > cfg.MaxLockBlocks {
		lb = cfg.MaxLockBlocks
	}
	return mulDiv(amount, lb, cfg.MaxLockBlocks)
}

// ClaimRewards credits st.Owner with one epoch's reward (RewardBps of
// the stake's voting power) for every epoch advanced since its last
// claim, drawn from the house's accumulated fees, and advances
// LastEpochClaimed to the house's current epoch.
func ClaimRewards(s kv.Store, st state.Staker, cfg StakeConfig) (uint64, state.Staker, error) {
	house, err := LoadHouse(s)
	if err != nil {
		return 0, state.Staker{}, err
	}
	if house.Epoch <= st.LastEpochClaimed {
		return 0, st, ErrEpochNotReady
	}
	epochs := house.Epoch - st.LastEpochClaimed
	power := votingPower(st.Amount, st.LockBlocks, cfg)
	perEpoch := mulDivBps(power, cfg.RewardBps)
	reward := perEpoch * epochs
	if reward > house.AccumulatedFees {
		reward = house.AccumulatedFees
	}
	if reward > 0 {
		house.AccumulatedFees -= reward
		SaveHouse(s, house)
		if _, err := ledger.ApplyDelta(s, st.Owner, int64(reward)); err != nil {
			return 0, state.Staker{}, err
		}
	}
	st.LastEpochClaimed = house.Epoch
	s.Put(state.StakerKey(st.ID), st.Encode())
	return reward, st, nil
}

// ProcessEpoch advances the house's epoch counter once currentHeight has
// crossed the next EpochBlocks boundary. Permissionless and idempotent:
// calling it again before the boundary is a harmless no-op, matching the
// instruction's documented semantics.
func ProcessEpoch(s kv.Store, currentHeight uint64, cfg StakeConfig) (bool, error) {
	if cfg.EpochBlocks == 0 {
		return false, nil
	}
	house, err := LoadHouse(s)
	if err != nil {
		return false, err
	}
	target := currentHeight / cfg.EpochBlocks
	if target <= house.Epoch {
		return false, nil
	}
	house.Epoch = target
	SaveHouse(s, house)
	return true, nil
}
