package econ

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStake_DebitsAmountAndOpensBond(t *testing.T) {
	s := newMemStore()
	owner := player(1)
	registerPlayer(t, s, owner, 5000)

	st, err := Stake(s, owner, 1000, 500, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), st.Amount)
	require.Equal(t, uint64(500), st.LockBlocks)
	require.Equal(t, uint64(10), st.BondedAt)
}

func TestUnstake_RejectsBeforeLockElapsed(t *testing.T) {
	s := newMemStore()
	owner := player(1)
	registerPlayer(t, s, owner, 5000)
	st, err := Stake(s, owner, 1000, 500, 10)
	require.NoError(t, err)

	err = Unstake(s, st, 100)
	require.ErrorIs(t, err, ErrStillLocked)

	err = Unstake(s, st, 510)
	require.NoError(t, err)

	_, ok, err := LoadStaker(s, st.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProcessEpoch_AdvancesOnceBoundaryCrossedAndIsIdempotent(t *testing.T) {
	s := newMemStore()
	cfg := StakeConfig{MaxLockBlocks: 1000, EpochBlocks: 100, RewardBps: 50}

	changed, err := ProcessEpoch(s, 50, cfg)
	require.NoError(t, err)
	require.False(t, changed)

	changed, err = ProcessEpoch(s, 150, cfg)
	require.NoError(t, err)
	require.True(t, changed)

	house, err := LoadHouse(s)
	require.NoError(t, err)
	require.Equal(t, uint64(1), house.Epoch)

	changed, err = ProcessEpoch(s, 160, cfg)
	require.NoError(t, err)
	require.False(t, changed, "epoch should not advance again before the next boundary")
}

func TestClaimRewards_PaysFromAccumulatedFeesAndAdvancesClaimedEpoch(t *testing.T) {
	s := newMemStore()
	cfg := StakeConfig{MaxLockBlocks: 1000, EpochBlocks: 100, RewardBps: 1000}
	owner := player(1)
	registerPlayer(t, s, owner, 5000)

	house, _ := LoadHouse(s)
	house.AccumulatedFees = 10000
	SaveHouse(s, house)

	st, err := Stake(s, owner, 1000, 1000, 0)
	require.NoError(t, err)

	_, _, err = ClaimRewards(s, st, cfg)
	require.ErrorIs(t, err, ErrEpochNotReady)

	_, err = ProcessEpoch(s, 100, cfg)
	require.NoError(t, err)

	reward, st2, err := ClaimRewards(s, st, cfg)
	require.NoError(t, err)
	require.Greater(t, reward, uint64(0))
	require.Equal(t, uint64(1), st2.LastEpochClaimed)

	_, _, err = ClaimRewards(s, st2, cfg)
	require.ErrorIs(t, err, ErrEpochNotReady)
}

func TestClaimRewards_CapsAtAccumulatedFees(t *testing.T) {
	s := newMemStore()
	cfg := StakeConfig{MaxLockBlocks: 1000, EpochBlocks: 1, RewardBps: 10000}
	owner := player(1)
	registerPlayer(t, s, owner, 5000)

	house, _ := LoadHouse(s)
	house.AccumulatedFees = 5
	SaveHouse(s, house)

	st, err := Stake(s, owner, 1000, 1000, 0)
	require.NoError(t, err)
	_, err = ProcessEpoch(s, 1, cfg)
	require.NoError(t, err)

	reward, _, err := ClaimRewards(s, st, cfg)
	require.NoError(t, err)
	require.Equal(t, uint64(5), reward)
}
