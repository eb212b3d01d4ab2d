package econ

import (
	"testing"

	"github.com/stretchr/testify/require"

	"casinochain/internal/ledger"
)

func TestCreateVault_DebitsCollateralFromOwner(t *testing.T) {
	s := newMemStore()
	owner := player(1)
	registerPlayer(t, s, owner, 1000)

	v, err := CreateVault(s, owner, 400)
	require.NoError(t, err)
	require.Equal(t, uint64(400), v.Collateral)
	require.Equal(t, uint64(0), v.Debt)

	p, _, err := ledger.LoadPlayer(s, owner)
	require.NoError(t, err)
	require.Equal(t, uint64(600), p.Chips)
}

func TestBorrowVUsdt_RejectsOverLTVCap(t *testing.T) {
	s := newMemStore()
	owner := player(1)
	registerPlayer(t, s, owner, 1000)
	v, err := CreateVault(s, owner, 1000)
	require.NoError(t, err)

	_, err = BorrowVUsdt(s, v, 501)
	require.ErrorIs(t, err, ErrLTVExceeded)

	v2, err := BorrowVUsdt(s, v, 500-1)
	require.NoError(t, err)
	require.Equal(t, uint64(499), v2.Debt)
}

func TestRepayVUsdt_RejectsRepayExceedingDebt(t *testing.T) {
	s := newMemStore()
	owner := player(1)
	registerPlayer(t, s, owner, 1000)
	v, err := CreateVault(s, owner, 1000)
	require.NoError(t, err)
	v, err = BorrowVUsdt(s, v, 200)
	require.NoError(t, err)

	_, err = RepayVUsdt(s, v, 300)
	require.ErrorIs(t, err, ErrRepayExceedsDebt)

	v2, err := RepayVUsdt(s, v, 200)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v2.Debt)
}

func TestDepositCollateral_RaisesBorrowingRoom(t *testing.T) {
	s := newMemStore()
	owner := player(1)
	registerPlayer(t, s, owner, 2000)
	v, err := CreateVault(s, owner, 200)
	require.NoError(t, err)

	v, err = DepositCollateral(s, v, 800)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), v.Collateral)

	_, err = BorrowVUsdt(s, v, 500)
	require.NoError(t, err)
}
