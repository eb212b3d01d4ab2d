package econ

import (
	"testing"

	"github.com/stretchr/testify/require"

	"casinochain/internal/ledger"
)

func TestAddLiquidity_MintsGeometricMeanOnFirstDeposit(t *testing.T) {
	s := newMemStore()
	owner := player(1)
	registerPlayer(t, s, owner, 10000)
	p, _, _ := ledger.LoadPlayer(s, owner)
	p.VUsdt = 10000
	ledger.SavePlayer(s, owner, p)

	pool, err := AddLiquidity(s, owner, 400, 400)
	require.NoError(t, err)
	require.Equal(t, uint64(400), pool.ChipsReserve)
	require.Equal(t, uint64(400), pool.VUsdtReserve)
	require.Equal(t, uint64(400), pool.TotalLp)
}

func TestSwap_TakesFeeAndRespectsSlippage(t *testing.T) {
	s := newMemStore()
	lp := player(1)
	registerPlayer(t, s, lp, 1_000_000)
	p, _, _ := ledger.LoadPlayer(s, lp)
	p.VUsdt = 1_000_000
	ledger.SavePlayer(s, lp, p)
	_, err := AddLiquidity(s, lp, 100000, 100000)
	require.NoError(t, err)

	trader := player(2)
	registerPlayer(t, s, trader, 5000)

	out, err := Swap(s, trader, 1000, 1, true)
	require.NoError(t, err)
	require.Greater(t, out, uint64(0))
	require.Less(t, out, uint64(1000))

	_, err = Swap(s, trader, 1000, out+1000, true)
	require.ErrorIs(t, err, ErrSlippage)
}

func TestSwap_RejectsOnEmptyPool(t *testing.T) {
	s := newMemStore()
	trader := player(1)
	registerPlayer(t, s, trader, 1000)
	_, err := Swap(s, trader, 10, 0, true)
	require.ErrorIs(t, err, ErrPoolEmpty)
}

func TestRemoveLiquidity_ReturnsProRataReserves(t *testing.T) {
	s := newMemStore()
	owner := player(1)
	registerPlayer(t, s, owner, 10000)
	p, _, _ := ledger.LoadPlayer(s, owner)
	p.VUsdt = 10000
	ledger.SavePlayer(s, owner, p)
	_, err := AddLiquidity(s, owner, 1000, 1000)
	require.NoError(t, err)

	pool, err := RemoveLiquidity(s, owner, 500)
	require.NoError(t, err)
	require.Equal(t, uint64(500), pool.ChipsReserve)
	require.Equal(t, uint64(500), pool.VUsdtReserve)
}
