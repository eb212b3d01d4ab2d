package econ

import (
	"errors"
	"math/bits"

	"casinochain/internal/kv"
	"casinochain/internal/ledger"
	"casinochain/internal/state"
)

// SwapFeeBps is the combined protocol fee / sell tax taken out of every
// swap's input amount before the constant-product formula runs.
const SwapFeeBps = 30 // 0.30%

var (
	ErrPoolEmpty        = errors.New("econ: pool has no liquidity")
	ErrSlippage         = errors.New("econ: output below minimum")
	ErrInsufficientLp   = errors.New("econ: insufficient LP balance")
	ErrZeroAmount       = errors.New("econ: amount must be positive")
)

func LoadPool(s kv.Store) (state.AmmPool, error) {
	raw, ok, err := s.Get(state.AmmPoolKey())
	if err != nil {
		return state.AmmPool{}, err
	}
	if !ok {
		return state.AmmPool{}, nil
	}
	return state.DecodeAmmPool(raw)
}

func savePool(s kv.Store, p state.AmmPool) { s.Put(state.AmmPoolKey(), p.Encode()) }

func loadLp(s kv.Store, owner [32]byte) (state.LpBalance, error) {
	raw, ok, err := s.Get(state.LpBalanceKey(owner))
	if err != nil {
		return state.LpBalance{}, err
	}
	if !ok {
		return state.LpBalance{Owner: owner}, nil
	}
	return state.DecodeLpBalance(raw)
}

func saveLp(s kv.Store, lp state.LpBalance) { s.Put(state.LpBalanceKey(lp.Owner), lp.Encode()) }

// AddLiquidity debits chipsAmount/vUsdtAmount from owner and mints LP
// tokens proportional to the pool's existing reserves (or, on the first
// deposit, the geometric mean of the two amounts).
func AddLiquidity(s kv.Store, owner [32]byte, chipsAmount, vUsdtAmount uint64) (state.AmmPool, error) {
	if chipsAmount == 0 || vUsdtAmount == 0 {
		return state.AmmPool{}, ErrZeroAmount
	}
	p, err := LoadPool(s)
	if err != nil {
		return state.AmmPool{}, err
	}
	p2, ok, err := ledger.LoadPlayer(s, owner)
	if err != nil {
		return state.AmmPool{}, err
	}
	if !ok {
		return state.AmmPool{}, ErrPlayerNotFound
	}
	if p2.VUsdt < vUsdtAmount {
		return state.AmmPool{}, ErrInsufficientLp
	}
	if _, err := ledger.ApplyDelta(s, owner, -int64(chipsAmount)); err != nil {
		return state.AmmPool{}, err
	}
	p2.VUsdt -= vUsdtAmount
	ledger.SavePlayer(s, owner, p2)

	var minted uint64
	if p.TotalLp == 0 {
		if hi, lo := bits.Mul64(chipsAmount, vUsdtAmount); hi == 0 {
			minted = isqrt(lo)
		} else {
			for bit := uint64(1) << 63; bit != 0; bit >>= 1 {
				c := minted | bit
				if h, l := bits.Mul64(c, c); h < hi || (h == hi && l <= lo) {
					minted = c
				}
			}
		}
	} else {
		fromChips := mulDiv(chipsAmount, p.TotalLp, p.ChipsReserve)
		fromVUsdt := mulDiv(vUsdtAmount, p.TotalLp, p.VUsdtReserve)
		minted = fromChips
		if fromVUsdt < minted {
			minted = fromVUsdt
		}
	}
	p.ChipsReserve += chipsAmount
	p.VUsdtReserve += vUsdtAmount
	p.TotalLp += minted
	savePool(s, p)

	lp, err := loadLp(s, owner)
	if err != nil {
		return state.AmmPool{}, err
	}
	lp.Amount += minted
	saveLp(s, lp)
	return p, nil
}

// RemoveLiquidity burns lpAmount of owner's LP tokens and credits their
// pro-rata share of both reserves.
func RemoveLiquidity(s kv.Store, owner [32]byte, lpAmount uint64) (state.AmmPool, error) {
	p, err := LoadPool(s)
	if err != nil {
		return state.AmmPool{}, err
	}
	if p.TotalLp == 0 {
		return state.AmmPool{}, ErrPoolEmpty
	}
	lp, err := loadLp(s, owner)
	if err != nil {
		return state.AmmPool{}, err
	}
	if lp.Amount < lpAmount {
		return state.AmmPool{}, ErrInsufficientLp
	}
	chipsOut := mulDiv(lpAmount, p.ChipsReserve, p.TotalLp)
	vUsdtOut := mulDiv(lpAmount, p.VUsdtReserve, p.TotalLp)

	lp.Amount -= lpAmount
	saveLp(s, lp)
	p.ChipsReserve -= chipsOut
	p.VUsdtReserve -= vUsdtOut
	p.TotalLp -= lpAmount
	savePool(s, p)

	if _, err := ledger.ApplyDelta(s, owner, int64(chipsOut)); err != nil {
		return state.AmmPool{}, err
	}
	pl, ok, err := ledger.LoadPlayer(s, owner)
	if err != nil {
		return state.AmmPool{}, err
	}
	if !ok {
		return state.AmmPool{}, ErrPlayerNotFound
	}
	pl.VUsdt += vUsdtOut
	ledger.SavePlayer(s, owner, pl)
	return p, nil
}

// Swap exchanges amountIn of one asset for the other through the
// constant-product curve x*y=k, after taking SwapFeeBps off amountIn
// into the house's accumulated fees.
func Swap(s kv.Store, owner [32]byte, amountIn, minAmountOut uint64, chipsToVUsdt bool) (uint64, error) {
	if amountIn == 0 {
		return 0, ErrZeroAmount
	}
	p, err := LoadPool(s)
	if err != nil {
		return 0, err
	}
	if p.ChipsReserve == 0 || p.VUsdtReserve == 0 {
		return 0, ErrPoolEmpty
	}
	fee := mulDivBps(amountIn, SwapFeeBps)
	amountInAfterFee := amountIn - fee

	var reserveIn, reserveOut uint64
	if chipsToVUsdt {
		reserveIn, reserveOut = p.ChipsReserve, p.VUsdtReserve
	} else {
		reserveIn, reserveOut = p.VUsdtReserve, p.ChipsReserve
	}
	// amountOut = reserveOut - ceil((reserveIn*reserveOut)/(reserveIn+amountInAfterFee)),
	// rounding the new reserveOut up so the pool never gives out a
	// fraction more than the constant-product curve allows.
	newReserveIn := reserveIn + amountInAfterFee
	newReserveOut := mulDivCeil(reserveIn, reserveOut, newReserveIn)
	if newReserveOut >= reserveOut {
		return 0, ErrSlippage
	}
	amountOut := reserveOut - newReserveOut
	if amountOut < minAmountOut {
		return 0, ErrSlippage
	}

	pl, ok, err := ledger.LoadPlayer(s, owner)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrPlayerNotFound
	}

	if chipsToVUsdt {
		if pl.Chips < amountIn {
			return 0, ErrInsufficientLp
		}
		if _, err := ledger.ApplyDelta(s, owner, -int64(amountIn)); err != nil {
			return 0, err
		}
		pl, _, err = ledger.LoadPlayer(s, owner)
		if err != nil {
			return 0, err
		}
		pl.VUsdt += amountOut
		ledger.SavePlayer(s, owner, pl)
		p.ChipsReserve += amountInAfterFee
		p.VUsdtReserve -= amountOut
	} else {
		if pl.VUsdt < amountIn {
			return 0, ErrInsufficientLp
		}
		pl.VUsdt -= amountIn
		ledger.SavePlayer(s, owner, pl)
		if _, err := ledger.ApplyDelta(s, owner, int64(amountOut)); err != nil {
			return 0, err
		}
		p.VUsdtReserve += amountInAfterFee
		p.ChipsReserve -= amountOut
	}
	savePool(s, p)

	house, err := LoadHouse(s)
	if err != nil {
		return 0, err
	}
	house.AccumulatedFees += fee
	SaveHouse(s, house)
	return amountOut, nil
}
