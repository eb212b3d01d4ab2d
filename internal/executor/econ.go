package executor

import (
	"casinochain/internal/codec"
	"casinochain/internal/econ"
	"casinochain/internal/events"
	"casinochain/internal/ledger"
)

// econErr maps a sentinel error from internal/econ to the CasinoError
// event the executor emits, mirroring ledger.CasinoErrorFor's role for
// chip-balance errors.
func econErr(err error) events.Event {
	code := codec.ErrInvalidMove
	switch err {
	case econ.ErrVaultNotFound:
		code = codec.ErrVaultNotFound
	case econ.ErrNotVaultOwner:
		code = codec.ErrNotVaultOwner
	case econ.ErrLTVExceeded:
		code = codec.ErrLTVExceeded
	case econ.ErrRepayExceedsDebt:
		code = codec.ErrRepayExceedsDebt
	case econ.ErrPlayerNotFound:
		code = codec.ErrPlayerNotFound
	case econ.ErrPoolEmpty:
		code = codec.ErrPoolEmpty
	case econ.ErrSlippage:
		code = codec.ErrSlippage
	case econ.ErrInsufficientLp:
		code = codec.ErrInsufficientLp
	case econ.ErrZeroAmount:
		code = codec.ErrZeroAmount
	case econ.ErrStakerNotFound:
		code = codec.ErrStakerNotFound
	case econ.ErrStillLocked:
		code = codec.ErrStillLocked
	case econ.ErrNotStakeOwner:
		code = codec.ErrNotStakeOwner
	case econ.ErrEpochNotReady:
		code = codec.ErrEpochNotReady
	}
	return events.CasinoError{Code: code, Message: err.Error()}
}

func (l *Layer) applyCreateVault(pub [32]byte, ins codec.CreateVault) ([]events.Event, error) {
	if _, ok, err := ledger.LoadPlayer(l, pub); err != nil {
		return nil, err
	} else if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrPlayerNotFound, Message: "player not found"}}, nil
	}
	v, err := econ.CreateVault(l, pub, ins.CollateralAmount)
	if err != nil {
		if _, isInsuf := err.(*ledger.InsufficientFundsError); isInsuf {
			return []events.Event{ledger.CasinoErrorFor(err)}, nil
		}
		return []events.Event{econErr(err)}, nil
	}
	return []events.Event{events.VaultCreated{Owner: pub, VaultID: v.ID, Collateral: v.Collateral}}, nil
}

func (l *Layer) applyDepositCollateral(pub [32]byte, ins codec.DepositCollateral) ([]events.Event, error) {
	v, ok, err := econ.LoadVault(l, ins.VaultID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrVaultNotFound, Message: "vault not found"}}, nil
	}
	if v.Owner != pub {
		return []events.Event{events.CasinoError{Code: codec.ErrNotVaultOwner, Message: "not vault owner"}}, nil
	}
	v, err = econ.DepositCollateral(l, v, ins.Amount)
	if err != nil {
		if _, isInsuf := err.(*ledger.InsufficientFundsError); isInsuf {
			return []events.Event{ledger.CasinoErrorFor(err)}, nil
		}
		return []events.Event{econErr(err)}, nil
	}
	return []events.Event{events.VaultUpdated{VaultID: v.ID, Collateral: v.Collateral, Debt: v.Debt}}, nil
}

func (l *Layer) applyBorrowVUsdt(pub [32]byte, ins codec.BorrowVUsdt) ([]events.Event, error) {
	v, ok, err := econ.LoadVault(l, ins.VaultID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrVaultNotFound, Message: "vault not found"}}, nil
	}
	if v.Owner != pub {
		return []events.Event{events.CasinoError{Code: codec.ErrNotVaultOwner, Message: "not vault owner"}}, nil
	}
	v, err = econ.BorrowVUsdt(l, v, ins.Amount)
	if err != nil {
		return []events.Event{econErr(err)}, nil
	}
	return []events.Event{events.VaultUpdated{VaultID: v.ID, Collateral: v.Collateral, Debt: v.Debt}}, nil
}

func (l *Layer) applyRepayVUsdt(pub [32]byte, ins codec.RepayVUsdt) ([]events.Event, error) {
	v, ok, err := econ.LoadVault(l, ins.VaultID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrVaultNotFound, Message: "vault not found"}}, nil
	}
	if v.Owner != pub {
		return []events.Event{events.CasinoError{Code: codec.ErrNotVaultOwner, Message: "not vault owner"}}, nil
	}
	v, err = econ.RepayVUsdt(l, v, ins.Amount)
	if err != nil {
		return []events.Event{econErr(err)}, nil
	}
	return []events.Event{events.VaultUpdated{VaultID: v.ID, Collateral: v.Collateral, Debt: v.Debt}}, nil
}

func (l *Layer) applySwap(pub [32]byte, ins codec.Swap) ([]events.Event, error) {
	out, err := econ.Swap(l, pub, ins.AmountIn, ins.MinAmountOut, ins.ChipsToVUsdt)
	if err != nil {
		if _, isInsuf := err.(*ledger.InsufficientFundsError); isInsuf {
			return []events.Event{ledger.CasinoErrorFor(err)}, nil
		}
		return []events.Event{econErr(err)}, nil
	}
	return []events.Event{events.SwapExecuted{
		Trader: pub, AmountIn: ins.AmountIn, AmountOut: out, ChipsToVUsdt: ins.ChipsToVUsdt,
	}}, nil
}

func (l *Layer) applyAddLiquidity(pub [32]byte, ins codec.AddLiquidity) ([]events.Event, error) {
	p, err := econ.AddLiquidity(l, pub, ins.ChipsAmount, ins.VUsdtAmount)
	if err != nil {
		if _, isInsuf := err.(*ledger.InsufficientFundsError); isInsuf {
			return []events.Event{ledger.CasinoErrorFor(err)}, nil
		}
		return []events.Event{econErr(err)}, nil
	}
	return []events.Event{events.LiquidityChanged{
		Provider: pub, ChipsReserve: p.ChipsReserve, VUsdtReserve: p.VUsdtReserve, TotalLp: p.TotalLp,
	}}, nil
}

func (l *Layer) applyRemoveLiquidity(pub [32]byte, ins codec.RemoveLiquidity) ([]events.Event, error) {
	p, err := econ.RemoveLiquidity(l, pub, ins.LpAmount)
	if err != nil {
		return []events.Event{econErr(err)}, nil
	}
	return []events.Event{events.LiquidityChanged{
		Provider: pub, ChipsReserve: p.ChipsReserve, VUsdtReserve: p.VUsdtReserve, TotalLp: p.TotalLp,
	}}, nil
}

func (l *Layer) applyStake(pub [32]byte, ins codec.Stake) ([]events.Event, error) {
	if _, ok, err := ledger.LoadPlayer(l, pub); err != nil {
		return nil, err
	} else if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrPlayerNotFound, Message: "player not found"}}, nil
	}
	if ins.Amount == 0 {
		return []events.Event{events.CasinoError{Code: codec.ErrZeroAmount, Message: "stake amount must be positive"}}, nil
	}
	st, err := econ.Stake(l, pub, ins.Amount, ins.LockBlocks, l.Height)
	if err != nil {
		if _, isInsuf := err.(*ledger.InsufficientFundsError); isInsuf {
			return []events.Event{ledger.CasinoErrorFor(err)}, nil
		}
		return []events.Event{econErr(err)}, nil
	}
	return []events.Event{events.Staked{Owner: pub, StakeID: st.ID, Amount: st.Amount, LockBlocks: st.LockBlocks}}, nil
}

func (l *Layer) applyUnstake(pub [32]byte, ins codec.Unstake) ([]events.Event, error) {
	st, ok, err := econ.LoadStaker(l, ins.StakeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrStakerNotFound, Message: "staker not found"}}, nil
	}
	if st.Owner != pub {
		return []events.Event{events.CasinoError{Code: codec.ErrNotStakeOwner, Message: "not stake owner"}}, nil
	}
	if err := econ.Unstake(l, st, l.Height); err != nil {
		return []events.Event{econErr(err)}, nil
	}
	return []events.Event{events.Unstaked{Owner: pub, StakeID: st.ID, Amount: st.Amount}}, nil
}

func (l *Layer) applyClaimRewards(pub [32]byte, ins codec.ClaimRewards) ([]events.Event, error) {
	st, ok, err := econ.LoadStaker(l, ins.StakeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []events.Event{events.CasinoError{Code: codec.ErrStakerNotFound, Message: "staker not found"}}, nil
	}
	if st.Owner != pub {
		return []events.Event{events.CasinoError{Code: codec.ErrNotStakeOwner, Message: "not stake owner"}}, nil
	}
	reward, st, err := econ.ClaimRewards(l, st, l.stakeConfig())
	if err != nil {
		return []events.Event{econErr(err)}, nil
	}
	return []events.Event{events.RewardsClaimed{Owner: pub, StakeID: st.ID, Amount: reward}}, nil
}

func (l *Layer) applyProcessEpoch(_ [32]byte) ([]events.Event, error) {
	advanced, err := econ.ProcessEpoch(l, l.Height, l.stakeConfig())
	if err != nil {
		return nil, err
	}
	if !advanced {
		return nil, nil
	}
	house, err := econ.LoadHouse(l)
	if err != nil {
		return nil, err
	}
	return []events.Event{events.EpochProcessed{NewEpoch: house.Epoch}}, nil
}
