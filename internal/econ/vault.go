package econ

import (
	"errors"

	"casinochain/internal/kv"
	"casinochain/internal/ledger"
	"casinochain/internal/state"
)

// VaultLTVBps is the enforced loan-to-value ceiling: total debt may never
// exceed half of posted collateral (spec.md §4.8: "LTV cap = 50%").
const VaultLTVBps = 5000

var (
	ErrVaultNotFound    = errors.New("econ: vault not found")
	ErrNotVaultOwner    = errors.New("econ: not vault owner")
	ErrLTVExceeded      = errors.New("econ: borrow would exceed 50% LTV")
	ErrRepayExceedsDebt = errors.New("econ: repay exceeds outstanding debt")
	ErrPlayerNotFound   = errors.New("econ: player not found")
)

// CreateVault debits collateralAmount chips from owner and opens a new,
// debt-free vault.
func CreateVault(s kv.Store, owner [32]byte, collateralAmount uint64) (state.Vault, error) {
	if _, err := ledger.ApplyDelta(s, owner, -int64(collateralAmount)); err != nil {
		return state.Vault{}, err
	}
	id, err := kv.NextSeq(s, state.VaultSeqKey())
	if err != nil {
		return state.Vault{}, err
	}
	v := state.Vault{ID: id, Owner: owner, Collateral: collateralAmount}
	s.Put(state.VaultKey(v.ID), v.Encode())
	return v, nil
}

// LoadVault reads a vault by id.
func LoadVault(s kv.Store, id uint64) (state.Vault, bool, error) {
	raw, ok, err := s.Get(state.VaultKey(id))
	if err != nil || !ok {
		return state.Vault{}, ok, err
	}
	v, err := state.DecodeVault(raw)
	if err != nil {
		return state.Vault{}, false, err
	}
	return v, true, nil
}

func saveVault(s kv.Store, v state.Vault) { s.Put(state.VaultKey(v.ID), v.Encode()) }

// DepositCollateral adds amount chips (debited from owner) to vault v.
func DepositCollateral(s kv.Store, v state.Vault, amount uint64) (state.Vault, error) {
	if _, err := ledger.ApplyDelta(s, v.Owner, -int64(amount)); err != nil {
		return state.Vault{}, err
	}
	v.Collateral += amount
	saveVault(s, v)
	return v, nil
}

// BorrowVUsdt mints amount vUSDT into v.Owner's balance against v,
// rejecting the borrow if it would push total debt past the LTV cap.
func BorrowVUsdt(s kv.Store, v state.Vault, amount uint64) (state.Vault, error) {
	maxDebt := mulDivBps(v.Collateral, VaultLTVBps)
	if v.Debt+amount > maxDebt {
		return state.Vault{}, ErrLTVExceeded
	}
	p, ok, err := ledger.LoadPlayer(s, v.Owner)
	if err != nil {
		return state.Vault{}, err
	}
	if !ok {
		return state.Vault{}, ErrPlayerNotFound
	}
	p.VUsdt += amount
	ledger.SavePlayer(s, v.Owner, p)
	v.Debt += amount
	saveVault(s, v)
	return v, nil
}

// RepayVUsdt burns amount of v.Owner's vUSDT against v's debt.
func RepayVUsdt(s kv.Store, v state.Vault, amount uint64) (state.Vault, error) {
	if amount > v.Debt {
		return state.Vault{}, ErrRepayExceedsDebt
	}
	p, ok, err := ledger.LoadPlayer(s, v.Owner)
	if err != nil {
		return state.Vault{}, err
	}
	if !ok {
		return state.Vault{}, ErrPlayerNotFound
	}
	if p.VUsdt < amount {
		return state.Vault{}, ErrRepayExceedsDebt
	}
	p.VUsdt -= amount
	ledger.SavePlayer(s, v.Owner, p)
	v.Debt -= amount
	saveVault(s, v)
	return v, nil
}
