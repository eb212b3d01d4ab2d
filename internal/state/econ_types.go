package state

import "casinochain/internal/codec"

// Vault is an overcollateralized CDP: Collateral chips back Debt vUSDT at
// an enforced 50% loan-to-value cap (internal/econ owns that check).
type Vault struct {
	ID         uint64
	Owner      [32]byte
	Collateral uint64
	Debt       uint64
}

func (v Vault) Encode() []byte {
	w := codec.NewWriter(56)
	w.WriteU64(v.ID)
	w.WriteFixed(v.Owner[:])
	w.WriteU64(v.Collateral)
	w.WriteU64(v.Debt)
	return w.Bytes()
}

func DecodeVault(b []byte) (Vault, error) {
	r := codec.NewReader(b)
	var v Vault
	var err error
	if v.ID, err = r.ReadU64(); err != nil {
		return Vault{}, err
	}
	owner, err := r.ReadFixed(32)
	if err != nil {
		return Vault{}, err
	}
	copy(v.Owner[:], owner)
	if v.Collateral, err = r.ReadU64(); err != nil {
		return Vault{}, err
	}
	if v.Debt, err = r.ReadU64(); err != nil {
		return Vault{}, err
	}
	if err := r.Done(); err != nil {
		return Vault{}, err
	}
	return v, nil
}

// AmmPool is the single constant-product chips/vUSDT pool.
type AmmPool struct {
	ChipsReserve uint64
	VUsdtReserve uint64
	TotalLp      uint64
}

func (p AmmPool) Encode() []byte {
	w := codec.NewWriter(24)
	w.WriteU64(p.ChipsReserve)
	w.WriteU64(p.VUsdtReserve)
	w.WriteU64(p.TotalLp)
	return w.Bytes()
}

func DecodeAmmPool(b []byte) (AmmPool, error) {
	r := codec.NewReader(b)
	var p AmmPool
	var err error
	if p.ChipsReserve, err = r.ReadU64(); err != nil {
		return AmmPool{}, err
	}
	if p.VUsdtReserve, err = r.ReadU64(); err != nil {
		return AmmPool{}, err
	}
	if p.TotalLp, err = r.ReadU64(); err != nil {
		return AmmPool{}, err
	}
	if err := r.Done(); err != nil {
		return AmmPool{}, err
	}
	return p, nil
}

// LpBalance is one account's share of AmmPool.TotalLp.
type LpBalance struct {
	Owner  [32]byte
	Amount uint64
}

func (l LpBalance) Encode() []byte {
	w := codec.NewWriter(40)
	w.WriteFixed(l.Owner[:])
	w.WriteU64(l.Amount)
	return w.Bytes()
}

func DecodeLpBalance(b []byte) (LpBalance, error) {
	r := codec.NewReader(b)
	owner, err := r.ReadFixed(32)
	if err != nil {
		return LpBalance{}, err
	}
	var l LpBalance
	copy(l.Owner[:], owner)
	if l.Amount, err = r.ReadU64(); err != nil {
		return LpBalance{}, err
	}
	if err := r.Done(); err != nil {
		return LpBalance{}, err
	}
	return l, nil
}

// House is the singleton protocol ledger: accumulated fees, burned
// chips, issued vUSDT, and the current staking epoch index ProcessEpoch
// advances.
type House struct {
	AccumulatedFees uint64
	Burned          uint64
	Issued          uint64
	Epoch           uint64
}

func (h House) Encode() []byte {
	w := codec.NewWriter(32)
	w.WriteU64(h.AccumulatedFees)
	w.WriteU64(h.Burned)
	w.WriteU64(h.Issued)
	w.WriteU64(h.Epoch)
	return w.Bytes()
}

func DecodeHouse(b []byte) (House, error) {
	r := codec.NewReader(b)
	var h House
	var err error
	if h.AccumulatedFees, err = r.ReadU64(); err != nil {
		return House{}, err
	}
	if h.Burned, err = r.ReadU64(); err != nil {
		return House{}, err
	}
	if h.Issued, err = r.ReadU64(); err != nil {
		return House{}, err
	}
	if h.Epoch, err = r.ReadU64(); err != nil {
		return House{}, err
	}
	if err := r.Done(); err != nil {
		return House{}, err
	}
	return h, nil
}

// Staker is one account's time-locked bond. VotingPower is linear in
// LockBlocks (internal/econ computes it); LastEpochClaimed gates
// ClaimRewards to at most once per processed epoch.
type Staker struct {
	ID               uint64
	Owner            [32]byte
	Amount           uint64
	LockBlocks       uint64
	BondedAt         uint64
	LastEpochClaimed uint64
}

func (s Staker) Encode() []byte {
	w := codec.NewWriter(72)
	w.WriteU64(s.ID)
	w.WriteFixed(s.Owner[:])
	w.WriteU64(s.Amount)
	w.WriteU64(s.LockBlocks)
	w.WriteU64(s.BondedAt)
	w.WriteU64(s.LastEpochClaimed)
	return w.Bytes()
}

func DecodeStaker(b []byte) (Staker, error) {
	r := codec.NewReader(b)
	var s Staker
	var err error
	if s.ID, err = r.ReadU64(); err != nil {
		return Staker{}, err
	}
	owner, err := r.ReadFixed(32)
	if err != nil {
		return Staker{}, err
	}
	copy(s.Owner[:], owner)
	if s.Amount, err = r.ReadU64(); err != nil {
		return Staker{}, err
	}
	if s.LockBlocks, err = r.ReadU64(); err != nil {
		return Staker{}, err
	}
	if s.BondedAt, err = r.ReadU64(); err != nil {
		return Staker{}, err
	}
	if s.LastEpochClaimed, err = r.ReadU64(); err != nil {
		return Staker{}, err
	}
	if err := r.Done(); err != nil {
		return Staker{}, err
	}
	return s, nil
}
