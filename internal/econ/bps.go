// Package econ implements the three chip-adjacent economic subsystems
// named by spec.md §4.8: an overcollateralized synthetic-dollar vault, a
// constant-product AMM, and time-locked staking, plus the house ledger
// all three feed. Every mutation that touches a player's balance goes
// through internal/ledger exactly once, so the leaderboard refresh
// discipline spec.md §4.4 requires for the casino instructions holds
// here too.
package econ

import "math/bits"

// mulDivBps computes floor(amount * bps / 10000) using a 128-bit
// intermediate product, the same math/bits.Mul64/Div64 idiom the
// teacher's slashAmount (apps/chain/internal/app/slash.go) uses for its
// single bps calculation, generalized to every basis-point computation
// in this package (LTV cap, swap fee, reward rate).
func mulDivBps(amount uint64, bps uint64) uint64 {
	if amount == 0 || bps == 0 {
		return 0
	}
	hi, lo := bits.Mul64(amount, bps)
	q, _ := bits.Div64(hi, lo, 10000)
	return q
}

// mulDiv computes floor(a*b/d) using a 128-bit intermediate product,
// guarding the zero denominator per spec.md §9's "guard zero
// denominators" design note.
func mulDiv(a, b, d uint64) uint64 {
	if d == 0 {
		return 0
	}
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, d)
	return q
}

// mulDivCeil computes ceil(a*b/d) the same way mulDiv computes the
// floor, rounding the constant-product curve's output reserve up so a
// swap never leaves the pool with less value than x*y=k allows.
func mulDivCeil(a, b, d uint64) uint64 {
	if d == 0 {
		return 0
	}
	hi, lo := bits.Mul64(a, b)
	q, r := bits.Div64(hi, lo, d)
	if r != 0 {
		q++
	}
	return q
}

// isqrt returns floor(sqrt(n)) via Newton's method, used only to seed
// the very first AddLiquidity call on an empty pool.
func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
