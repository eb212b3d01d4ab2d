package codec

// Instruction is the payload carried by a Transaction. Every concrete type
// below writes its own tag byte first, so EncodeSize/WriteTo are symmetric
// with DecodeInstruction's tag dispatch.
type Instruction interface {
	Tag() uint8
	EncodeSize() int
	WriteTo(w *Writer)
}

func encodeInstruction(ins Instruction) []byte {
	w := NewWriter(1 + ins.EncodeSize())
	ins.WriteTo(w)
	return w.Bytes()
}

// DecodeInstruction reads a tag byte and dispatches to the matching
// instruction decoder. Unknown tags are InvalidTag, never a panic.
func DecodeInstruction(r *Reader) (Instruction, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagCasinoRegister:
		return decodeCasinoRegister(r)
	case TagCasinoDeposit:
		return decodeCasinoDeposit(r)
	case TagCasinoStartGame:
		return decodeCasinoStartGame(r)
	case TagCasinoGameMove:
		return decodeCasinoGameMove(r)
	case TagCasinoToggleShield:
		return CasinoToggleShield{}, nil
	case TagCasinoToggleDouble:
		return CasinoToggleDouble{}, nil
	case TagCasinoToggleSuper:
		return CasinoToggleSuper{}, nil
	case TagCasinoJoinTournament:
		return decodeCasinoJoinTournament(r)
	case TagCreateVault:
		return decodeCreateVault(r)
	case TagDepositCollateral:
		return decodeDepositCollateral(r)
	case TagBorrowVUsdt:
		return decodeBorrowVUsdt(r)
	case TagRepayVUsdt:
		return decodeRepayVUsdt(r)
	case TagSwap:
		return decodeSwap(r)
	case TagAddLiquidity:
		return decodeAddLiquidity(r)
	case TagRemoveLiquidity:
		return decodeRemoveLiquidity(r)
	case TagStake:
		return decodeStake(r)
	case TagUnstake:
		return decodeUnstake(r)
	case TagClaimRewards:
		return decodeClaimRewards(r)
	case TagProcessEpoch:
		return ProcessEpoch{}, nil
	case TagStartTournament:
		return decodeStartTournament(r)
	case TagEndTournament:
		return decodeEndTournament(r)
	default:
		return nil, errInvalidTag("unknown instruction tag")
	}
}

// ---- Casino ----

type CasinoRegister struct {
	Name string // bounded MaxNameLen
}

func (CasinoRegister) Tag() uint8        { return TagCasinoRegister }
func (i CasinoRegister) EncodeSize() int { return 1 + 2 + len(i.Name) }
func (i CasinoRegister) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteStringBounded(i.Name)
}
func decodeCasinoRegister(r *Reader) (Instruction, error) {
	name, err := r.ReadStringBounded(MaxNameLen)
	if err != nil {
		return nil, err
	}
	return CasinoRegister{Name: name}, nil
}

type CasinoDeposit struct {
	Amount uint64
}

func (CasinoDeposit) Tag() uint8        { return TagCasinoDeposit }
func (i CasinoDeposit) EncodeSize() int { return 1 + 8 }
func (i CasinoDeposit) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.Amount)
}
func decodeCasinoDeposit(r *Reader) (Instruction, error) {
	amt, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return CasinoDeposit{Amount: amt}, nil
}

type CasinoStartGame struct {
	GameType  uint8
	Bet       uint64
	SessionID uint64
}

func (CasinoStartGame) Tag() uint8        { return TagCasinoStartGame }
func (i CasinoStartGame) EncodeSize() int { return 1 + 1 + 8 + 8 }
func (i CasinoStartGame) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU8(i.GameType)
	w.WriteU64(i.Bet)
	w.WriteU64(i.SessionID)
}
func decodeCasinoStartGame(r *Reader) (Instruction, error) {
	gt, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	bet, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	sid, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return CasinoStartGame{GameType: gt, Bet: bet, SessionID: sid}, nil
}

type CasinoGameMove struct {
	SessionID uint64
	Payload   []byte // bounded MaxPayloadLen
}

func (CasinoGameMove) Tag() uint8        { return TagCasinoGameMove }
func (i CasinoGameMove) EncodeSize() int { return 1 + 8 + 2 + len(i.Payload) }
func (i CasinoGameMove) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.SessionID)
	w.WriteBytesBounded(i.Payload)
}
func decodeCasinoGameMove(r *Reader) (Instruction, error) {
	sid, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	payload, err := r.ReadBytesBounded(MaxPayloadLen)
	if err != nil {
		return nil, err
	}
	return CasinoGameMove{SessionID: sid, Payload: payload}, nil
}

type CasinoToggleShield struct{}

func (CasinoToggleShield) Tag() uint8          { return TagCasinoToggleShield }
func (CasinoToggleShield) EncodeSize() int     { return 1 }
func (i CasinoToggleShield) WriteTo(w *Writer) { w.WriteU8(i.Tag()) }

type CasinoToggleDouble struct{}

func (CasinoToggleDouble) Tag() uint8          { return TagCasinoToggleDouble }
func (CasinoToggleDouble) EncodeSize() int     { return 1 }
func (i CasinoToggleDouble) WriteTo(w *Writer) { w.WriteU8(i.Tag()) }

// CasinoToggleSuper is reserved wire space for a third modifier stock not
// present in the v1 data model (spec.md §3.1 only defines shields/doubles).
// The executor decodes it but rejects it until a "super" stock is defined.
type CasinoToggleSuper struct{}

func (CasinoToggleSuper) Tag() uint8          { return TagCasinoToggleSuper }
func (CasinoToggleSuper) EncodeSize() int     { return 1 }
func (i CasinoToggleSuper) WriteTo(w *Writer) { w.WriteU8(i.Tag()) }

type CasinoJoinTournament struct {
	TournamentID uint64
}

func (CasinoJoinTournament) Tag() uint8        { return TagCasinoJoinTournament }
func (i CasinoJoinTournament) EncodeSize() int { return 1 + 8 }
func (i CasinoJoinTournament) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.TournamentID)
}
func decodeCasinoJoinTournament(r *Reader) (Instruction, error) {
	id, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return CasinoJoinTournament{TournamentID: id}, nil
}

// ---- Vault (CDP) ----

type CreateVault struct {
	CollateralAmount uint64
}

func (CreateVault) Tag() uint8        { return TagCreateVault }
func (i CreateVault) EncodeSize() int { return 1 + 8 }
func (i CreateVault) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.CollateralAmount)
}
func decodeCreateVault(r *Reader) (Instruction, error) {
	amt, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return CreateVault{CollateralAmount: amt}, nil
}

type DepositCollateral struct {
	VaultID uint64
	Amount  uint64
}

func (DepositCollateral) Tag() uint8        { return TagDepositCollateral }
func (i DepositCollateral) EncodeSize() int { return 1 + 8 + 8 }
func (i DepositCollateral) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.VaultID)
	w.WriteU64(i.Amount)
}
func decodeDepositCollateral(r *Reader) (Instruction, error) {
	vid, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	amt, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return DepositCollateral{VaultID: vid, Amount: amt}, nil
}

type BorrowVUsdt struct {
	VaultID uint64
	Amount  uint64
}

func (BorrowVUsdt) Tag() uint8        { return TagBorrowVUsdt }
func (i BorrowVUsdt) EncodeSize() int { return 1 + 8 + 8 }
func (i BorrowVUsdt) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.VaultID)
	w.WriteU64(i.Amount)
}
func decodeBorrowVUsdt(r *Reader) (Instruction, error) {
	vid, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	amt, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return BorrowVUsdt{VaultID: vid, Amount: amt}, nil
}

type RepayVUsdt struct {
	VaultID uint64
	Amount  uint64
}

func (RepayVUsdt) Tag() uint8        { return TagRepayVUsdt }
func (i RepayVUsdt) EncodeSize() int { return 1 + 8 + 8 }
func (i RepayVUsdt) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.VaultID)
	w.WriteU64(i.Amount)
}
func decodeRepayVUsdt(r *Reader) (Instruction, error) {
	vid, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	amt, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return RepayVUsdt{VaultID: vid, Amount: amt}, nil
}

// ---- AMM ----

type Swap struct {
	AmountIn     uint64
	MinAmountOut uint64
	ChipsToVUsdt bool
}

func (Swap) Tag() uint8        { return TagSwap }
func (i Swap) EncodeSize() int { return 1 + 8 + 8 + 1 }
func (i Swap) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.AmountIn)
	w.WriteU64(i.MinAmountOut)
	w.WriteBool(i.ChipsToVUsdt)
}
func decodeSwap(r *Reader) (Instruction, error) {
	in, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	minOut, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	dir, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	return Swap{AmountIn: in, MinAmountOut: minOut, ChipsToVUsdt: dir}, nil
}

type AddLiquidity struct {
	ChipsAmount uint64
	VUsdtAmount uint64
}

func (AddLiquidity) Tag() uint8        { return TagAddLiquidity }
func (i AddLiquidity) EncodeSize() int { return 1 + 8 + 8 }
func (i AddLiquidity) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.ChipsAmount)
	w.WriteU64(i.VUsdtAmount)
}
func decodeAddLiquidity(r *Reader) (Instruction, error) {
	c, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	v, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return AddLiquidity{ChipsAmount: c, VUsdtAmount: v}, nil
}

type RemoveLiquidity struct {
	LpAmount uint64
}

func (RemoveLiquidity) Tag() uint8        { return TagRemoveLiquidity }
func (i RemoveLiquidity) EncodeSize() int { return 1 + 8 }
func (i RemoveLiquidity) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.LpAmount)
}
func decodeRemoveLiquidity(r *Reader) (Instruction, error) {
	lp, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return RemoveLiquidity{LpAmount: lp}, nil
}

// ---- Staking ----

type Stake struct {
	Amount     uint64
	LockBlocks uint64
}

func (Stake) Tag() uint8        { return TagStake }
func (i Stake) EncodeSize() int { return 1 + 8 + 8 }
func (i Stake) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.Amount)
	w.WriteU64(i.LockBlocks)
}
func decodeStake(r *Reader) (Instruction, error) {
	amt, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	lb, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return Stake{Amount: amt, LockBlocks: lb}, nil
}

type Unstake struct {
	StakeID uint64
}

func (Unstake) Tag() uint8        { return TagUnstake }
func (i Unstake) EncodeSize() int { return 1 + 8 }
func (i Unstake) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.StakeID)
}
func decodeUnstake(r *Reader) (Instruction, error) {
	id, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return Unstake{StakeID: id}, nil
}

type ClaimRewards struct {
	StakeID uint64
}

func (ClaimRewards) Tag() uint8        { return TagClaimRewards }
func (i ClaimRewards) EncodeSize() int { return 1 + 8 }
func (i ClaimRewards) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.StakeID)
}
func decodeClaimRewards(r *Reader) (Instruction, error) {
	id, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return ClaimRewards{StakeID: id}, nil
}

// ProcessEpoch advances staking epoch rewards. Permissionless and
// idempotent per-epoch (internal/econ enforces the epoch gate).
type ProcessEpoch struct{}

func (ProcessEpoch) Tag() uint8          { return TagProcessEpoch }
func (ProcessEpoch) EncodeSize() int     { return 1 }
func (i ProcessEpoch) WriteTo(w *Writer) { w.WriteU8(i.Tag()) }

// ---- Tournament ----

type StartTournament struct {
	StartingChips   uint64
	StartingShields uint8
	StartingDoubles uint8
}

func (StartTournament) Tag() uint8        { return TagStartTournament }
func (i StartTournament) EncodeSize() int { return 1 + 8 + 1 + 1 }
func (i StartTournament) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.StartingChips)
	w.WriteU8(i.StartingShields)
	w.WriteU8(i.StartingDoubles)
}
func decodeStartTournament(r *Reader) (Instruction, error) {
	chips, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	shields, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	doubles, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	return StartTournament{StartingChips: chips, StartingShields: shields, StartingDoubles: doubles}, nil
}

// EndTournament forces early completion of a tournament still in its
// Registration or Active phase (operator/admin path; the normal path is
// the per-block ticker in internal/casino reaching the phase boundary).
type EndTournament struct {
	TournamentID uint64
}

func (EndTournament) Tag() uint8        { return TagEndTournament }
func (i EndTournament) EncodeSize() int { return 1 + 8 }
func (i EndTournament) WriteTo(w *Writer) {
	w.WriteU8(i.Tag())
	w.WriteU64(i.TournamentID)
}
func decodeEndTournament(r *Reader) (Instruction, error) {
	id, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	return EndTournament{TournamentID: id}, nil
}
