package codec

// Instruction tags (consensus-visible). A transaction's instruction is
// encoded as a single tag byte followed by the instruction's own fields;
// the tag is the sole dispatch key the executor's decode switch uses.
const (
	TagCasinoRegister      uint8 = 10
	TagCasinoDeposit       uint8 = 11
	TagCasinoStartGame     uint8 = 12
	TagCasinoGameMove      uint8 = 13
	TagCasinoToggleShield  uint8 = 14
	TagCasinoToggleDouble  uint8 = 15
	TagCasinoJoinTournament uint8 = 16
	TagCasinoToggleSuper   uint8 = 17

	TagCreateVault       uint8 = 20
	TagDepositCollateral uint8 = 21
	TagBorrowVUsdt       uint8 = 22
	TagRepayVUsdt        uint8 = 23

	TagSwap         uint8 = 30
	TagAddLiquidity uint8 = 31
	TagRemoveLiquidity uint8 = 32

	TagStake         uint8 = 40
	TagUnstake       uint8 = 41
	TagClaimRewards  uint8 = 42
	TagProcessEpoch  uint8 = 43

	TagStartTournament uint8 = 50
	TagEndTournament   uint8 = 51
)

// State key tags.
const (
	KeyAccount         uint8 = 0
	KeyCasinoPlayer    uint8 = 10
	KeyCasinoSession   uint8 = 11
	KeyCasinoLeaderboard uint8 = 12
	KeyTournament      uint8 = 13
	KeyVault           uint8 = 20
	KeyAmmPool         uint8 = 21
	KeyLpBalance       uint8 = 22
	KeyHouse           uint8 = 23
	KeyStaker          uint8 = 24
	KeyTournamentSeq   uint8 = 25
	KeyStakerSeq       uint8 = 26
	KeyVaultSeq        uint8 = 27
)

// Event tags.
const (
	EvCasinoPlayerRegistered  uint8 = 20
	EvCasinoGameStarted       uint8 = 21
	EvCasinoGameMoved         uint8 = 22
	EvCasinoGameCompleted     uint8 = 23
	EvCasinoLeaderboardUpdated uint8 = 24
	EvTournamentStarted       uint8 = 25
	EvPlayerJoined            uint8 = 26
	EvTournamentPhaseChanged  uint8 = 27
	EvTournamentEnded         uint8 = 28
	EvCasinoError             uint8 = 29
	EvTransaction             uint8 = 1

	EvVaultCreated     uint8 = 30
	EvVaultUpdated     uint8 = 31
	EvSwapExecuted     uint8 = 32
	EvLiquidityChanged uint8 = 33
	EvStaked           uint8 = 34
	EvUnstaked         uint8 = 35
	EvRewardsClaimed   uint8 = 36
	EvEpochProcessed   uint8 = 37
)

// GameType tags, shared between CasinoStartGame/CasinoGameMove payloads and
// game-kernel dispatch (internal/games).
const (
	GameBlackjack      uint8 = 1
	GameHiLo           uint8 = 2
	GameBaccarat       uint8 = 3
	GameRoulette       uint8 = 4
	GameSicBo          uint8 = 5
	GameCraps          uint8 = 6
	GameVideoPoker     uint8 = 7
	GameThreeCardPoker uint8 = 8
	GameUltimateHoldEm uint8 = 9
	GameCasinoWar      uint8 = 10
)

// Field length bounds, per spec.md §6.1.
const (
	MaxNameLen    = 64
	MaxPayloadLen = 256
	MaxMessageLen = 256
)

// CasinoError.error_code values, per spec.md §6.2. These are the stable,
// consensus-visible codes a policy-layer rejection carries.
const (
	ErrPlayerAlreadyRegistered   uint32 = 1
	ErrPlayerNotFound            uint32 = 2
	ErrInsufficientFunds         uint32 = 3
	ErrInvalidBet                uint32 = 4
	ErrSessionExists             uint32 = 5
	ErrSessionNotFound           uint32 = 6
	ErrSessionNotOwned           uint32 = 7
	ErrSessionComplete           uint32 = 8
	ErrInvalidMove               uint32 = 9
	ErrRateLimited               uint32 = 10
	ErrTournamentNotRegistering  uint32 = 11
	ErrAlreadyInTournament       uint32 = 12

	ErrVaultNotFound     uint32 = 13
	ErrNotVaultOwner     uint32 = 14
	ErrLTVExceeded       uint32 = 15
	ErrRepayExceedsDebt  uint32 = 16
	ErrPoolEmpty         uint32 = 17
	ErrSlippage          uint32 = 18
	ErrInsufficientLp    uint32 = 19
	ErrZeroAmount        uint32 = 20
	ErrStakerNotFound    uint32 = 21
	ErrStillLocked       uint32 = 22
	ErrNotStakeOwner     uint32 = 23
	ErrEpochNotReady     uint32 = 24

	// ErrPrepareRejected covers the Prepare-phase failures spec.md §4.4
	// distinguishes from policy failures (bad signature, nonce mismatch):
	// these never consume a nonce and are not part of the closed §6.2
	// registry, so they share one unclassified code rather than extending
	// the consensus-visible enumeration.
	ErrPrepareRejected uint32 = 0
)

// Namespace is the fixed domain-separation prefix signed over, shared with
// off-chain signers: namespace || nonce_be || instruction_bytes.
var Namespace = []byte("casinochain/tx/v1")
