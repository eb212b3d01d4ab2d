package codec

const (
	pubKeyLen = 32
	sigLen    = 64
)

// Transaction is the signed envelope carried by a block. Nonce is the
// signer's per-account sequence number; Instruction is the decoded
// operation; Public/Signature are raw ed25519 key material.
type Transaction struct {
	Nonce       uint64
	Instruction Instruction
	Public      [pubKeyLen]byte
	Signature   [sigLen]byte
}

// EncodeTransaction produces the canonical on-wire bytes for a transaction.
func EncodeTransaction(tx Transaction) []byte {
	insBytes := encodeInstruction(tx.Instruction)
	w := NewWriter(8 + len(insBytes) + pubKeyLen + sigLen)
	w.WriteU64(tx.Nonce)
	w.WriteFixed(insBytes)
	w.WriteFixed(tx.Public[:])
	w.WriteFixed(tx.Signature[:])
	return w.Bytes()
}

// DecodeTransaction parses a transaction, rejecting any trailing bytes.
func DecodeTransaction(b []byte) (Transaction, error) {
	r := NewReader(b)
	nonce, err := r.ReadU64()
	if err != nil {
		return Transaction{}, err
	}
	ins, err := DecodeInstruction(r)
	if err != nil {
		return Transaction{}, err
	}
	pub, err := r.ReadFixed(pubKeyLen)
	if err != nil {
		return Transaction{}, err
	}
	sig, err := r.ReadFixed(sigLen)
	if err != nil {
		return Transaction{}, err
	}
	if err := r.Done(); err != nil {
		return Transaction{}, err
	}
	var tx Transaction
	tx.Nonce = nonce
	tx.Instruction = ins
	copy(tx.Public[:], pub)
	copy(tx.Signature[:], sig)
	return tx, nil
}

// TransactionPayload builds the bytes a signer signs and a verifier checks:
// namespace || nonce_be || instruction_bytes. Keeping the namespace fixed
// and out-of-band of the signed nonce prevents a signature minted for one
// chain/version from replaying on another.
func TransactionPayload(nonce uint64, instructionBytes []byte) []byte {
	w := NewWriter(len(Namespace) + 8 + len(instructionBytes))
	w.WriteFixed(Namespace)
	w.WriteU64(nonce)
	w.WriteFixed(instructionBytes)
	return w.Bytes()
}

// SigningPayload returns the bytes that must be ed25519-signed for tx,
// derived from its nonce and encoded instruction.
func SigningPayload(tx Transaction) []byte {
	return TransactionPayload(tx.Nonce, encodeInstruction(tx.Instruction))
}
