package codec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTransaction_EncodeDecodeRoundTrips(t *testing.T) {
	var tx Transaction
	tx.Nonce = 42
	tx.Instruction = CasinoRegister{Name: "alice"}
	for i := range tx.Public {
		tx.Public[i] = byte(i)
	}
	for i := range tx.Signature {
		tx.Signature[i] = byte(i * 3)
	}

	raw := EncodeTransaction(tx)
	got, err := DecodeTransaction(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(tx, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTransaction_DecodeRejectsTrailingBytes(t *testing.T) {
	var tx Transaction
	tx.Instruction = CasinoRegister{Name: "bob"}
	raw := append(EncodeTransaction(tx), 0xff)
	if _, err := DecodeTransaction(raw); err == nil {
		t.Fatalf("expected trailing-byte rejection")
	}
}

func TestSigningPayload_DiffersWhenNonceDiffers(t *testing.T) {
	var a, b Transaction
	a.Instruction = CasinoRegister{Name: "x"}
	b.Instruction = CasinoRegister{Name: "x"}
	a.Nonce, b.Nonce = 1, 2
	if cmp.Equal(SigningPayload(a), SigningPayload(b)) {
		t.Fatalf("expected signing payload to depend on nonce")
	}
}
