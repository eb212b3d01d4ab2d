package codec

import "encoding/binary"

// MaxBytesLen bounds any length-prefixed byte string or string read off the
// wire. It is a safety ceiling independent of any caller-supplied bound:
// preallocation is capped by the smaller of the declared length and this
// constant, so a forged 4GB length prefix cannot be used to force a large
// allocation before the truncation check even runs.
const MaxBytesLen = 1 << 20 // 1 MiB

// MaxCollectionLen bounds the element count of any length-prefixed
// collection (slices of sub-messages) absent a tighter caller-supplied bound.
const MaxCollectionLen = 1 << 16

// Writer accumulates a canonical binary encoding. All integers are
// big-endian per spec.
type Writer struct {
	buf []byte
}

func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteU8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

// WriteBytes writes a u32-length-prefixed byte string.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteU32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteBytesBounded writes a u16-length-prefixed byte string, for fields
// with a small declared bound (names, messages).
func (w *Writer) WriteBytesBounded(b []byte) {
	w.WriteU16(uint16(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteString(s string) { w.WriteBytes([]byte(s)) }

func (w *Writer) WriteStringBounded(s string) { w.WriteBytesBounded([]byte(s)) }

func (w *Writer) WriteFixed(b []byte) { w.buf = append(w.buf, b...) }

// Reader consumes a canonical binary encoding. Every method is total: on
// malformed input it returns a *DecodeError rather than panicking.
type Reader struct {
	buf []byte
	off int
}

func NewReader(b []byte) *Reader { return &Reader{buf: b} }

// Remaining reports the unconsumed byte count.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Done verifies there are no trailing bytes left to decode.
func (r *Reader) Done() error {
	if r.Remaining() != 0 {
		return errTrailingBytes("unexpected trailing bytes")
	}
	return nil
}

func (r *Reader) take(n int, ctx string) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, errTruncated(ctx)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1, "u8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2, "u16")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4, "u32")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8, "u64")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	if v > 1 {
		return false, errInvalidTag("bool must be 0 or 1")
	}
	return v == 1, nil
}

// ReadBytes reads a u32-length-prefixed byte string, bounded by the smaller
// of the declared length and maxLen.
func (r *Reader) ReadBytes(maxLen int) ([]byte, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if maxLen <= 0 || maxLen > MaxBytesLen {
		maxLen = MaxBytesLen
	}
	if int(n) > maxLen {
		return nil, errBoundExceeded("bytes length exceeds bound")
	}
	b, err := r.take(int(n), "bytes")
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadBytesBounded reads a u16-length-prefixed byte string.
func (r *Reader) ReadBytesBounded(maxLen int) ([]byte, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if maxLen <= 0 || maxLen > 0xFFFF {
		maxLen = 0xFFFF
	}
	if int(n) > maxLen {
		return nil, errBoundExceeded("bytes length exceeds bound")
	}
	b, err := r.take(int(n), "bytes")
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (r *Reader) ReadString(maxLen int) (string, error) {
	b, err := r.ReadBytes(maxLen)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *Reader) ReadStringBounded(maxLen int) (string, error) {
	b, err := r.ReadBytesBounded(maxLen)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *Reader) ReadFixed(n int) ([]byte, error) {
	b, err := r.take(n, "fixed")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// CollectionLen reads and bound-checks a u32 element count against the
// smaller of maxLen and MaxCollectionLen, for preallocating a decode slice.
func (r *Reader) CollectionLen(maxLen int) (int, error) {
	n, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	if maxLen <= 0 || maxLen > MaxCollectionLen {
		maxLen = MaxCollectionLen
	}
	if int(n) > maxLen {
		return 0, errBoundExceeded("collection length exceeds bound")
	}
	return int(n), nil
}
