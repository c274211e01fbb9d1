package leb128

import (
	"fmt"
	"math"
)

// ParsingError reports a failure to decode a primitive at a given byte
// offset of a named input.
type ParsingError struct {
	File    string
	Offset  uint64
	Message string
}

func (e *ParsingError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%#x: %s", e.Offset, e.Message)
	}
	return fmt.Sprintf("%s:%#x: %s", e.File, e.Offset, e.Message)
}

// Reader is a random-access byte slice with a forward cursor. It never
// copies: sub-slices handed out by NextSliceOf/NextSliceTo alias the
// backing buffer.
type Reader struct {
	File   string
	buf    []byte
	cursor uint64
}

// NewReader wraps buf for sequential decoding. file is used only to
// annotate errors.
func NewReader(file string, buf []byte) *Reader {
	return &Reader{File: file, buf: buf}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() uint64 { return uint64(len(r.buf)) - r.cursor }

// Offset returns the current cursor position.
func (r *Reader) Offset() uint64 { return r.cursor }

// Bytes returns the whole backing buffer, without advancing the cursor.
func (r *Reader) Bytes() []byte { return r.buf }

func (r *Reader) fail(format string, args ...interface{}) error {
	return &ParsingError{File: r.File, Offset: r.cursor, Message: fmt.Sprintf(format, args...)}
}

// NextByte returns the next unread byte and advances the cursor by one.
func (r *Reader) NextByte() (byte, error) {
	if r.cursor >= uint64(len(r.buf)) {
		return 0, r.fail("unexpected EOF")
	}
	b := r.buf[r.cursor]
	r.cursor++
	return b, nil
}

// ReadByte satisfies io.ByteReader (and DecodeInt33AsInt64's narrower
// equivalent), delegating to NextByte.
func (r *Reader) ReadByte() (byte, error) { return r.NextByte() }

// AssertByte consumes one byte and fails unless it equals expected.
func (r *Reader) AssertByte(expected byte) error {
	b, err := r.NextByte()
	if err != nil {
		return err
	}
	if b != expected {
		return r.fail("expected byte %#x, got %#x", expected, b)
	}
	return nil
}

// NextSliceOf returns the next n bytes as a non-copying sub-slice and
// advances the cursor by n.
func (r *Reader) NextSliceOf(n uint64) ([]byte, error) {
	if n > r.Len() {
		return nil, r.fail("slice of length %d exceeds remaining input", n)
	}
	s := r.buf[r.cursor : r.cursor+n]
	r.cursor += n
	return s, nil
}

// NextSliceTo returns a non-copying sub-slice from the cursor up to
// (exclusive) the absolute position and advances the cursor there.
func (r *Reader) NextSliceTo(position uint64) ([]byte, error) {
	if position < r.cursor || position > uint64(len(r.buf)) {
		return nil, r.fail("target position %d is out of range", position)
	}
	s := r.buf[r.cursor:position]
	r.cursor = position
	return s, nil
}

// NextU32 decodes an unsigned LEB128 value of at most 32 bits.
func (r *Reader) NextU32() (uint32, error) {
	v, n, err := LoadUint32(r.buf[r.cursor:])
	if err != nil {
		return 0, r.fail("%s", err)
	}
	r.cursor += n
	return v, nil
}

// NextU64 decodes an unsigned LEB128 value of at most 64 bits.
func (r *Reader) NextU64() (uint64, error) {
	v, n, err := LoadUint64(r.buf[r.cursor:])
	if err != nil {
		return 0, r.fail("%s", err)
	}
	r.cursor += n
	return v, nil
}

// NextI32 decodes a signed LEB128 value of at most 32 bits.
func (r *Reader) NextI32() (int32, error) {
	v, n, err := LoadInt32(r.buf[r.cursor:])
	if err != nil {
		return 0, r.fail("%s", err)
	}
	r.cursor += n
	return v, nil
}

// NextI64 decodes a signed LEB128 value of at most 64 bits.
func (r *Reader) NextI64() (int64, error) {
	v, n, err := LoadInt64(r.buf[r.cursor:])
	if err != nil {
		return 0, r.fail("%s", err)
	}
	r.cursor += n
	return v, nil
}

// NextF32 decodes a little-endian IEEE-754 single precision float.
func (r *Reader) NextF32() (float32, error) {
	b, err := r.NextSliceOf(4)
	if err != nil {
		return 0, err
	}
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits), nil
}

// NextF64 decodes a little-endian IEEE-754 double precision float.
func (r *Reader) NextF64() (float64, error) {
	b, err := r.NextSliceOf(8)
	if err != nil {
		return 0, err
	}
	var bits uint64
	for i := 0; i < 8; i++ {
		bits |= uint64(b[i]) << (8 * i)
	}
	return math.Float64frombits(bits), nil
}

// NextBigEndianU32 decodes a big-endian fixed-width u32, used only for
// the module header's magic number and version fields.
func (r *Reader) NextBigEndianU32() (uint32, error) {
	b, err := r.NextSliceOf(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}
