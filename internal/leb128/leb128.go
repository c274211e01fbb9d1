// Package leb128 encodes and decodes the LEB128 variable-length integer
// encodings used throughout the Wasm binary format.
package leb128

import "fmt"

const (
	maxVarintLen32 = 5
	maxVarintLen64 = 10
)

// EncodeUint32 returns the unsigned LEB128 encoding of v.
func EncodeUint32(v uint32) []byte {
	return encodeUint64(uint64(v))
}

// EncodeUint64 returns the unsigned LEB128 encoding of v.
func EncodeUint64(v uint64) []byte {
	return encodeUint64(v)
}

func encodeUint64(v uint64) []byte {
	out := make([]byte, 0, maxVarintLen64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			return out
		}
	}
}

// EncodeInt32 returns the signed LEB128 encoding of v.
func EncodeInt32(v int32) []byte {
	return encodeInt64(int64(v))
}

// EncodeInt64 returns the signed LEB128 encoding of v.
func EncodeInt64(v int64) []byte {
	return encodeInt64(v)
}

func encodeInt64(v int64) []byte {
	out := make([]byte, 0, maxVarintLen64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}

// LoadUint32 decodes an unsigned LEB128 value of at most 32 bits from buf,
// returning the decoded value and the number of bytes consumed.
func LoadUint32(buf []byte) (uint32, uint64, error) {
	v, n, err := loadUnsigned(buf, 32)
	return uint32(v), n, err
}

// LoadUint64 decodes an unsigned LEB128 value of at most 64 bits from buf.
func LoadUint64(buf []byte) (uint64, uint64, error) {
	return loadUnsigned(buf, 64)
}

func loadUnsigned(buf []byte, bitWidth uint32) (uint64, uint64, error) {
	var result uint64
	var shift uint32
	var n uint64
	for {
		if int(n) >= len(buf) {
			return 0, 0, fmt.Errorf("unexpected EOF decoding uleb128")
		}
		b := buf[n]
		n++

		if shift >= bitWidth {
			return 0, 0, fmt.Errorf("leb128 overlong encoding")
		}

		hasNext := b&0x80 != 0
		payload := uint64(b & 0x7f)

		// Reject bits that would be shifted beyond the target width,
		// unless they are all zero (or all the high padding ones for
		// the final byte of a maximal-width value).
		if shift+7 > bitWidth {
			valid := bitWidth - shift
			mask := uint64(0x7f) &^ ((uint64(1) << valid) - 1)
			if payload&mask != 0 {
				return 0, 0, fmt.Errorf("leb128 value overflows %d bits", bitWidth)
			}
		}

		result |= payload << shift
		shift += 7

		if !hasNext {
			return result, n, nil
		}
	}
}

// LoadInt32 decodes a signed LEB128 value of at most 32 bits from buf.
func LoadInt32(buf []byte) (int32, uint64, error) {
	v, n, err := loadSigned(buf, 32)
	if err != nil {
		return 0, 0, err
	}
	return int32(v), n, nil
}

// LoadInt64 decodes a signed LEB128 value of at most 64 bits from buf.
func LoadInt64(buf []byte) (int64, uint64, error) {
	return loadSigned(buf, 64)
}

func loadSigned(buf []byte, bitWidth uint32) (int64, uint64, error) {
	var result int64
	var shift uint32
	var n uint64
	var b byte
	for {
		if int(n) >= len(buf) {
			return 0, 0, fmt.Errorf("unexpected EOF decoding sleb128")
		}
		b = buf[n]
		n++

		if shift >= bitWidth {
			return 0, 0, fmt.Errorf("leb128 overlong encoding")
		}

		payload := int64(b & 0x7f)
		if shift+7 > bitWidth {
			valid := bitWidth - shift
			mask := byte(0x7f) &^ ((byte(1) << valid) - 1)
			signExt := b&(byte(1)<<(valid-1)) != 0
			masked := b & mask
			if signExt {
				// All padding bits must be the sign-extension of bit `valid-1`.
				if masked != mask {
					return 0, 0, fmt.Errorf("leb128 signed value overflows %d bits", bitWidth)
				}
			} else if masked != 0 {
				return 0, 0, fmt.Errorf("leb128 signed value overflows %d bits", bitWidth)
			}
		}

		result |= payload << shift
		shift += 7

		if b&0x80 == 0 {
			break
		}
	}

	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, n, nil
}

// DecodeInt33AsInt64 decodes a 33-bit signed LEB128 value (as used for
// Wasm block-type immediates) into an int64, returning the value and the
// number of bytes consumed.
func DecodeInt33AsInt64(r interface{ ReadByte() (byte, error) }) (int64, uint64, error) {
	var result int64
	var shift uint32
	var n uint64
	var b byte
	var err error
	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("unexpected EOF decoding sleb128: %w", err)
		}
		n++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 33 {
			return 0, 0, fmt.Errorf("leb128 value overflows 33 bits")
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, n, nil
}
