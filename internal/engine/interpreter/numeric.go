package interpreter

import (
	"math"
	"math/bits"

	moremath "github.com/PreyMa/wasmcore/internal/moremath"
	"github.com/PreyMa/wasmcore/internal/wasmruntime"
	wazeroir "github.com/PreyMa/wasmcore/internal/wazeroir"
)

// execNumeric implements every typed comparison/unary/binary/conversion
// operator, including the saturating truncation family, operating
// directly on m.stack the same way the surrounding dispatch loop does.
func (m *machine) execNumeric(op wazeroir.NumOp) {
	switch op {
	// --- i32 comparisons ---
	case wazeroir.NumOpI32Eqz:
		m.push(b2u(int32(m.pop()) == 0))
	case wazeroir.NumOpI32Eq:
		b, a := int32(m.pop()), int32(m.pop())
		m.push(b2u(a == b))
	case wazeroir.NumOpI32Ne:
		b, a := int32(m.pop()), int32(m.pop())
		m.push(b2u(a != b))
	case wazeroir.NumOpI32LtS:
		b, a := int32(m.pop()), int32(m.pop())
		m.push(b2u(a < b))
	case wazeroir.NumOpI32LtU:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(b2u(a < b))
	case wazeroir.NumOpI32GtS:
		b, a := int32(m.pop()), int32(m.pop())
		m.push(b2u(a > b))
	case wazeroir.NumOpI32GtU:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(b2u(a > b))
	case wazeroir.NumOpI32LeS:
		b, a := int32(m.pop()), int32(m.pop())
		m.push(b2u(a <= b))
	case wazeroir.NumOpI32LeU:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(b2u(a <= b))
	case wazeroir.NumOpI32GeS:
		b, a := int32(m.pop()), int32(m.pop())
		m.push(b2u(a >= b))
	case wazeroir.NumOpI32GeU:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(b2u(a >= b))

	// --- i64 comparisons ---
	case wazeroir.NumOpI64Eqz:
		m.push(b2u(int64(m.pop()) == 0))
	case wazeroir.NumOpI64Eq:
		b, a := int64(m.pop()), int64(m.pop())
		m.push(b2u(a == b))
	case wazeroir.NumOpI64Ne:
		b, a := int64(m.pop()), int64(m.pop())
		m.push(b2u(a != b))
	case wazeroir.NumOpI64LtS:
		b, a := int64(m.pop()), int64(m.pop())
		m.push(b2u(a < b))
	case wazeroir.NumOpI64LtU:
		b, a := m.pop(), m.pop()
		m.push(b2u(a < b))
	case wazeroir.NumOpI64GtS:
		b, a := int64(m.pop()), int64(m.pop())
		m.push(b2u(a > b))
	case wazeroir.NumOpI64GtU:
		b, a := m.pop(), m.pop()
		m.push(b2u(a > b))
	case wazeroir.NumOpI64LeS:
		b, a := int64(m.pop()), int64(m.pop())
		m.push(b2u(a <= b))
	case wazeroir.NumOpI64LeU:
		b, a := m.pop(), m.pop()
		m.push(b2u(a <= b))
	case wazeroir.NumOpI64GeS:
		b, a := int64(m.pop()), int64(m.pop())
		m.push(b2u(a >= b))
	case wazeroir.NumOpI64GeU:
		b, a := m.pop(), m.pop()
		m.push(b2u(a >= b))

	// --- f32 comparisons ---
	case wazeroir.NumOpF32Eq:
		b, a := popF32(m), popF32(m)
		m.push(b2u(a == b))
	case wazeroir.NumOpF32Ne:
		b, a := popF32(m), popF32(m)
		m.push(b2u(a != b))
	case wazeroir.NumOpF32Lt:
		b, a := popF32(m), popF32(m)
		m.push(b2u(a < b))
	case wazeroir.NumOpF32Gt:
		b, a := popF32(m), popF32(m)
		m.push(b2u(a > b))
	case wazeroir.NumOpF32Le:
		b, a := popF32(m), popF32(m)
		m.push(b2u(a <= b))
	case wazeroir.NumOpF32Ge:
		b, a := popF32(m), popF32(m)
		m.push(b2u(a >= b))

	// --- f64 comparisons ---
	case wazeroir.NumOpF64Eq:
		b, a := popF64(m), popF64(m)
		m.push(b2u(a == b))
	case wazeroir.NumOpF64Ne:
		b, a := popF64(m), popF64(m)
		m.push(b2u(a != b))
	case wazeroir.NumOpF64Lt:
		b, a := popF64(m), popF64(m)
		m.push(b2u(a < b))
	case wazeroir.NumOpF64Gt:
		b, a := popF64(m), popF64(m)
		m.push(b2u(a > b))
	case wazeroir.NumOpF64Le:
		b, a := popF64(m), popF64(m)
		m.push(b2u(a <= b))
	case wazeroir.NumOpF64Ge:
		b, a := popF64(m), popF64(m)
		m.push(b2u(a >= b))

	// --- i32 unary/binary ---
	case wazeroir.NumOpI32Clz:
		m.push(uint64(bits.LeadingZeros32(uint32(m.pop()))))
	case wazeroir.NumOpI32Ctz:
		m.push(uint64(bits.TrailingZeros32(uint32(m.pop()))))
	case wazeroir.NumOpI32Popcnt:
		m.push(uint64(bits.OnesCount32(uint32(m.pop()))))
	case wazeroir.NumOpI32Add:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(uint64(a + b))
	case wazeroir.NumOpI32Sub:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(uint64(a - b))
	case wazeroir.NumOpI32Mul:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(uint64(a * b))
	case wazeroir.NumOpI32DivS:
		b, a := int32(m.pop()), int32(m.pop())
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		if a == math.MinInt32 && b == -1 {
			panic(wasmruntime.ErrRuntimeIntegerOverflow)
		}
		m.push(uint64(uint32(a / b)))
	case wazeroir.NumOpI32DivU:
		b, a := uint32(m.pop()), uint32(m.pop())
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		m.push(uint64(a / b))
	case wazeroir.NumOpI32RemS:
		b, a := int32(m.pop()), int32(m.pop())
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		if b == -1 {
			m.push(0)
		} else {
			m.push(uint64(uint32(a % b)))
		}
	case wazeroir.NumOpI32RemU:
		b, a := uint32(m.pop()), uint32(m.pop())
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		m.push(uint64(a % b))
	case wazeroir.NumOpI32And:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(uint64(a & b))
	case wazeroir.NumOpI32Or:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(uint64(a | b))
	case wazeroir.NumOpI32Xor:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(uint64(a ^ b))
	case wazeroir.NumOpI32Shl:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(uint64(a << (b & 31)))
	case wazeroir.NumOpI32ShrS:
		b, a := uint32(m.pop()), int32(m.pop())
		m.push(uint64(uint32(a >> (b & 31))))
	case wazeroir.NumOpI32ShrU:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(uint64(a >> (b & 31)))
	case wazeroir.NumOpI32Rotl:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(uint64(bits.RotateLeft32(a, int(b))))
	case wazeroir.NumOpI32Rotr:
		b, a := uint32(m.pop()), uint32(m.pop())
		m.push(uint64(bits.RotateLeft32(a, -int(b))))

	// --- i64 unary/binary ---
	case wazeroir.NumOpI64Clz:
		m.push(uint64(bits.LeadingZeros64(m.pop())))
	case wazeroir.NumOpI64Ctz:
		m.push(uint64(bits.TrailingZeros64(m.pop())))
	case wazeroir.NumOpI64Popcnt:
		m.push(uint64(bits.OnesCount64(m.pop())))
	case wazeroir.NumOpI64Add:
		b, a := m.pop(), m.pop()
		m.push(a + b)
	case wazeroir.NumOpI64Sub:
		b, a := m.pop(), m.pop()
		m.push(a - b)
	case wazeroir.NumOpI64Mul:
		b, a := m.pop(), m.pop()
		m.push(a * b)
	case wazeroir.NumOpI64DivS:
		b, a := int64(m.pop()), int64(m.pop())
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		if a == math.MinInt64 && b == -1 {
			panic(wasmruntime.ErrRuntimeIntegerOverflow)
		}
		m.push(uint64(a / b))
	case wazeroir.NumOpI64DivU:
		b, a := m.pop(), m.pop()
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		m.push(a / b)
	case wazeroir.NumOpI64RemS:
		b, a := int64(m.pop()), int64(m.pop())
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		if b == -1 {
			m.push(0)
		} else {
			m.push(uint64(a % b))
		}
	case wazeroir.NumOpI64RemU:
		b, a := m.pop(), m.pop()
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		m.push(a % b)
	case wazeroir.NumOpI64And:
		b, a := m.pop(), m.pop()
		m.push(a & b)
	case wazeroir.NumOpI64Or:
		b, a := m.pop(), m.pop()
		m.push(a | b)
	case wazeroir.NumOpI64Xor:
		b, a := m.pop(), m.pop()
		m.push(a ^ b)
	case wazeroir.NumOpI64Shl:
		b, a := m.pop(), m.pop()
		m.push(a << (b & 63))
	case wazeroir.NumOpI64ShrS:
		b, a := m.pop(), int64(m.pop())
		m.push(uint64(a >> (b & 63)))
	case wazeroir.NumOpI64ShrU:
		b, a := m.pop(), m.pop()
		m.push(a >> (b & 63))
	case wazeroir.NumOpI64Rotl:
		b, a := m.pop(), m.pop()
		m.push(bits.RotateLeft64(a, int(b)))
	case wazeroir.NumOpI64Rotr:
		b, a := m.pop(), m.pop()
		m.push(bits.RotateLeft64(a, -int(b)))

	// --- f32 unary/binary ---
	case wazeroir.NumOpF32Abs:
		m.pushF32(float32(math.Abs(float64(popF32(m)))))
	case wazeroir.NumOpF32Neg:
		m.pushF32(-popF32(m))
	case wazeroir.NumOpF32Ceil:
		m.pushF32(float32(math.Ceil(float64(popF32(m)))))
	case wazeroir.NumOpF32Floor:
		m.pushF32(float32(math.Floor(float64(popF32(m)))))
	case wazeroir.NumOpF32Trunc:
		m.pushF32(float32(math.Trunc(float64(popF32(m)))))
	case wazeroir.NumOpF32Nearest:
		m.pushF32(float32(math.RoundToEven(float64(popF32(m)))))
	case wazeroir.NumOpF32Sqrt:
		m.pushF32(float32(math.Sqrt(float64(popF32(m)))))
	case wazeroir.NumOpF32Add:
		b, a := popF32(m), popF32(m)
		m.pushF32(a + b)
	case wazeroir.NumOpF32Sub:
		b, a := popF32(m), popF32(m)
		m.pushF32(a - b)
	case wazeroir.NumOpF32Mul:
		b, a := popF32(m), popF32(m)
		m.pushF32(a * b)
	case wazeroir.NumOpF32Div:
		b, a := popF32(m), popF32(m)
		m.pushF32(a / b)
	case wazeroir.NumOpF32Min:
		b, a := popF32(m), popF32(m)
		m.pushF32(float32(moremath.WasmCompatMin(float64(a), float64(b))))
	case wazeroir.NumOpF32Max:
		b, a := popF32(m), popF32(m)
		m.pushF32(float32(moremath.WasmCompatMax(float64(a), float64(b))))
	case wazeroir.NumOpF32Copysign:
		b, a := popF32(m), popF32(m)
		m.pushF32(float32(math.Copysign(float64(a), float64(b))))

	// --- f64 unary/binary ---
	case wazeroir.NumOpF64Abs:
		m.pushF64(math.Abs(popF64(m)))
	case wazeroir.NumOpF64Neg:
		m.pushF64(-popF64(m))
	case wazeroir.NumOpF64Ceil:
		m.pushF64(math.Ceil(popF64(m)))
	case wazeroir.NumOpF64Floor:
		m.pushF64(math.Floor(popF64(m)))
	case wazeroir.NumOpF64Trunc:
		m.pushF64(math.Trunc(popF64(m)))
	case wazeroir.NumOpF64Nearest:
		m.pushF64(math.RoundToEven(popF64(m)))
	case wazeroir.NumOpF64Sqrt:
		m.pushF64(math.Sqrt(popF64(m)))
	case wazeroir.NumOpF64Add:
		b, a := popF64(m), popF64(m)
		m.pushF64(a + b)
	case wazeroir.NumOpF64Sub:
		b, a := popF64(m), popF64(m)
		m.pushF64(a - b)
	case wazeroir.NumOpF64Mul:
		b, a := popF64(m), popF64(m)
		m.pushF64(a * b)
	case wazeroir.NumOpF64Div:
		b, a := popF64(m), popF64(m)
		m.pushF64(a / b)
	case wazeroir.NumOpF64Min:
		b, a := popF64(m), popF64(m)
		m.pushF64(moremath.WasmCompatMin(a, b))
	case wazeroir.NumOpF64Max:
		b, a := popF64(m), popF64(m)
		m.pushF64(moremath.WasmCompatMax(a, b))
	case wazeroir.NumOpF64Copysign:
		b, a := popF64(m), popF64(m)
		m.pushF64(math.Copysign(a, b))

	// --- conversions ---
	case wazeroir.NumOpI32WrapI64:
		m.push(uint64(uint32(m.pop())))
	case wazeroir.NumOpI32TruncF32S:
		m.push(uint64(uint32(truncToInt32(float64(popF32(m)), true))))
	case wazeroir.NumOpI32TruncF32U:
		m.push(uint64(uint32(truncToInt32(float64(popF32(m)), false))))
	case wazeroir.NumOpI32TruncF64S:
		m.push(uint64(uint32(truncToInt32(popF64(m), true))))
	case wazeroir.NumOpI32TruncF64U:
		m.push(uint64(uint32(truncToInt32(popF64(m), false))))
	case wazeroir.NumOpI64ExtendI32S:
		m.push(uint64(int64(int32(m.pop()))))
	case wazeroir.NumOpI64ExtendI32U:
		m.push(uint64(uint32(m.pop())))
	case wazeroir.NumOpI64TruncF32S:
		m.push(truncToInt64(float64(popF32(m)), true))
	case wazeroir.NumOpI64TruncF32U:
		m.push(truncToInt64(float64(popF32(m)), false))
	case wazeroir.NumOpI64TruncF64S:
		m.push(truncToInt64(popF64(m), true))
	case wazeroir.NumOpI64TruncF64U:
		m.push(truncToInt64(popF64(m), false))
	case wazeroir.NumOpF32ConvertI32S:
		m.pushF32(float32(int32(m.pop())))
	case wazeroir.NumOpF32ConvertI32U:
		m.pushF32(float32(uint32(m.pop())))
	case wazeroir.NumOpF32ConvertI64S:
		m.pushF32(float32(int64(m.pop())))
	case wazeroir.NumOpF32ConvertI64U:
		m.pushF32(float32(m.pop()))
	case wazeroir.NumOpF32DemoteF64:
		m.pushF32(float32(popF64(m)))
	case wazeroir.NumOpF64ConvertI32S:
		m.pushF64(float64(int32(m.pop())))
	case wazeroir.NumOpF64ConvertI32U:
		m.pushF64(float64(uint32(m.pop())))
	case wazeroir.NumOpF64ConvertI64S:
		m.pushF64(float64(int64(m.pop())))
	case wazeroir.NumOpF64ConvertI64U:
		m.pushF64(float64(m.pop()))
	case wazeroir.NumOpF64PromoteF32:
		m.pushF64(float64(popF32(m)))
	case wazeroir.NumOpI32ReinterpretF32:
		m.push(uint64(uint32(m.pop())))
	case wazeroir.NumOpI64ReinterpretF64:
		m.push(m.pop())
	case wazeroir.NumOpF32ReinterpretI32:
		m.push(uint64(uint32(m.pop())))
	case wazeroir.NumOpF64ReinterpretI64:
		m.push(m.pop())

	case wazeroir.NumOpI32Extend8S:
		m.push(uint64(uint32(int32(int8(m.pop())))))
	case wazeroir.NumOpI32Extend16S:
		m.push(uint64(uint32(int32(int16(m.pop())))))
	case wazeroir.NumOpI64Extend8S:
		m.push(uint64(int64(int8(m.pop()))))
	case wazeroir.NumOpI64Extend16S:
		m.push(uint64(int64(int16(m.pop()))))
	case wazeroir.NumOpI64Extend32S:
		m.push(uint64(int64(int32(m.pop()))))

	case wazeroir.NumOpI32TruncSatF32S:
		m.push(uint64(uint32(truncSat32(float64(popF32(m)), true))))
	case wazeroir.NumOpI32TruncSatF32U:
		m.push(uint64(truncSatU32(float64(popF32(m)))))
	case wazeroir.NumOpI32TruncSatF64S:
		m.push(uint64(uint32(truncSat32(popF64(m), true))))
	case wazeroir.NumOpI32TruncSatF64U:
		m.push(uint64(truncSatU32(popF64(m))))
	case wazeroir.NumOpI64TruncSatF32S:
		m.push(uint64(truncSat64(float64(popF32(m)), true)))
	case wazeroir.NumOpI64TruncSatF32U:
		m.push(truncSatU64(float64(popF32(m))))
	case wazeroir.NumOpI64TruncSatF64S:
		m.push(uint64(truncSat64(popF64(m), true)))
	case wazeroir.NumOpI64TruncSatF64U:
		m.push(truncSatU64(popF64(m)))

	default:
		panic(wasmruntime.ErrRuntimeUnreachable)
	}
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func popF32(m *machine) float32 { return math.Float32frombits(uint32(m.pop())) }
func popF64(m *machine) float64 { return math.Float64frombits(m.pop()) }

func (m *machine) pushF32(v float32) { m.push(uint64(math.Float32bits(v))) }
func (m *machine) pushF64(v float64) { m.push(math.Float64bits(v)) }

// truncToInt32/truncToInt64 implement the trapping float-to-int
// conversions: NaN and out-of-range values trap instead of saturating.
func truncToInt32(v float64, signed bool) int64 {
	checkTruncOperand(v)
	t := math.Trunc(v)
	if signed {
		if t < math.MinInt32 || t > math.MaxInt32 {
			panic(wasmruntime.ErrRuntimeIntegerOverflow)
		}
	} else {
		if t < 0 || t > math.MaxUint32 {
			panic(wasmruntime.ErrRuntimeIntegerOverflow)
		}
	}
	return int64(t)
}

func truncToInt64(v float64, signed bool) uint64 {
	checkTruncOperand(v)
	t := math.Trunc(v)
	if signed {
		if t < math.MinInt64 || t >= math.MaxInt64 {
			panic(wasmruntime.ErrRuntimeIntegerOverflow)
		}
		return uint64(int64(t))
	}
	if t < 0 || t >= math.MaxUint64 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return uint64(t)
}

func checkTruncOperand(v float64) {
	if math.IsNaN(v) {
		panic(wasmruntime.ErrRuntimeInvalidConversionToInteger)
	}
}

// truncSat* implement the 0xfc saturating truncations: NaN becomes 0,
// out-of-range values clamp to the target's min/max instead of trapping.
func truncSat32(v float64, signed bool) int32 {
	if math.IsNaN(v) {
		return 0
	}
	t := math.Trunc(v)
	if signed {
		if t < math.MinInt32 {
			return math.MinInt32
		}
		if t > math.MaxInt32 {
			return math.MaxInt32
		}
	}
	return int32(t)
}

func truncSatU32(v float64) uint32 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	t := math.Trunc(v)
	if t > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(t)
}

func truncSat64(v float64, signed bool) int64 {
	if math.IsNaN(v) {
		return 0
	}
	t := math.Trunc(v)
	if signed {
		if t < math.MinInt64 {
			return math.MinInt64
		}
		if t >= math.MaxInt64 {
			return math.MaxInt64
		}
	}
	return int64(t)
}

func truncSatU64(v float64) uint64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	t := math.Trunc(v)
	if t >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(t)
}
