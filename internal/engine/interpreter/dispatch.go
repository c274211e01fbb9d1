package interpreter

import (
	"context"

	wasm "github.com/PreyMa/wasmcore/internal/wasm"
	"github.com/PreyMa/wasmcore/internal/wasmruntime"
	wazeroir "github.com/PreyMa/wasmcore/internal/wazeroir"
)

func readU8(code []byte, ip *int) uint8 {
	v := code[*ip]
	*ip++
	return v
}

func readI8(code []byte, ip *int) int8 { return int8(readU8(code, ip)) }

func readU32(code []byte, ip *int) uint32 {
	v := uint32(code[*ip]) | uint32(code[*ip+1])<<8 | uint32(code[*ip+2])<<16 | uint32(code[*ip+3])<<24
	*ip += 4
	return v
}

func readI32(code []byte, ip *int) int32 { return int32(readU32(code, ip)) }

func readU64(code []byte, ip *int) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(code[*ip+i]) << (8 * i)
	}
	*ip += 8
	return v
}

// slotOffset reads a Near (u8) or Far (u32) slot offset immediate.
func slotOffset(code []byte, ip *int, near bool) uint32 {
	if near {
		return uint32(readU8(code, ip))
	}
	return readU32(code, ip)
}

func (m *machine) pop() uint64 {
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

func (m *machine) push(v uint64) { m.stack = append(m.stack, v) }

func (m *machine) top() uint64 { return m.stack[len(m.stack)-1] }

// run executes f's bytecode to completion, leaving its results on top
// of m.stack. FP is f.fp, SP is len(m.stack), IP is f.ip; the active
// memory base is read directly off f.fn.Module.Memory since this engine
// has no multi-memory support to cache a selected index for.
func (m *machine) run(ctx context.Context, f *frame) {
	code := f.compiled.Code
	for {
		op := wazeroir.Op(code[f.ip])
		f.ip++

		switch op {
		case wazeroir.OpUnreachable:
			panic(wasmruntime.ErrRuntimeUnreachable)

		case wazeroir.OpEntry:
			n := readU32(code, &f.ip)
			for i := uint32(0); i < n; i++ {
				m.push(0)
			}

		case wazeroir.OpJumpShort:
			rel := readI8(code, &f.ip)
			f.ip += int(rel)
		case wazeroir.OpJumpLong:
			rel := readI32(code, &f.ip)
			f.ip += int(rel)

		case wazeroir.OpIfTrueJumpShort:
			rel := readI8(code, &f.ip)
			if m.pop() != 0 {
				f.ip += int(rel)
			}
		case wazeroir.OpIfTrueJumpLong:
			rel := readI32(code, &f.ip)
			if m.pop() != 0 {
				f.ip += int(rel)
			}
		case wazeroir.OpIfFalseJumpShort:
			rel := readI8(code, &f.ip)
			if m.pop() == 0 {
				f.ip += int(rel)
			}
		case wazeroir.OpIfFalseJumpLong:
			rel := readI32(code, &f.ip)
			if m.pop() == 0 {
				f.ip += int(rel)
			}

		case wazeroir.OpJumpTable:
			n := readU32(code, &f.ip)
			idx := uint32(m.pop())
			if idx > n {
				idx = n // last entry is the default
			}
			// Each 4-byte entry's offset is relative to the byte
			// following itself (compileBrTable's convention), so seek to
			// the selected entry, read it (which advances past it), and
			// apply the offset from there.
			tableStart := f.ip
			f.ip = tableStart + int(idx)*4
			rel := readI32(code, &f.ip)
			f.ip += int(rel)

		case wazeroir.OpReturnFew:
			n := int(readU8(code, &f.ip))
			m.doReturn(f, n)
			return
		case wazeroir.OpReturnMany:
			n := int(readU32(code, &f.ip))
			m.doReturn(f, n)
			return

		case wazeroir.OpCall, wazeroir.OpCallHost:
			idx := readU32(code, &f.ip)
			target := f.compiled.Refs[idx].(*wasm.FunctionInstance)
			m.invoke(ctx, target)

		case wazeroir.OpCallIndirect:
			expectedTypeID := readU32(code, &f.ip)
			tableIdx := readU32(code, &f.ip)
			table := f.compiled.Refs[tableIdx].(*wasm.TableInstance)
			elemIdx := uint32(m.pop())
			if elemIdx >= uint32(len(table.Elements)) {
				panic(wasmruntime.ErrRuntimeInvalidTableAccess)
			}
			target := table.Elements[elemIdx]
			if target == nil {
				panic(wasmruntime.ErrRuntimeIndirectCallNullReference)
			}
			if target.TypeIndex != expectedTypeID {
				panic(wasmruntime.ErrRuntimeIndirectCallTypeMismatch)
			}
			m.invoke(ctx, target)

		case wazeroir.OpDrop32, wazeroir.OpDrop64:
			m.pop()

		case wazeroir.OpSelect32, wazeroir.OpSelect64:
			cond := m.pop()
			b := m.pop()
			a := m.pop()
			if cond != 0 {
				m.push(a)
			} else {
				m.push(b)
			}

		case wazeroir.OpPick:
			depth := readU32(code, &f.ip)
			m.push(m.stack[len(m.stack)-1-int(depth)])

		case wazeroir.OpLocalGet32Near, wazeroir.OpLocalGet64Near, wazeroir.OpLocalGet32Far, wazeroir.OpLocalGet64Far:
			near := op == wazeroir.OpLocalGet32Near || op == wazeroir.OpLocalGet64Near
			off := slotOffset(code, &f.ip, near)
			m.push(m.stack[f.fp+int(off)])

		case wazeroir.OpLocalSet32Near, wazeroir.OpLocalSet64Near, wazeroir.OpLocalSet32Far, wazeroir.OpLocalSet64Far:
			near := op == wazeroir.OpLocalSet32Near || op == wazeroir.OpLocalSet64Near
			off := slotOffset(code, &f.ip, near)
			m.stack[f.fp+int(off)] = m.pop()

		case wazeroir.OpLocalTee32Near, wazeroir.OpLocalTee64Near, wazeroir.OpLocalTee32Far, wazeroir.OpLocalTee64Far:
			near := op == wazeroir.OpLocalTee32Near || op == wazeroir.OpLocalTee64Near
			off := slotOffset(code, &f.ip, near)
			m.stack[f.fp+int(off)] = m.top()

		case wazeroir.OpGlobalGet32, wazeroir.OpGlobalGet64:
			idx := readU32(code, &f.ip)
			g := f.compiled.Refs[idx].(*wasm.GlobalInstance)
			m.push(g.Val)

		case wazeroir.OpGlobalSet32, wazeroir.OpGlobalSet64:
			idx := readU32(code, &f.ip)
			g := f.compiled.Refs[idx].(*wasm.GlobalInstance)
			g.Val = m.pop()

		case wazeroir.OpI32ConstShort:
			v := readI8(code, &f.ip)
			m.push(uint64(uint32(int32(v))))
		case wazeroir.OpI32ConstLong:
			v := readU32(code, &f.ip)
			m.push(uint64(v))
		case wazeroir.OpI64ConstShort:
			v := readI8(code, &f.ip)
			m.push(uint64(int64(v)))
		case wazeroir.OpI64ConstLong:
			v := readU64(code, &f.ip)
			m.push(v)
		case wazeroir.OpF32Const:
			v := readU32(code, &f.ip)
			m.push(uint64(v))
		case wazeroir.OpF64Const:
			v := readU64(code, &f.ip)
			m.push(v)

		case wazeroir.OpRefNull:
			m.push(0)
		case wazeroir.OpRefIsNull:
			if m.pop() == 0 {
				m.push(1)
			} else {
				m.push(0)
			}
		case wazeroir.OpRefFunc:
			idx := readU32(code, &f.ip)
			fn := f.compiled.Refs[idx].(*wasm.FunctionInstance)
			m.push(wasm.FuncRefToVal(fn))

		case wazeroir.OpNumeric:
			sub := readU8(code, &f.ip)
			m.execNumeric(wazeroir.NumOp(sub))

		default:
			m.runMemoryAndTableOp(ctx, f, op)
		}
	}
}

// doReturn copies the top n result slots down to the frame's base,
// discarding its locals and any leftover operand-stack slack.
func (m *machine) doReturn(f *frame, n int) {
	src := len(m.stack) - n
	copy(m.stack[f.fp:], m.stack[src:])
	m.stack = m.stack[:f.fp+n]
}

