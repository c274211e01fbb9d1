package interpreter

import (
	"context"

	wasm "github.com/PreyMa/wasmcore/internal/wasm"
	"github.com/PreyMa/wasmcore/internal/wasmruntime"
	wazeroir "github.com/PreyMa/wasmcore/internal/wazeroir"
)

// runMemoryAndTableOp executes every table op, memory load/store, and
// bulk memory/table op — split out of run's main switch to keep that
// dispatch loop's control-flow cases readable.
func (m *machine) runMemoryAndTableOp(ctx context.Context, f *frame, op wazeroir.Op) {
	code := f.compiled.Code
	mem := f.fn.Module.Memory

	switch op {
	case wazeroir.OpTableGet:
		idx := readU32(code, &f.ip)
		t := f.compiled.Refs[idx].(*wasm.TableInstance)
		i := uint32(m.pop())
		if i >= t.Size() {
			panic(wasmruntime.ErrRuntimeInvalidTableAccess)
		}
		m.push(wasm.FuncRefToVal(t.Elements[i]))

	case wazeroir.OpTableSet:
		idx := readU32(code, &f.ip)
		t := f.compiled.Refs[idx].(*wasm.TableInstance)
		v := m.pop()
		i := uint32(m.pop())
		if i >= t.Size() {
			panic(wasmruntime.ErrRuntimeInvalidTableAccess)
		}
		t.Elements[i] = wasm.ValToFuncRef(v)

	case wazeroir.OpTableSize:
		idx := readU32(code, &f.ip)
		t := f.compiled.Refs[idx].(*wasm.TableInstance)
		m.push(uint64(t.Size()))

	case wazeroir.OpTableGrow:
		idx := readU32(code, &f.ip)
		t := f.compiled.Refs[idx].(*wasm.TableInstance)
		n := uint32(m.pop())
		v := m.pop()
		prev := t.Grow(n)
		if prev >= 0 {
			fn := wasm.ValToFuncRef(v)
			for i := uint32(prev); i < uint32(prev)+n; i++ {
				t.Elements[i] = fn
			}
		}
		m.push(uint64(uint32(prev)))

	case wazeroir.OpTableFill:
		idx := readU32(code, &f.ip)
		t := f.compiled.Refs[idx].(*wasm.TableInstance)
		n := uint32(m.pop())
		v := m.pop()
		i := uint32(m.pop())
		if uint64(i)+uint64(n) > uint64(t.Size()) {
			panic(wasmruntime.ErrRuntimeInvalidTableAccess)
		}
		fn := wasm.ValToFuncRef(v)
		for j := uint32(0); j < n; j++ {
			t.Elements[i+j] = fn
		}

	case wazeroir.OpTableCopy:
		dstIdx := readU32(code, &f.ip)
		srcIdx := readU32(code, &f.ip)
		dst := f.compiled.Refs[dstIdx].(*wasm.TableInstance)
		src := f.compiled.Refs[srcIdx].(*wasm.TableInstance)
		n := uint32(m.pop())
		s := uint32(m.pop())
		d := uint32(m.pop())
		if uint64(s)+uint64(n) > uint64(src.Size()) || uint64(d)+uint64(n) > uint64(dst.Size()) {
			panic(wasmruntime.ErrRuntimeInvalidTableAccess)
		}
		copyTableOverlap(dst.Elements, src.Elements, d, s, n)

	case wazeroir.OpTableInit:
		tableIdx := readU32(code, &f.ip)
		elemIdx := readU32(code, &f.ip)
		t := f.compiled.Refs[tableIdx].(*wasm.TableInstance)
		e := f.compiled.Refs[elemIdx].(*wasm.LinkedElement)
		n := uint32(m.pop())
		s := uint32(m.pop())
		d := uint32(m.pop())
		if e.Dropped && n != 0 {
			panic(wasmruntime.ErrRuntimeElementOrDataSegmentDropped)
		}
		if uint64(s)+uint64(n) > uint64(len(e.Refs)) || uint64(d)+uint64(n) > uint64(t.Size()) {
			panic(wasmruntime.ErrRuntimeInvalidTableAccess)
		}
		copy(t.Elements[d:d+n], e.Refs[s:s+n])

	case wazeroir.OpElemDrop:
		idx := readU32(code, &f.ip)
		e := f.compiled.Refs[idx].(*wasm.LinkedElement)
		e.Dropped = true
		e.Refs = nil

	case wazeroir.OpMemorySize:
		m.push(uint64(mem.PageSize()))

	case wazeroir.OpMemoryGrow:
		n := uint32(m.pop())
		m.push(uint64(uint32(mem.Grow(n))))

	case wazeroir.OpMemoryInit:
		idx := readU32(code, &f.ip)
		d := f.compiled.Refs[idx].(*wasm.LinkedData)
		n := uint32(m.pop())
		s := uint32(m.pop())
		dst := uint32(m.pop())
		if d.Dropped && n != 0 {
			panic(wasmruntime.ErrRuntimeElementOrDataSegmentDropped)
		}
		if uint64(s)+uint64(n) > uint64(len(d.Init)) || uint64(dst)+uint64(n) > uint64(len(mem.Buffer)) {
			panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
		}
		copy(mem.Buffer[dst:dst+n], d.Init[s:s+n])

	case wazeroir.OpDataDrop:
		idx := readU32(code, &f.ip)
		d := f.compiled.Refs[idx].(*wasm.LinkedData)
		d.Dropped = true
		d.Init = nil

	case wazeroir.OpMemoryCopy:
		n := uint32(m.pop())
		s := uint32(m.pop())
		d := uint32(m.pop())
		if uint64(s)+uint64(n) > uint64(len(mem.Buffer)) || uint64(d)+uint64(n) > uint64(len(mem.Buffer)) {
			panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
		}
		copy(mem.Buffer[d:d+n], mem.Buffer[s:s+n]) // copy handles overlap correctly

	case wazeroir.OpMemoryFill:
		n := uint32(m.pop())
		v := byte(m.pop())
		d := uint32(m.pop())
		if uint64(d)+uint64(n) > uint64(len(mem.Buffer)) {
			panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
		}
		buf := mem.Buffer[d : d+n]
		for i := range buf {
			buf[i] = v
		}

	default:
		m.runMemoryAccess(f, op, mem)
	}
}

func copyTableOverlap(dst, src []*wasm.FunctionInstance, d, s, n uint32) {
	if d <= s {
		for i := uint32(0); i < n; i++ {
			dst[d+i] = src[s+i]
		}
	} else {
		for i := n; i > 0; i-- {
			dst[d+i-1] = src[s+i-1]
		}
	}
}

// bound checks an [addr, addr+size) access against mem and returns the
// slice, or traps with ErrRuntimeOutOfBoundsMemoryAccess.
func bound(mem *wasm.MemoryInstance, addr uint32, offset uint32, size uint32) []byte {
	eff := uint64(addr) + uint64(offset)
	end := eff + uint64(size)
	if end > uint64(len(mem.Buffer)) {
		panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	return mem.Buffer[eff:end]
}

func (m *machine) runMemoryAccess(f *frame, op wazeroir.Op, mem *wasm.MemoryInstance) {
	code := f.compiled.Code

	loadOffset := func(near bool) uint32 { return slotOffset(code, &f.ip, near) }

	switch op {
	case wazeroir.OpI32LoadNear, wazeroir.OpI32LoadFar:
		off := loadOffset(op == wazeroir.OpI32LoadNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 4)
		m.push(uint64(le32(b)))
	case wazeroir.OpI64LoadNear, wazeroir.OpI64LoadFar:
		off := loadOffset(op == wazeroir.OpI64LoadNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 8)
		m.push(le64(b))
	case wazeroir.OpF32LoadNear, wazeroir.OpF32LoadFar:
		off := loadOffset(op == wazeroir.OpF32LoadNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 4)
		m.push(uint64(le32(b)))
	case wazeroir.OpF64LoadNear, wazeroir.OpF64LoadFar:
		off := loadOffset(op == wazeroir.OpF64LoadNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 8)
		m.push(le64(b))

	case wazeroir.OpI32Load8SNear, wazeroir.OpI32Load8SFar:
		off := loadOffset(op == wazeroir.OpI32Load8SNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 1)
		m.push(uint64(uint32(int32(int8(b[0])))))
	case wazeroir.OpI32Load8UNear, wazeroir.OpI32Load8UFar:
		off := loadOffset(op == wazeroir.OpI32Load8UNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 1)
		m.push(uint64(b[0]))
	case wazeroir.OpI32Load16SNear, wazeroir.OpI32Load16SFar:
		off := loadOffset(op == wazeroir.OpI32Load16SNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 2)
		m.push(uint64(uint32(int32(int16(le16(b))))))
	case wazeroir.OpI32Load16UNear, wazeroir.OpI32Load16UFar:
		off := loadOffset(op == wazeroir.OpI32Load16UNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 2)
		m.push(uint64(le16(b)))

	case wazeroir.OpI64Load8SNear, wazeroir.OpI64Load8SFar:
		off := loadOffset(op == wazeroir.OpI64Load8SNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 1)
		m.push(uint64(int64(int8(b[0]))))
	case wazeroir.OpI64Load8UNear, wazeroir.OpI64Load8UFar:
		off := loadOffset(op == wazeroir.OpI64Load8UNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 1)
		m.push(uint64(b[0]))
	case wazeroir.OpI64Load16SNear, wazeroir.OpI64Load16SFar:
		off := loadOffset(op == wazeroir.OpI64Load16SNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 2)
		m.push(uint64(int64(int16(le16(b)))))
	case wazeroir.OpI64Load16UNear, wazeroir.OpI64Load16UFar:
		off := loadOffset(op == wazeroir.OpI64Load16UNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 2)
		m.push(uint64(le16(b)))
	case wazeroir.OpI64Load32SNear, wazeroir.OpI64Load32SFar:
		off := loadOffset(op == wazeroir.OpI64Load32SNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 4)
		m.push(uint64(int64(int32(le32(b)))))
	case wazeroir.OpI64Load32UNear, wazeroir.OpI64Load32UFar:
		off := loadOffset(op == wazeroir.OpI64Load32UNear)
		addr := uint32(m.pop())
		b := bound(mem, addr, off, 4)
		m.push(uint64(le32(b)))

	case wazeroir.OpI32StoreNear, wazeroir.OpI32StoreFar:
		off := loadOffset(op == wazeroir.OpI32StoreNear)
		v := uint32(m.pop())
		addr := uint32(m.pop())
		putLE32(bound(mem, addr, off, 4), v)
	case wazeroir.OpI64StoreNear, wazeroir.OpI64StoreFar:
		off := loadOffset(op == wazeroir.OpI64StoreNear)
		v := m.pop()
		addr := uint32(m.pop())
		putLE64(bound(mem, addr, off, 8), v)
	case wazeroir.OpF32StoreNear, wazeroir.OpF32StoreFar:
		off := loadOffset(op == wazeroir.OpF32StoreNear)
		v := uint32(m.pop())
		addr := uint32(m.pop())
		putLE32(bound(mem, addr, off, 4), v)
	case wazeroir.OpF64StoreNear, wazeroir.OpF64StoreFar:
		off := loadOffset(op == wazeroir.OpF64StoreNear)
		v := m.pop()
		addr := uint32(m.pop())
		putLE64(bound(mem, addr, off, 8), v)
	case wazeroir.OpI32Store8Near, wazeroir.OpI32Store8Far:
		off := loadOffset(op == wazeroir.OpI32Store8Near)
		v := byte(m.pop())
		addr := uint32(m.pop())
		bound(mem, addr, off, 1)[0] = v
	case wazeroir.OpI32Store16Near, wazeroir.OpI32Store16Far:
		off := loadOffset(op == wazeroir.OpI32Store16Near)
		v := uint16(m.pop())
		addr := uint32(m.pop())
		putLE16(bound(mem, addr, off, 2), v)
	case wazeroir.OpI64Store8Near, wazeroir.OpI64Store8Far:
		off := loadOffset(op == wazeroir.OpI64Store8Near)
		v := byte(m.pop())
		addr := uint32(m.pop())
		bound(mem, addr, off, 1)[0] = v
	case wazeroir.OpI64Store16Near, wazeroir.OpI64Store16Far:
		off := loadOffset(op == wazeroir.OpI64Store16Near)
		v := uint16(m.pop())
		addr := uint32(m.pop())
		putLE16(bound(mem, addr, off, 2), v)
	case wazeroir.OpI64Store32Near, wazeroir.OpI64Store32Far:
		off := loadOffset(op == wazeroir.OpI64Store32Near)
		v := uint32(m.pop())
		addr := uint32(m.pop())
		putLE32(bound(mem, addr, off, 4), v)

	default:
		panic(wasmruntime.ErrRuntimeUnreachable)
	}
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func le64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
func putLE16(b []byte, v uint16) { b[0] = byte(v); b[1] = byte(v >> 8) }
func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
func putLE64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
