package wasmcore

import (
	"context"
	"math"

	"github.com/PreyMa/wasmcore/api"
	"github.com/PreyMa/wasmcore/internal/wasm"
)

// ModuleHandle is a module's post-link view: its name, exported
// functions, and, for host modules, the memory/table/globals the
// embedder created for it (SUPPLEMENTED FEATURES: table/memory exported
// accessors on the host-module builder handle).
type ModuleHandle struct {
	instance *wasm.ModuleInstance
	runtime  *Runtime
}

// Name is the name this module was registered under.
func (h *ModuleHandle) Name() string { return h.instance.Name }

func (h *ModuleHandle) String() string { return "module[" + h.instance.Name + "]" }

// ExportedFunction returns a function exported from this module, or nil.
func (h *ModuleHandle) ExportedFunction(name string) *FunctionHandle {
	fn, err := h.instance.ExportedFunction(name)
	if err != nil {
		return nil
	}
	return &FunctionHandle{fn: fn, runtime: h.runtime}
}

// ExportedMemory returns the memory exported under name, or nil.
func (h *ModuleHandle) ExportedMemory(name string) *MemoryHandle {
	mem, err := h.instance.ExportedMemory(name)
	if err != nil {
		return nil
	}
	return &MemoryHandle{mem: mem}
}

// ExportedGlobal returns the global exported under name, or nil.
func (h *ModuleHandle) ExportedGlobal(name string) *GlobalHandle {
	g, err := h.instance.ExportedGlobal(name)
	if err != nil {
		return nil
	}
	return &GlobalHandle{global: g}
}

// ExportedTable returns the table exported under name, or nil.
func (h *ModuleHandle) ExportedTable(name string) *TableHandle {
	t, err := h.instance.ExportedTable(name)
	if err != nil {
		return nil
	}
	return &TableHandle{table: t}
}

// MemoryHandle gives an embedder restricted, write-through access to a
// module's linear memory (api.Memory).
type MemoryHandle struct {
	mem *wasm.MemoryInstance
}

var _ api.Memory = (*MemoryHandle)(nil)

func (m *MemoryHandle) Size(context.Context) uint32 { return uint32(len(m.mem.Buffer)) }

func (m *MemoryHandle) Grow(_ context.Context, deltaPages uint32) (uint32, bool) {
	prev := m.mem.Grow(deltaPages)
	if prev < 0 {
		return 0, false
	}
	return uint32(prev), true
}

func (m *MemoryHandle) bound(offset, size uint32) ([]byte, bool) {
	end := uint64(offset) + uint64(size)
	if end > uint64(len(m.mem.Buffer)) {
		return nil, false
	}
	return m.mem.Buffer[offset:end], true
}

func (m *MemoryHandle) ReadByte(_ context.Context, offset uint32) (byte, bool) {
	b, ok := m.bound(offset, 1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

func (m *MemoryHandle) ReadUint32Le(_ context.Context, offset uint32) (uint32, bool) {
	b, ok := m.bound(offset, 4)
	if !ok {
		return 0, false
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, true
}

func (m *MemoryHandle) ReadUint64Le(_ context.Context, offset uint32) (uint64, bool) {
	b, ok := m.bound(offset, 8)
	if !ok {
		return 0, false
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v, true
}

func (m *MemoryHandle) ReadFloat32Le(ctx context.Context, offset uint32) (float32, bool) {
	v, ok := m.ReadUint32Le(ctx, offset)
	return math.Float32frombits(v), ok
}

func (m *MemoryHandle) ReadFloat64Le(ctx context.Context, offset uint32) (float64, bool) {
	v, ok := m.ReadUint64Le(ctx, offset)
	return math.Float64frombits(v), ok
}

func (m *MemoryHandle) Read(_ context.Context, offset, byteCount uint32) ([]byte, bool) {
	return m.bound(offset, byteCount)
}

func (m *MemoryHandle) WriteByte(_ context.Context, offset uint32, v byte) bool {
	b, ok := m.bound(offset, 1)
	if !ok {
		return false
	}
	b[0] = v
	return true
}

func (m *MemoryHandle) WriteUint32Le(_ context.Context, offset, v uint32) bool {
	b, ok := m.bound(offset, 4)
	if !ok {
		return false
	}
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	return true
}

func (m *MemoryHandle) WriteUint64Le(_ context.Context, offset uint32, v uint64) bool {
	b, ok := m.bound(offset, 8)
	if !ok {
		return false
	}
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return true
}

func (m *MemoryHandle) WriteFloat32Le(ctx context.Context, offset uint32, v float32) bool {
	return m.WriteUint32Le(ctx, offset, math.Float32bits(v))
}

func (m *MemoryHandle) WriteFloat64Le(ctx context.Context, offset uint32, v float64) bool {
	return m.WriteUint64Le(ctx, offset, math.Float64bits(v))
}

func (m *MemoryHandle) Write(_ context.Context, offset uint32, v []byte) bool {
	b, ok := m.bound(offset, uint32(len(v)))
	if !ok {
		return false
	}
	copy(b, v)
	return true
}

// GlobalHandle exposes a module's global variable (api.Global /
// api.MutableGlobal).
type GlobalHandle struct {
	global *wasm.GlobalInstance
}

var (
	_ api.Global        = (*GlobalHandle)(nil)
	_ api.MutableGlobal  = (*GlobalHandle)(nil)
)

func (g *GlobalHandle) String() string { return api.ValueTypeName(g.global.Type.ValType) }

func (g *GlobalHandle) Type() api.ValueType { return g.global.Type.ValType }

func (g *GlobalHandle) Get(context.Context) uint64 { return g.global.Val }

func (g *GlobalHandle) Set(_ context.Context, v uint64) { g.global.Val = v }

// TableHandle exposes a module's table (api.Table).
type TableHandle struct {
	table *wasm.TableInstance
}

var _ api.Table = (*TableHandle)(nil)

func (t *TableHandle) Size(context.Context) uint32 { return t.table.Size() }

func (t *TableHandle) Grow(_ context.Context, delta uint32) (uint32, bool) {
	prev := t.table.Grow(delta)
	if prev < 0 {
		return 0, false
	}
	return uint32(prev), true
}
