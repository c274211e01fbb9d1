// Package interpreter is the stack-machine engine that executes the
// internal bytecode internal/wazeroir compiles a Wasm function body
// into. It mirrors the teacher engine's callEngine: one shared value
// stack plus an explicit call-frame slice, panicking with a
// internal/wasmruntime sentinel on a trap and recovering it at the
// Call boundary into a plain Go error.
package interpreter

import (
	"context"
	"fmt"

	wasm "github.com/PreyMa/wasmcore/internal/wasm"
	"github.com/PreyMa/wasmcore/internal/wasmruntime"
	wazeroir "github.com/PreyMa/wasmcore/internal/wazeroir"
)

// defaultMaxCallDepth bounds recursion so a runaway Wasm program traps
// instead of exhausting the host goroutine's stack.
const defaultMaxCallDepth = 2048

// defaultMaxStackCells bounds the shared value stack's growth so a
// function with a deep operand stack traps even when its call nesting
// stays shallow. 2048 uint64 cells is 16 KiB, the private value-stack
// buffer size a single-threaded interpreter can comfortably keep per call.
const defaultMaxStackCells = 2048

// Engine runs compiled functions. It holds no per-call state itself —
// every Call gets a fresh machine — so one Engine is safe to share
// across goroutines.
type Engine struct {
	maxCallDepth  int
	maxStackCells int
}

// NewEngine constructs an Engine with the default call-depth and
// value-stack ceilings.
func NewEngine() *Engine {
	return &Engine{maxCallDepth: defaultMaxCallDepth, maxStackCells: defaultMaxStackCells}
}

// NewEngineWithMaxCallDepth constructs an Engine whose call-frame
// nesting is bounded by depth instead of defaultMaxCallDepth, wired from
// RuntimeConfig.WithMaxCallDepth. Its value-stack ceiling stays at
// defaultMaxStackCells.
func NewEngineWithMaxCallDepth(depth int) *Engine {
	return NewEngineWithLimits(depth, defaultMaxStackCells)
}

// NewEngineWithLimits constructs an Engine whose call-depth and
// value-stack ceilings are both configurable, wired from
// RuntimeConfig.WithMaxCallDepth and RuntimeConfig.WithMaxStackCells.
// A non-positive argument falls back to that limit's default.
func NewEngineWithLimits(maxCallDepth, maxStackCells int) *Engine {
	if maxCallDepth <= 0 {
		maxCallDepth = defaultMaxCallDepth
	}
	if maxStackCells <= 0 {
		maxStackCells = defaultMaxStackCells
	}
	return &Engine{maxCallDepth: maxCallDepth, maxStackCells: maxStackCells}
}

// frame is one call's bookkeeping: its function, the decoded bytecode
// it's executing, the instruction pointer, and the base stack index its
// locals begin at. Implemented as a Go struct rather than stack-encoded
// raw bytes — the safe, idiomatic-Go rendering of the pointer-based
// frame header the original design describes.
type frame struct {
	fn       *wasm.FunctionInstance
	compiled *wazeroir.CompiledFunction
	ip       int
	fp       int
}

// machine is the private per-Call execution state: one value stack
// shared by every frame on the call chain, and the frame chain itself.
type machine struct {
	stack         []uint64
	frames        []*frame
	maxCallDepth  int
	maxStackCells int
}

// Call invokes fn with params already in Wasm calling-convention order,
// returning its results or a wrapped trap/error.
func (e *Engine) Call(ctx context.Context, fn *wasm.FunctionInstance, params []uint64) (results []uint64, err error) {
	if len(params) != len(fn.Type.Params) {
		return nil, fmt.Errorf("wasm: expected %d params, got %d", len(fn.Type.Params), len(params))
	}

	m := &machine{stack: make([]uint64, 0, 64), maxCallDepth: e.maxCallDepth, maxStackCells: e.maxStackCells}

	defer func() {
		if v := recover(); v != nil {
			frames := make([]string, len(m.frames))
			for i, f := range m.frames {
				frames[len(m.frames)-1-i] = f.fn.Name
			}
			err = wasmruntime.RecoverTrap(v, frames)
		}
	}()

	m.stack = append(m.stack, params...)
	m.invoke(ctx, fn)

	nres := len(fn.Type.Results)
	results = make([]uint64, nres)
	copy(results, m.stack[len(m.stack)-nres:])
	return results, nil
}

// invoke runs fn to completion, leaving its results on top of m.stack.
// It is also the entry point host-function trampolines call back
// through for an imported Wasm function (re-entrant from Go).
func (m *machine) invoke(ctx context.Context, fn *wasm.FunctionInstance) {
	if fn.Host != nil {
		m.invokeHost(ctx, fn)
		return
	}
	if len(m.frames) >= m.maxCallDepth {
		panic(wasmruntime.ErrRuntimeCallStackOverflow)
	}
	compiled := fn.Bytecode.(*wazeroir.CompiledFunction)
	fp := len(m.stack) - int(compiled.NumParamCells)
	if fp+int(compiled.MaxStackCells) > m.maxStackCells {
		panic(wasmruntime.ErrRuntimeValueStackOverflow)
	}
	f := &frame{fn: fn, compiled: compiled, fp: fp}
	m.frames = append(m.frames, f)
	m.run(ctx, f)
	m.frames = m.frames[:len(m.frames)-1]
}

// invokeHost bridges into a native callback via the stack-in/stack-out
// trampoline convention: the callback reads its arguments from the low
// indices of a scratch slice and overwrites them with results.
func (m *machine) invokeHost(ctx context.Context, fn *wasm.FunctionInstance) {
	nparams, nresults := len(fn.Type.Params), len(fn.Type.Results)
	width := nparams
	if nresults > width {
		width = nresults
	}
	scratch := make([]uint64, width)
	copy(scratch, m.stack[len(m.stack)-nparams:])
	m.stack = m.stack[:len(m.stack)-nparams]

	var mod *wasm.ModuleInstance
	var mem *wasm.MemoryInstance
	if len(m.frames) > 0 {
		mod = m.frames[len(m.frames)-1].fn.Module
		mem = mod.Memory
	} else {
		mod = fn.Module
		if mod != nil {
			mem = mod.Memory
		}
	}

	fn.Host(wasm.NewCallContext(mem, mod), scratch)
	m.stack = append(m.stack, scratch[:nresults]...)
	_ = ctx
}
