package wasmcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PreyMa/wasmcore/api"
	"github.com/PreyMa/wasmcore/internal/wasmruntime"
)

// S1: identity/arithmetic — load a module, link it alone, call an
// exported function, check the result.
func TestRuntimeAddFunction(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", addModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("math", "add")
	require.NoError(t, err)
	require.Equal(t, []byte{valTypeI32, valTypeI32}, fn.ParamTypes())
	require.Equal(t, []byte{valTypeI32}, fn.ResultTypes())

	results, err := fn.RunFunction(context.Background(), 2, 3)
	require.NoError(t, err)
	require.Equal(t, []uint64{5}, results)
}

// S2: recursion — a self-recursive factorial exercises the call stack
// across multiple frames.
func TestRuntimeFactorialRecursion(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", factorialModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("math", "factorial")
	require.NoError(t, err)

	results, err := fn.RunFunction(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, []uint64{120}, results)
}

// S4: divide-by-zero traps with the documented sentinel, wrapped so
// errors.Is still matches it.
func TestRuntimeDivideByZeroTraps(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", divModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("math", "divz")
	require.NoError(t, err)

	_, err = fn.RunFunction(context.Background(), 10, 0)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeIntegerDivideByZero)
}

func TestRuntimeDivideByZeroNoTrap(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", divModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("math", "divz")
	require.NoError(t, err)

	results, err := fn.RunFunction(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Equal(t, []uint64{5}, results)
}

// S5: host import — a host module exports a function the linked Wasm
// module imports and calls.
func TestRuntimeHostImport(t *testing.T) {
	rt := NewRuntime(nil)

	var sawArg uint64
	builder := NewHostModuleBuilder()
	builder.NewFunctionBuilder().
		WithSignature([]api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		WithFunc(func(_ *ModuleHandle, stack []uint64) {
			sawArg = stack[0]
			stack[0] = stack[0] * 2
		}).
		Export("double")

	_, err := rt.RegisterHostModule("env", builder)
	require.NoError(t, err)

	require.NoError(t, rt.LoadModule("caller", importerModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("caller", "calldouble")
	require.NoError(t, err)

	results, err := fn.RunFunction(context.Background(), 21)
	require.NoError(t, err)
	require.Equal(t, []uint64{42}, results)
	require.EqualValues(t, 21, sawArg)
}

func TestRuntimeLoadModuleRejectsDuplicateName(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", addModuleBinary()))
	err := rt.LoadModule("math", addModuleBinary())
	require.Error(t, err)
}

func TestRuntimeCompileAndLinkIsOneShot(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", addModuleBinary()))
	require.NoError(t, rt.CompileAndLink())
	require.Error(t, rt.CompileAndLink())
}

func TestRuntimeLoadModuleAfterLinkFails(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", addModuleBinary()))
	require.NoError(t, rt.CompileAndLink())
	require.Error(t, rt.LoadModule("more", addModuleBinary()))
}

func TestRuntimeFunctionByNameUnknownModule(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", addModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	_, err := rt.FunctionByName("nope", "add")
	require.Error(t, err)
}

func TestRuntimeFunctionByNameUnknownFunction(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", addModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	_, err := rt.FunctionByName("math", "nope")
	require.Error(t, err)
}

func TestRuntimeRunFunctionArgCountMismatch(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", addModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("math", "add")
	require.NoError(t, err)

	_, err = fn.RunFunction(context.Background(), 1)
	require.Error(t, err)
}

// S3: indirect call — a funcref table dispatches to a matching-signature
// target, a mismatched-signature target, and a null slot.
func TestRuntimeCallIndirectDispatch(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("tbl", indirectCallModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("tbl", "callIndirect")
	require.NoError(t, err)

	results, err := fn.RunFunction(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, []uint64{42}, results)
}

func TestRuntimeCallIndirectTypeMismatchTraps(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("tbl", indirectCallModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("tbl", "callIndirect")
	require.NoError(t, err)

	_, err = fn.RunFunction(context.Background(), 1)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeIndirectCallTypeMismatch)
}

func TestRuntimeCallIndirectNullReferenceTraps(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("tbl", indirectCallModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("tbl", "callIndirect")
	require.NoError(t, err)

	_, err = fn.RunFunction(context.Background(), 2)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeIndirectCallNullReference)
}

// S6: memory growth, memory.copy, and the out-of-bounds trap.
func TestRuntimeMemoryGrowAndCopy(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("mem", memoryGrowCopyModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	grow, err := rt.FunctionByName("mem", "grow")
	require.NoError(t, err)
	poke, err := rt.FunctionByName("mem", "poke")
	require.NoError(t, err)
	peek, err := rt.FunctionByName("mem", "peek")
	require.NoError(t, err)
	cp, err := rt.FunctionByName("mem", "copy")
	require.NoError(t, err)

	results, err := grow.RunFunction(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, results) // previous size was 1 page

	_, err = poke.RunFunction(context.Background(), 0, 0x42)
	require.NoError(t, err)

	_, err = cp.RunFunction(context.Background(), 100, 0, 1)
	require.NoError(t, err)

	results, err = peek.RunFunction(context.Background(), 100)
	require.NoError(t, err)
	require.EqualValues(t, 0x42, results[0])
}

func TestRuntimeMemoryCopyOutOfBoundsTraps(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("mem", memoryGrowCopyModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	cp, err := rt.FunctionByName("mem", "copy")
	require.NoError(t, err)

	// One page is 65536 bytes; copying a run starting near the end past
	// the buffer's edge must trap rather than silently clip.
	_, err = cp.RunFunction(context.Background(), 0, 65500, 100)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
}

func TestRuntimeMemoryGrowBeyondMaxFails(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("mem", memoryGrowCopyModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	grow, err := rt.FunctionByName("mem", "grow")
	require.NoError(t, err)

	// Max is 2 pages; growing by 5 from the initial 1 page must fail
	// (memory.grow returns -1) rather than trap or silently succeed.
	results, err := grow.RunFunction(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, []uint64{uint64(uint32(int32(-1)))}, results)
}

// S7: value-stack overflow — a function whose compiled operand-stack
// height exceeds the configured ceiling traps instead of growing the
// shared stack without bound.
func TestRuntimeValueStackOverflowTraps(t *testing.T) {
	rt := NewRuntime(NewRuntimeConfig().WithMaxStackCells(64))
	require.NoError(t, rt.LoadModule("deep", deepStackModuleBinary(3000)))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("deep", "deepstack")
	require.NoError(t, err)

	_, err = fn.RunFunction(context.Background())
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeValueStackOverflow)
}

func TestRuntimeValueStackWithinBudgetSucceeds(t *testing.T) {
	rt := NewRuntime(NewRuntimeConfig().WithMaxStackCells(64))
	require.NoError(t, rt.LoadModule("deep", deepStackModuleBinary(10)))
	require.NoError(t, rt.CompileAndLink())

	fn, err := rt.FunctionByName("deep", "deepstack")
	require.NoError(t, err)

	results, err := fn.RunFunction(context.Background())
	require.NoError(t, err)
	require.Equal(t, []uint64{0}, results)
}

func TestRuntimeModuleHandleExportedFunction(t *testing.T) {
	rt := NewRuntime(nil)
	require.NoError(t, rt.LoadModule("math", addModuleBinary()))
	require.NoError(t, rt.CompileAndLink())

	mod := rt.Module("math")
	require.NotNil(t, mod)
	require.Equal(t, "math", mod.Name())

	fn := mod.ExportedFunction("add")
	require.NotNil(t, fn)

	results, err := fn.RunFunction(context.Background(), 4, 6)
	require.NoError(t, err)
	require.Equal(t, []uint64{10}, results)

	require.Nil(t, mod.ExportedFunction("missing"))
}
