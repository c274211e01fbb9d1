package interpreter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	wasm "github.com/PreyMa/wasmcore/internal/wasm"
	"github.com/PreyMa/wasmcore/internal/wasmruntime"
	wazeroir "github.com/PreyMa/wasmcore/internal/wazeroir"
)

func u32le(v uint32) []byte { return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)} }

func addFunctionInstance() *wasm.FunctionInstance {
	code := []byte{}
	code = append(code, byte(wazeroir.OpEntry))
	code = append(code, u32le(0)...)
	code = append(code, byte(wazeroir.OpLocalGet32Near), 0)
	code = append(code, byte(wazeroir.OpLocalGet32Near), 1)
	code = append(code, byte(wazeroir.OpNumeric), byte(wazeroir.NumOpI32Add))
	code = append(code, byte(wazeroir.OpReturnFew), 1)

	typ := &wasm.FunctionType{Params: []wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, Results: []wasm.ValType{wasm.ValTypeI32}}
	return &wasm.FunctionInstance{
		Name: "add",
		Type: typ,
		Bytecode: &wazeroir.CompiledFunction{
			Code:           code,
			NumParamCells:  2,
			NumResultCells: 1,
			MaxStackCells:  4,
			Type:           typ,
			Name:           "add",
		},
	}
}

func TestEngineCallAddFunction(t *testing.T) {
	e := NewEngine()
	results, err := e.Call(context.Background(), addFunctionInstance(), []uint64{3, 4})
	require.NoError(t, err)
	require.Equal(t, []uint64{7}, results)
}

func TestEngineCallWrongParamCountErrors(t *testing.T) {
	e := NewEngine()
	_, err := e.Call(context.Background(), addFunctionInstance(), []uint64{3})
	require.Error(t, err)
}

func TestEngineCallStackOverflowTraps(t *testing.T) {
	fn := &wasm.FunctionInstance{Name: "loop", Type: &wasm.FunctionType{}}
	code := []byte{}
	code = append(code, byte(wazeroir.OpEntry))
	code = append(code, u32le(0)...)
	code = append(code, byte(wazeroir.OpCall))
	code = append(code, u32le(0)...) // Refs[0] -> fn itself
	code = append(code, byte(wazeroir.OpReturnFew), 0)
	fn.Bytecode = &wazeroir.CompiledFunction{
		Code:          code,
		Refs:          []interface{}{fn},
		NumParamCells: 0,
		MaxStackCells: 0,
		Type:          fn.Type,
		Name:          "loop",
	}

	e := NewEngineWithLimits(16, 2048)
	_, err := e.Call(context.Background(), fn, nil)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeCallStackOverflow)
}

func TestEngineValueStackOverflowTraps(t *testing.T) {
	code := []byte{byte(wazeroir.OpEntry)}
	code = append(code, u32le(0)...)
	code = append(code, byte(wazeroir.OpReturnFew), 0)
	fn := &wasm.FunctionInstance{
		Name: "deep",
		Type: &wasm.FunctionType{},
		Bytecode: &wazeroir.CompiledFunction{
			Code:          code,
			NumParamCells: 0,
			MaxStackCells: 5000, // exceeds the engine's configured ceiling below
			Type:          &wasm.FunctionType{},
			Name:          "deep",
		},
	}

	e := NewEngineWithLimits(2048, 100)
	_, err := e.Call(context.Background(), fn, nil)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeValueStackOverflow)
}

func TestEngineNewEngineWithLimitsClampsNonPositive(t *testing.T) {
	e := NewEngineWithLimits(0, -1)
	require.Equal(t, defaultMaxCallDepth, e.maxCallDepth)
	require.Equal(t, defaultMaxStackCells, e.maxStackCells)
}

// callIndirectScenario builds a function taking one i32 param (the
// table index) that call_indirects against a table with a matching
// target, a wrong-signature target, and a null slot, to exercise every
// branch of the indirect-call dispatch directly.
func callIndirectScenario(t *testing.T) (*wasm.FunctionInstance, *wasm.TableInstance) {
	t.Helper()

	leafBody := []byte{byte(wazeroir.OpEntry)}
	leafBody = append(leafBody, u32le(0)...)
	leafBody = append(leafBody, byte(wazeroir.OpReturnFew), 0)

	target := &wasm.FunctionInstance{
		Name:      "target",
		TypeIndex: 5,
		Type:      &wasm.FunctionType{},
		Bytecode: &wazeroir.CompiledFunction{
			Code: leafBody, Type: &wasm.FunctionType{}, Name: "target",
		},
	}
	wrongType := &wasm.FunctionInstance{
		Name:      "wrongType",
		TypeIndex: 9,
		Type:      &wasm.FunctionType{},
		Bytecode: &wazeroir.CompiledFunction{
			Code: leafBody, Type: &wasm.FunctionType{}, Name: "wrongType",
		},
	}

	table := &wasm.TableInstance{
		Type:     &wasm.TableType{ElemType: wasm.ValTypeFuncRef},
		Elements: []*wasm.FunctionInstance{target, nil, wrongType},
	}

	callerType := &wasm.FunctionType{Params: []wasm.ValType{wasm.ValTypeI32}}
	code := []byte{byte(wazeroir.OpEntry)}
	code = append(code, u32le(0)...)
	code = append(code, byte(wazeroir.OpLocalGet32Near), 0)
	code = append(code, byte(wazeroir.OpCallIndirect))
	code = append(code, u32le(5)...) // expected interned TypeIndex
	code = append(code, u32le(0)...) // Refs[0] -> table
	code = append(code, byte(wazeroir.OpReturnFew), 0)

	caller := &wasm.FunctionInstance{
		Name: "caller",
		Type: callerType,
		Bytecode: &wazeroir.CompiledFunction{
			Code:          code,
			Refs:          []interface{}{table},
			NumParamCells: 1,
			MaxStackCells: 4,
			Type:          callerType,
			Name:          "caller",
		},
	}
	return caller, table
}

func TestEngineCallIndirectDispatchesMatchingTarget(t *testing.T) {
	caller, _ := callIndirectScenario(t)
	e := NewEngine()
	_, err := e.Call(context.Background(), caller, []uint64{0})
	require.NoError(t, err)
}

func TestEngineCallIndirectNullTraps(t *testing.T) {
	caller, _ := callIndirectScenario(t)
	e := NewEngine()
	_, err := e.Call(context.Background(), caller, []uint64{1})
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeIndirectCallNullReference)
}

func TestEngineCallIndirectTypeMismatchTraps(t *testing.T) {
	caller, _ := callIndirectScenario(t)
	e := NewEngine()
	_, err := e.Call(context.Background(), caller, []uint64{2})
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeIndirectCallTypeMismatch)
}

func TestEngineCallIndirectOutOfRangeTableIndexTraps(t *testing.T) {
	caller, _ := callIndirectScenario(t)
	e := NewEngine()
	_, err := e.Call(context.Background(), caller, []uint64{99})
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeInvalidTableAccess)
}
