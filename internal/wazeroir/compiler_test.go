package wazeroir

import (
	"testing"

	"github.com/stretchr/testify/require"

	wasm "github.com/PreyMa/wasmcore/internal/wasm"
)

func addType() *wasm.FunctionType {
	return &wasm.FunctionType{
		Params:  []wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32},
		Results: []wasm.ValType{wasm.ValTypeI32},
	}
}

func compileBody(t *testing.T, typ *wasm.FunctionType, instance *wasm.ModuleInstance, body []byte) (*CompiledFunction, error) {
	t.Helper()
	module := &wasm.Module{TypeSection: []*wasm.FunctionType{typ}}
	if instance == nil {
		instance = &wasm.ModuleInstance{}
	}
	code := &wasm.Code{Body: body}
	return Compile(module, instance, 0, code, typ, "test")
}

func TestCompileSimpleAdd(t *testing.T) {
	body := []byte{0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b} // local.get 0; local.get 1; i32.add; end
	fn, err := compileBody(t, addType(), nil, body)
	require.NoError(t, err)
	require.EqualValues(t, 2, fn.NumParamCells)
	require.EqualValues(t, 1, fn.NumResultCells)
	require.EqualValues(t, 0, fn.NumLocalCells)
	require.GreaterOrEqual(t, fn.MaxStackCells, uint32(2))
}

func TestCompileLocalDeclsGrowLocalCells(t *testing.T) {
	typ := &wasm.FunctionType{Params: []wasm.ValType{wasm.ValTypeI32}, Results: []wasm.ValType{wasm.ValTypeI32}}
	module := &wasm.Module{TypeSection: []*wasm.FunctionType{typ}}
	instance := &wasm.ModuleInstance{}
	code := &wasm.Code{
		LocalDecls: []wasm.LocalDecl{{Count: 3, Type: wasm.ValTypeI64}},
		Body:       []byte{0x20, 0x00, 0x0b}, // local.get 0; end
	}
	fn, err := Compile(module, instance, 0, code, typ, "withlocals")
	require.NoError(t, err)
	require.EqualValues(t, 1, fn.NumParamCells)
	require.EqualValues(t, 3, fn.NumLocalCells)
}

func TestCompileOperandStackUnderflowFails(t *testing.T) {
	// i32.add with nothing pushed first: the block is well-formed Wasm
	// syntax (End closes the function) but the operator's arity can't
	// be satisfied by a function with no params and an empty body.
	typ := &wasm.FunctionType{Results: []wasm.ValType{wasm.ValTypeI32}}
	body := []byte{0x6a, 0x0b}
	_, err := compileBody(t, typ, nil, body)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
}

func TestCompileIfElseBalancesStack(t *testing.T) {
	typ := &wasm.FunctionType{Params: []wasm.ValType{wasm.ValTypeI32}, Results: []wasm.ValType{wasm.ValTypeI32}}
	body := []byte{
		0x20, 0x00, // local.get 0
		0x04, 0x7f, // if (result i32)
		0x41, 0x01, // i32.const 1
		0x05, // else
		0x41, 0x00, // i32.const 0
		0x0b, // end if
		0x0b, // end function
	}
	fn, err := compileBody(t, typ, nil, body)
	require.NoError(t, err)
	require.EqualValues(t, 1, fn.NumResultCells)
}

func TestCompileLoopWithBranch(t *testing.T) {
	typ := &wasm.FunctionType{}
	body := []byte{
		0x03, 0x40, // loop (no result)
		0x0c, 0x00, // br 0 (back edge to the loop header)
		0x0b, // end loop
		0x0b, // end function
	}
	fn, err := compileBody(t, typ, nil, body)
	require.NoError(t, err)
	require.NotNil(t, fn)
}

func TestCompileCallIndirectUsesInternedTypeID(t *testing.T) {
	typ := &wasm.FunctionType{}
	table := &wasm.TableInstance{Type: &wasm.TableType{ElemType: wasm.ValTypeFuncRef}, Elements: make([]*wasm.FunctionInstance, 1)}
	instance := &wasm.ModuleInstance{
		TypeIDs: []uint32{77},
		Tables:  []*wasm.TableInstance{table},
	}
	body := []byte{
		0x41, 0x00, // i32.const 0 (table index)
		0x11, 0x00, 0x00, // call_indirect type 0, table 0
		0x0b,
	}
	fn, err := compileBody(t, typ, instance, body)
	require.NoError(t, err)

	foundTable := false
	for _, ref := range fn.Refs {
		if ref == table {
			foundTable = true
		}
	}
	require.True(t, foundTable, "expected the table instance to be interned into Refs")

	// The emitted bytecode must carry the interned TypeIndex (77), not
	// the module-local type index (0), as its first call_indirect operand.
	idx := indexOfOp(fn.Code, OpCallIndirect)
	require.GreaterOrEqual(t, idx, 0)
	operand := uint32(fn.Code[idx+1]) | uint32(fn.Code[idx+2])<<8 | uint32(fn.Code[idx+3])<<16 | uint32(fn.Code[idx+4])<<24
	require.EqualValues(t, 77, operand)
}

func indexOfOp(code []byte, op Op) int {
	for i, b := range code {
		if Op(b) == op {
			return i
		}
	}
	return -1
}

func TestCompileBlockTypeIndexOutOfRangeFails(t *testing.T) {
	typ := &wasm.FunctionType{}
	// blocktype encoded as a type-section index (non-negative s33) that
	// doesn't exist in a module with a single entry.
	body := []byte{0x02, 0x05, 0x0b, 0x0b} // block (type 5); end; end
	_, err := compileBody(t, typ, nil, body)
	require.Error(t, err)
}
