package linker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PreyMa/wasmcore/internal/leb128"
	wasm "github.com/PreyMa/wasmcore/internal/wasm"
)

type fakeResolver map[string]*wasm.ModuleInstance

func (r fakeResolver) Resolve(name string) (*wasm.ModuleInstance, bool) {
	m, ok := r[name]
	return m, ok
}

func i32ConstExpr(v int32) wasm.ConstantExpression {
	return wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Data: leb128.EncodeInt32(v)}
}

func nullaryI32Type() *wasm.FunctionType {
	return &wasm.FunctionType{Results: []wasm.ValType{wasm.ValTypeI32}}
}

func TestInstantiateResolvesImportAcrossModules(t *testing.T) {
	interner := wasm.NewTypeInterner()
	resolver := fakeResolver{}

	envModule := &wasm.Module{
		TypeSection:     []*wasm.FunctionType{nullaryI32Type()},
		FunctionSection: []wasm.Index{0},
		CodeSection:     []*wasm.Code{{Body: []byte{0x41, 0x2a, 0x0b}}}, // i32.const 42; end
		ExportSection:   []*wasm.Export{{Name: "get42", Type: wasm.ExternTypeFunc, Index: 0}},
	}
	envInst, err := Instantiate(envModule, "env", resolver, interner)
	require.NoError(t, err)
	resolver["env"] = envInst

	mainModule := &wasm.Module{
		TypeSection: []*wasm.FunctionType{nullaryI32Type()},
		ImportSection: []*wasm.Import{
			{Module: "env", Name: "get42", Type: wasm.ExternTypeFunc, DescFunc: 0},
		},
		FunctionSection: []wasm.Index{0},
		CodeSection:     []*wasm.Code{{Body: []byte{0x10, 0x00, 0x0b}}}, // call 0 (the import); end
		ExportSection:   []*wasm.Export{{Name: "callit", Type: wasm.ExternTypeFunc, Index: 1}},
	}
	mainInst, err := Instantiate(mainModule, "main", resolver, interner)
	require.NoError(t, err)

	require.Len(t, mainInst.Functions, 2)
	require.Same(t, envInst.Functions[0], mainInst.Functions[0], "the imported function must be the same instance, not a copy")

	// Both modules' ()->i32 signature must intern to the same TypeIndex,
	// so a hypothetical call_indirect crossing the two modules compares
	// correctly.
	require.Equal(t, envInst.Functions[0].TypeIndex, mainInst.Functions[1].TypeIndex)
}

func TestInstantiateMissingImportFails(t *testing.T) {
	interner := wasm.NewTypeInterner()
	resolver := fakeResolver{}

	mainModule := &wasm.Module{
		TypeSection: []*wasm.FunctionType{nullaryI32Type()},
		ImportSection: []*wasm.Import{
			{Module: "env", Name: "get42", Type: wasm.ExternTypeFunc, DescFunc: 0},
		},
	}
	_, err := Instantiate(mainModule, "main", resolver, interner)
	require.Error(t, err)
	var le *LinkError
	require.ErrorAs(t, err, &le)
}

func TestInstantiateImportKindMismatchFails(t *testing.T) {
	interner := wasm.NewTypeInterner()
	resolver := fakeResolver{}

	envModule := &wasm.Module{
		TableSection:  []*wasm.TableType{{ElemType: wasm.ValTypeFuncRef, Limits: wasm.Limits{Min: 1}}},
		ExportSection: []*wasm.Export{{Name: "thing", Type: wasm.ExternTypeTable, Index: 0}},
	}
	envInst, err := Instantiate(envModule, "env", resolver, interner)
	require.NoError(t, err)
	resolver["env"] = envInst

	mainModule := &wasm.Module{
		TypeSection: []*wasm.FunctionType{nullaryI32Type()},
		ImportSection: []*wasm.Import{
			{Module: "env", Name: "thing", Type: wasm.ExternTypeFunc, DescFunc: 0},
		},
	}
	_, err = Instantiate(mainModule, "main", resolver, interner)
	require.Error(t, err)
	var le *LinkError
	require.ErrorAs(t, err, &le)
}

func TestInstantiateActiveElementSegmentWithinRangeSucceeds(t *testing.T) {
	interner := wasm.NewTypeInterner()
	resolver := fakeResolver{}

	typ := &wasm.FunctionType{}
	module := &wasm.Module{
		TypeSection:     []*wasm.FunctionType{typ},
		FunctionSection: []wasm.Index{0, 0},
		CodeSection:     []*wasm.Code{{Body: []byte{0x0b}}, {Body: []byte{0x0b}}},
		TableSection:    []*wasm.TableType{{ElemType: wasm.ValTypeFuncRef, Limits: wasm.Limits{Min: 2}}},
		ElementSection: []*wasm.ElementSegment{
			{Mode: wasm.ElementModeActive, RefType: wasm.ValTypeFuncRef, OffsetExpr: i32ConstExpr(0), Funcidxes: []wasm.Index{0, 1}},
		},
	}
	inst, err := Instantiate(module, "tbl", resolver, interner)
	require.NoError(t, err)
	require.Same(t, inst.Functions[0], inst.Tables[0].Elements[0])
	require.Same(t, inst.Functions[1], inst.Tables[0].Elements[1])
}

func TestInstantiateActiveElementSegmentOutOfRangeFails(t *testing.T) {
	interner := wasm.NewTypeInterner()
	resolver := fakeResolver{}

	typ := &wasm.FunctionType{}
	module := &wasm.Module{
		TypeSection:     []*wasm.FunctionType{typ},
		FunctionSection: []wasm.Index{0, 0},
		CodeSection:     []*wasm.Code{{Body: []byte{0x0b}}, {Body: []byte{0x0b}}},
		TableSection:    []*wasm.TableType{{ElemType: wasm.ValTypeFuncRef, Limits: wasm.Limits{Min: 2}}},
		ElementSection: []*wasm.ElementSegment{
			// offset 1 + length 2 = 3 overruns a 2-entry table.
			{Mode: wasm.ElementModeActive, RefType: wasm.ValTypeFuncRef, OffsetExpr: i32ConstExpr(1), Funcidxes: []wasm.Index{0, 1}},
		},
	}
	_, err := Instantiate(module, "tbl", resolver, interner)
	require.Error(t, err)
	var le *LinkError
	require.ErrorAs(t, err, &le)
}

func TestInstantiateActiveDataSegmentWithinRangeSucceeds(t *testing.T) {
	interner := wasm.NewTypeInterner()
	resolver := fakeResolver{}

	module := &wasm.Module{
		MemorySection: []*wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		DataSection: []*wasm.DataSegment{
			{Mode: wasm.DataModeActive, OffsetExpr: i32ConstExpr(0), Init: []byte{1, 2, 3}},
		},
	}
	inst, err := Instantiate(module, "mem", resolver, interner)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, inst.Memory.Buffer[:3])
}

func TestInstantiateActiveDataSegmentOutOfRangeFails(t *testing.T) {
	interner := wasm.NewTypeInterner()
	resolver := fakeResolver{}

	module := &wasm.Module{
		MemorySection: []*wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}}, // 1 page = 65536 bytes
		DataSection: []*wasm.DataSegment{
			{Mode: wasm.DataModeActive, OffsetExpr: i32ConstExpr(65530), Init: make([]byte, 10)},
		},
	}
	_, err := Instantiate(module, "mem", resolver, interner)
	require.Error(t, err)
	var le *LinkError
	require.ErrorAs(t, err, &le)
}

func TestInstantiateDeclarativeElementSegmentStartsDropped(t *testing.T) {
	interner := wasm.NewTypeInterner()
	resolver := fakeResolver{}

	typ := &wasm.FunctionType{}
	module := &wasm.Module{
		TypeSection:     []*wasm.FunctionType{typ},
		FunctionSection: []wasm.Index{0},
		CodeSection:     []*wasm.Code{{Body: []byte{0x0b}}},
		ElementSection: []*wasm.ElementSegment{
			{Mode: wasm.ElementModeDeclarative, RefType: wasm.ValTypeFuncRef, Funcidxes: []wasm.Index{0}},
		},
	}
	inst, err := Instantiate(module, "decl", resolver, interner)
	require.NoError(t, err)
	require.True(t, inst.Elements[0].Dropped)
}

func TestEvalConstExprGlobalGetReadsImportedGlobal(t *testing.T) {
	inst := &wasm.ModuleInstance{Globals: []*wasm.GlobalInstance{{Val: 99}}}
	ce := wasm.ConstantExpression{Opcode: wasm.OpcodeGlobalGet, Data: leb128.EncodeUint32(0)}
	v, err := evalConstExpr(ce, inst)
	require.NoError(t, err)
	require.EqualValues(t, 99, v)
}

func TestEvalConstExprI32Const(t *testing.T) {
	inst := &wasm.ModuleInstance{}
	v, err := evalConstExpr(i32ConstExpr(-5), inst)
	require.NoError(t, err)
	require.EqualValues(t, uint32(int32(-5)), uint32(v))
}
