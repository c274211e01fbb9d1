package linker

import (
	"fmt"

	wasm "github.com/PreyMa/wasmcore/internal/wasm"
	wazeroir "github.com/PreyMa/wasmcore/internal/wazeroir"
)

// Resolver looks up an already-instantiated module by name, the source
// of truth for cross-module import resolution.
type Resolver interface {
	Resolve(moduleName string) (*wasm.ModuleInstance, bool)
}

// Instantiate links module against everything resolver can see, applies
// its element/data segments, compiles every defined function, and
// returns the resulting ModuleInstance. interner is the Runtime-wide
// FunctionType interner shared by every module instantiated into the
// same Runtime, so a function imported from one module and one declared
// in another compare equal by TypeIndex whenever their signatures match.
func Instantiate(module *wasm.Module, name string, resolver Resolver, interner *wasm.TypeInterner) (*wasm.ModuleInstance, error) {
	if err := module.Validate(); err != nil {
		return nil, err
	}

	typeIDs := make([]uint32, len(module.TypeSection))
	for i, t := range module.TypeSection {
		typeIDs[i] = interner.Intern(t)
	}

	inst := &wasm.ModuleInstance{
		Name:    name,
		Types:   module.TypeSection,
		TypeIDs: typeIDs,
		Exports: make(map[string]*wasm.Export, len(module.ExportSection)),
	}

	if err := resolveImports(module, inst, resolver); err != nil {
		return nil, err
	}

	instantiateDefinedTables(module, inst)
	instantiateDefinedMemory(module, inst)
	if err := instantiateDefinedGlobals(module, inst); err != nil {
		return nil, err
	}
	if err := instantiateDefinedFunctions(module, inst); err != nil {
		return nil, err
	}

	if err := applyElementSegments(module, inst); err != nil {
		return nil, err
	}
	if err := applyDataSegments(module, inst); err != nil {
		return nil, err
	}

	buildExports(module, inst)

	if module.StartSection != nil {
		idx := *module.StartSection
		inst.StartFunctionIndex = &idx
	}

	if err := compileDefinedFunctions(module, inst); err != nil {
		return nil, err
	}

	return inst, nil
}

func resolveImports(module *wasm.Module, inst *wasm.ModuleInstance, resolver Resolver) error {
	for _, imp := range module.ImportSection {
		src, ok := resolver.Resolve(imp.Module)
		if !ok {
			return missingImportError(imp.Module, imp.Name)
		}
		exp, ok := src.Exports[imp.Name]
		if !ok {
			return missingImportError(imp.Module, imp.Name)
		}
		if exp.Type != imp.Type {
			return kindMismatchError(imp.Module, imp.Name, imp.Type, exp.Type)
		}
		switch imp.Type {
		case wasm.ExternTypeFunc:
			fn := src.Functions[exp.Index]
			want := module.TypeSection[imp.DescFunc]
			if !want.EqualsSignature(fn.Type) {
				return incompatibleTypeError(imp.Module, imp.Name, fmt.Sprintf("expected %s, got %s", want, fn.Type))
			}
			inst.Functions = append(inst.Functions, fn)
		case wasm.ExternTypeTable:
			t := src.Tables[exp.Index]
			if t.Type.ElemType != imp.DescTable.ElemType {
				return incompatibleTypeError(imp.Module, imp.Name, "table element type mismatch")
			}
			if !limitsCompatible(imp.DescTable.Limits, t.Type.Limits) {
				return incompatibleTypeError(imp.Module, imp.Name, "table limits incompatible")
			}
			inst.Tables = append(inst.Tables, t)
		case wasm.ExternTypeMemory:
			m := src.Memory
			if !limitsCompatible(imp.DescMemory.Limits, m.Type.Limits) {
				return incompatibleTypeError(imp.Module, imp.Name, "memory limits incompatible")
			}
			inst.Memory = m
		case wasm.ExternTypeGlobal:
			g := src.Globals[exp.Index]
			if g.Type.ValType != imp.DescGlobal.ValType || g.Type.Mutable != imp.DescGlobal.Mutable {
				return incompatibleTypeError(imp.Module, imp.Name, "global type mismatch")
			}
			inst.Globals = append(inst.Globals, g)
		}
	}
	return nil
}

// limitsCompatible reports whether a provided limits pair satisfies a
// declared (imported) one: the provider must offer at least the
// declared minimum, and if the importer demands a maximum, the
// provider must have one no larger.
func limitsCompatible(declared, provided wasm.Limits) bool {
	if provided.Min < declared.Min {
		return false
	}
	if declared.Max != nil {
		if provided.Max == nil || *provided.Max > *declared.Max {
			return false
		}
	}
	return true
}

func instantiateDefinedTables(module *wasm.Module, inst *wasm.ModuleInstance) {
	for _, tt := range module.TableSection {
		inst.Tables = append(inst.Tables, &wasm.TableInstance{
			Type:     tt,
			Elements: make([]*wasm.FunctionInstance, tt.Limits.Min),
		})
	}
}

func instantiateDefinedMemory(module *wasm.Module, inst *wasm.ModuleInstance) {
	for _, mt := range module.MemorySection {
		inst.Memory = &wasm.MemoryInstance{
			Type:   mt,
			Buffer: make([]byte, uint64(mt.Limits.Min)*wasm.MemoryPageSize),
		}
	}
}

func instantiateDefinedGlobals(module *wasm.Module, inst *wasm.ModuleInstance) error {
	for _, g := range module.GlobalSection {
		v, err := evalConstExpr(g.Init, inst)
		if err != nil {
			return err
		}
		// A ref.func-initialized global comes back from evalConstExpr as
		// a raw function index; fold it into the same pointer-bits
		// encoding the interpreter's value stack uses for funcref so
		// global.get can push it without a further conversion.
		if g.Init.Opcode == wasm.OpcodeRefFunc {
			v = wasm.FuncRefToVal(inst.Functions[v])
		}
		inst.Globals = append(inst.Globals, &wasm.GlobalInstance{Type: g.Type, Val: v})
	}
	return nil
}

func instantiateDefinedFunctions(module *wasm.Module, inst *wasm.ModuleInstance) error {
	if len(module.FunctionSection) != len(module.CodeSection) {
		return &LinkError{Message: "function and code section length mismatch"}
	}
	names := module.NameSection
	for _, typeIdx := range module.FunctionSection {
		funcIdx := wasm.Index(len(inst.Functions))
		typ := module.TypeSection[typeIdx]
		name := ""
		if names != nil {
			if assoc, ok := names.FunctionNames.Find(funcIdx); ok {
				name = assoc
			}
		}
		inst.Functions = append(inst.Functions, &wasm.FunctionInstance{
			TypeIndex: inst.TypeIDs[typeIdx],
			Type:      typ,
			Name:      name,
			Module:    inst,
		})
	}
	return nil
}

func compileDefinedFunctions(module *wasm.Module, inst *wasm.ModuleInstance) error {
	importCount := module.ImportFuncCount()
	for i, code := range module.CodeSection {
		funcIdx := importCount + wasm.Index(i)
		fn := inst.Functions[funcIdx]
		compiled, err := wazeroir.Compile(module, inst, funcIdx, code, fn.Type, fn.Name)
		if err != nil {
			return err
		}
		fn.Bytecode = compiled
	}
	return nil
}

func applyElementSegments(module *wasm.Module, inst *wasm.ModuleInstance) error {
	for _, seg := range module.ElementSection {
		linked := &wasm.LinkedElement{Mode: seg.Mode, RefType: seg.RefType}
		if seg.InitExprs != nil {
			linked.Refs = make([]*wasm.FunctionInstance, len(seg.InitExprs))
			for i, ce := range seg.InitExprs {
				if ce.Opcode == wasm.OpcodeRefFunc {
					v, err := evalConstExpr(ce, inst)
					if err != nil {
						return err
					}
					linked.Refs[i] = inst.Functions[v]
				}
			}
		} else {
			linked.Refs = make([]*wasm.FunctionInstance, len(seg.Funcidxes))
			for i, idx := range seg.Funcidxes {
				linked.Refs[i] = inst.Functions[idx]
			}
		}

		switch seg.Mode {
		case wasm.ElementModeDeclarative:
			linked.Dropped = true
		case wasm.ElementModeActive:
			table := inst.Tables[seg.TableIndex]
			offsetV, err := evalConstExpr(seg.OffsetExpr, inst)
			if err != nil {
				return err
			}
			offset := uint32(offsetV)
			if uint64(offset)+uint64(len(linked.Refs)) > uint64(len(table.Elements)) {
				return segmentOutOfRangeError(inst.Name, "element", int(offset), len(linked.Refs), len(table.Elements))
			}
			copy(table.Elements[offset:], linked.Refs)
			linked.Dropped = true
		}
		inst.Elements = append(inst.Elements, linked)
	}
	return nil
}

func applyDataSegments(module *wasm.Module, inst *wasm.ModuleInstance) error {
	for _, seg := range module.DataSection {
		linked := &wasm.LinkedData{Init: seg.Init}
		if seg.Mode == wasm.DataModeActive {
			offsetV, err := evalConstExpr(seg.OffsetExpr, inst)
			if err != nil {
				return err
			}
			offset := uint32(offsetV)
			if uint64(offset)+uint64(len(seg.Init)) > uint64(len(inst.Memory.Buffer)) {
				return segmentOutOfRangeError(inst.Name, "data", int(offset), len(seg.Init), len(inst.Memory.Buffer))
			}
			copy(inst.Memory.Buffer[offset:], seg.Init)
			linked.Dropped = true
		}
		inst.Data = append(inst.Data, linked)
	}
	return nil
}

func buildExports(module *wasm.Module, inst *wasm.ModuleInstance) {
	for _, e := range module.ExportSection {
		inst.Exports[e.Name] = e
	}
}
