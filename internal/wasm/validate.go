package wasm

import "fmt"

// Validate performs the module-level structural checks: section-count
// invariants, limits ranges, export/start-function well-formedness, and
// constant-expression restrictions. It does not validate function
// bodies: that type-checking is folded into
// internal/wazeroir's compiler, which reuses the constant-expression
// helpers below for element/global initializers.
func (m *Module) Validate() error {
	if len(m.FunctionSection) != len(m.CodeSection) {
		return validationErrorf(m.Name, "", "function and code section count mismatch: %d != %d",
			len(m.FunctionSection), len(m.CodeSection))
	}

	if err := m.validateMemoryCount(); err != nil {
		return err
	}
	if err := m.validateLimits(); err != nil {
		return err
	}
	if err := m.validateExports(); err != nil {
		return err
	}
	if err := m.validateStartFunction(); err != nil {
		return err
	}
	if err := m.validateGlobals(); err != nil {
		return err
	}
	if err := m.validateElementSegments(); err != nil {
		return err
	}
	if err := m.validateDataSegments(); err != nil {
		return err
	}
	return nil
}

func (m *Module) validateMemoryCount() error {
	n := len(m.MemorySection) + int(m.ImportMemoryCount())
	if n > 1 {
		return validationErrorf(m.Name, "", "at most one memory is allowed, found %d", n)
	}
	return nil
}

func (m *Module) validateLimits() error {
	for i, t := range m.AllTableTypes() {
		if err := validateLimitsRange(t.Limits, TableMaxEntries); err != nil {
			return validationErrorf(m.Name, fmt.Sprintf("table[%d]", i), "%s", err)
		}
		if !IsReferenceType(t.ElemType) {
			return validationErrorf(m.Name, fmt.Sprintf("table[%d]", i), "element type must be a reference type")
		}
	}
	for i, t := range m.AllMemoryTypes() {
		if err := validateLimitsRange(t.Limits, MemoryMaxPages); err != nil {
			return validationErrorf(m.Name, fmt.Sprintf("memory[%d]", i), "%s", err)
		}
	}
	return nil
}

func validateLimitsRange(l Limits, ceiling uint32) error {
	if l.Min > ceiling {
		return fmt.Errorf("minimum %d exceeds the allowed ceiling %d", l.Min, ceiling)
	}
	if l.Max != nil {
		if *l.Max > ceiling {
			return fmt.Errorf("maximum %d exceeds the allowed ceiling %d", *l.Max, ceiling)
		}
		if l.Min > *l.Max {
			return fmt.Errorf("minimum %d is greater than maximum %d", l.Min, *l.Max)
		}
	}
	return nil
}

func (m *Module) validateExports() error {
	seen := make(map[string]struct{}, len(m.ExportSection))
	funcCount := Index(len(m.AllFunctionTypes()))
	tableCount := Index(len(m.AllTableTypes()))
	memCount := Index(len(m.AllMemoryTypes()))
	globalCount := Index(len(m.AllGlobalTypes()))

	for i, e := range m.ExportSection {
		ctx := fmt.Sprintf("export[%d]", i)
		if _, ok := seen[e.Name]; ok {
			return validationErrorf(m.Name, ctx, "duplicate export name %q", e.Name)
		}
		seen[e.Name] = struct{}{}

		var count Index
		switch e.Type {
		case ExternTypeFunc:
			count = funcCount
		case ExternTypeTable:
			count = tableCount
		case ExternTypeMemory:
			count = memCount
		case ExternTypeGlobal:
			count = globalCount
		default:
			return validationErrorf(m.Name, ctx, "invalid export kind %#x", e.Type)
		}
		if e.Index >= count {
			return validationErrorf(m.Name, ctx, "%s index %d out of range (have %d)", ExternTypeName(e.Type), e.Index, count)
		}
	}
	return nil
}

func (m *Module) validateStartFunction() error {
	if m.StartSection == nil {
		return nil
	}
	idx := *m.StartSection
	ft := m.FunctionTypeOf(idx)
	if ft == nil {
		return validationErrorf(m.Name, "start", "function index %d out of range", idx)
	}
	if len(ft.Params) != 0 || len(ft.Results) != 0 {
		return validationErrorf(m.Name, "start", "function %d must have type () -> (), found %s", idx, ft)
	}
	return nil
}

func (m *Module) validateGlobals() error {
	importedGlobalCount := m.ImportGlobalCount()
	for i, g := range m.GlobalSection {
		ctx := fmt.Sprintf("global[%d]", i)
		got, err := m.validateConstantExpression(g.Init, importedGlobalCount)
		if err != nil {
			return validationErrorf(m.Name, ctx, "%s", err)
		}
		if got != g.Type.ValType {
			return validationErrorf(m.Name, ctx, "initializer type %s does not match declared type %s",
				ValTypeName(got), ValTypeName(g.Type.ValType))
		}
	}
	return nil
}

func (m *Module) validateElementSegments() error {
	tables := m.AllTableTypes()
	importedGlobalCount := m.ImportGlobalCount()
	for i, seg := range m.ElementSection {
		ctx := fmt.Sprintf("element[%d]", i)
		if seg.Mode == ElementModeActive {
			if int(seg.TableIndex) >= len(tables) {
				return validationErrorf(m.Name, ctx, "table index %d out of range", seg.TableIndex)
			}
			target := tables[seg.TableIndex]
			if target.ElemType != seg.RefType {
				return validationErrorf(m.Name, ctx, "element type %s does not match target table's %s",
					ValTypeName(seg.RefType), ValTypeName(target.ElemType))
			}
			got, err := m.validateConstantExpression(seg.OffsetExpr, importedGlobalCount)
			if err != nil {
				return validationErrorf(m.Name, ctx, "%s", err)
			}
			if got != ValTypeI32 {
				return validationErrorf(m.Name, ctx, "offset expression must produce i32, got %s", ValTypeName(got))
			}
		}
		for _, ie := range seg.InitExprs {
			if _, err := m.validateConstantExpression(ie, importedGlobalCount); err != nil {
				return validationErrorf(m.Name, ctx, "%s", err)
			}
		}
	}
	return nil
}

func (m *Module) validateDataSegments() error {
	memories := m.AllMemoryTypes()
	importedGlobalCount := m.ImportGlobalCount()
	for i, seg := range m.DataSection {
		ctx := fmt.Sprintf("data[%d]", i)
		if seg.Mode == DataModeActive {
			if int(seg.MemoryIndex) >= len(memories) {
				return validationErrorf(m.Name, ctx, "memory index %d out of range", seg.MemoryIndex)
			}
			got, err := m.validateConstantExpression(seg.OffsetExpr, importedGlobalCount)
			if err != nil {
				return validationErrorf(m.Name, ctx, "%s", err)
			}
			if got != ValTypeI32 {
				return validationErrorf(m.Name, ctx, "offset expression must produce i32, got %s", ValTypeName(got))
			}
		}
	}
	return nil
}

// validateConstantExpression checks that ce is restricted to
// literal-producing opcodes or global.get of an *imported* global, and
// returns the single type it produces.
func (m *Module) validateConstantExpression(ce ConstantExpression, importedGlobalCount Index) (ValType, error) {
	switch ce.Opcode {
	case OpcodeI32Const:
		return ValTypeI32, nil
	case OpcodeI64Const:
		return ValTypeI64, nil
	case OpcodeF32Const:
		return ValTypeF32, nil
	case OpcodeF64Const:
		return ValTypeF64, nil
	case OpcodeRefNull:
		if len(ce.Data) != 1 {
			return 0, fmt.Errorf("malformed ref.null operand")
		}
		return ce.Data[0], nil
	case OpcodeRefFunc:
		return ValTypeFuncRef, nil
	case OpcodeGlobalGet:
		idx, _, err := decodeLEBIndex(ce.Data)
		if err != nil {
			return 0, err
		}
		if idx >= importedGlobalCount {
			return 0, fmt.Errorf("global.get in a constant expression may only reference an imported global, got index %d", idx)
		}
		all := m.AllGlobalTypes()
		if int(idx) >= len(all) {
			return 0, fmt.Errorf("global index %d out of range", idx)
		}
		return all[idx].ValType, nil
	default:
		return 0, fmt.Errorf("opcode %#x is not allowed in a constant expression", ce.Opcode)
	}
}

// decodeLEBIndex decodes the single u32 LEB128 operand carried by a
// global.get constant-expression.
func decodeLEBIndex(data []byte) (Index, uint64, error) {
	var v uint32
	var n uint64
	var shift uint
	for _, b := range data {
		v |= uint32(b&0x7f) << shift
		n++
		shift += 7
		if b&0x80 == 0 {
			return v, n, nil
		}
	}
	return 0, 0, fmt.Errorf("truncated index operand")
}
