package binary

import (
	"fmt"

	"github.com/PreyMa/wasmcore/internal/leb128"
	wasm "github.com/PreyMa/wasmcore/internal/wasm"
)

const functionTypeTag = 0x60

func decodeValType(r *leb128.Reader) (wasm.ValType, error) {
	b, err := r.NextByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case wasm.ValTypeI32, wasm.ValTypeI64, wasm.ValTypeF32, wasm.ValTypeF64,
		wasm.ValTypeFuncRef, wasm.ValTypeExternRef:
		return b, nil
	}
	return 0, &leb128.ParsingError{File: r.File, Offset: r.Offset(), Message: fmt.Sprintf("invalid value type %#x", b)}
}

func decodeValTypes(r *leb128.Reader) ([]wasm.ValType, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]wasm.ValType, n)
	for i := range out {
		if out[i], err = decodeValType(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeTypeSection(r *leb128.Reader) ([]*wasm.FunctionType, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.FunctionType, n)
	for i := range out {
		if err := r.AssertByte(functionTypeTag); err != nil {
			return nil, fmt.Errorf("type[%d]: %w", i, err)
		}
		params, err := decodeValTypes(r)
		if err != nil {
			return nil, fmt.Errorf("type[%d] params: %w", i, err)
		}
		results, err := decodeValTypes(r)
		if err != nil {
			return nil, fmt.Errorf("type[%d] results: %w", i, err)
		}
		out[i] = &wasm.FunctionType{Params: params, Results: results}
	}
	return out, nil
}

func decodeLimits(r *leb128.Reader) (wasm.Limits, error) {
	flag, err := r.NextByte()
	if err != nil {
		return wasm.Limits{}, err
	}
	min, err := r.NextU32()
	if err != nil {
		return wasm.Limits{}, err
	}
	l := wasm.Limits{Min: min}
	if flag == 1 {
		max, err := r.NextU32()
		if err != nil {
			return wasm.Limits{}, err
		}
		l.Max = &max
	} else if flag != 0 {
		return wasm.Limits{}, &leb128.ParsingError{File: r.File, Offset: r.Offset(), Message: fmt.Sprintf("invalid limits flag %#x", flag)}
	}
	return l, nil
}

func decodeTableType(r *leb128.Reader) (*wasm.TableType, error) {
	elem, err := decodeValType(r)
	if err != nil {
		return nil, err
	}
	if !wasm.IsReferenceType(elem) {
		return nil, &leb128.ParsingError{File: r.File, Offset: r.Offset(), Message: "table element type must be a reference type"}
	}
	lim, err := decodeLimits(r)
	if err != nil {
		return nil, err
	}
	return &wasm.TableType{ElemType: elem, Limits: lim}, nil
}

func decodeMemoryType(r *leb128.Reader) (*wasm.MemoryType, error) {
	lim, err := decodeLimits(r)
	if err != nil {
		return nil, err
	}
	return &wasm.MemoryType{Limits: lim}, nil
}

func decodeGlobalType(r *leb128.Reader) (*wasm.GlobalType, error) {
	vt, err := decodeValType(r)
	if err != nil {
		return nil, err
	}
	mutFlag, err := r.NextByte()
	if err != nil {
		return nil, err
	}
	if mutFlag > 1 {
		return nil, &leb128.ParsingError{File: r.File, Offset: r.Offset(), Message: fmt.Sprintf("invalid mutability flag %#x", mutFlag)}
	}
	return &wasm.GlobalType{ValType: vt, Mutable: mutFlag == 1}, nil
}

func decodeImportSection(r *leb128.Reader) ([]*wasm.Import, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.Import, n)
	for i := range out {
		mod, err := decodeName(r)
		if err != nil {
			return nil, fmt.Errorf("import[%d] module: %w", i, err)
		}
		name, err := decodeName(r)
		if err != nil {
			return nil, fmt.Errorf("import[%d] name: %w", i, err)
		}
		kind, err := r.NextByte()
		if err != nil {
			return nil, err
		}
		imp := &wasm.Import{Type: kind, Module: mod, Name: name}
		switch kind {
		case wasm.ExternTypeFunc:
			if imp.DescFunc, err = r.NextU32(); err != nil {
				return nil, err
			}
		case wasm.ExternTypeTable:
			if imp.DescTable, err = decodeTableType(r); err != nil {
				return nil, err
			}
		case wasm.ExternTypeMemory:
			if imp.DescMemory, err = decodeMemoryType(r); err != nil {
				return nil, err
			}
		case wasm.ExternTypeGlobal:
			if imp.DescGlobal, err = decodeGlobalType(r); err != nil {
				return nil, err
			}
		default:
			return nil, &leb128.ParsingError{File: r.File, Offset: r.Offset(), Message: fmt.Sprintf("invalid import kind %#x", kind)}
		}
		out[i] = imp
	}
	return out, nil
}

func decodeTableSection(r *leb128.Reader) ([]*wasm.TableType, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.TableType, n)
	for i := range out {
		if out[i], err = decodeTableType(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeMemorySection(r *leb128.Reader) ([]*wasm.MemoryType, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.MemoryType, n)
	for i := range out {
		if out[i], err = decodeMemoryType(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeGlobalSection(r *leb128.Reader) ([]*wasm.Global, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.Global, n)
	for i := range out {
		gt, err := decodeGlobalType(r)
		if err != nil {
			return nil, fmt.Errorf("global[%d] type: %w", i, err)
		}
		init, err := decodeConstantExpression(r)
		if err != nil {
			return nil, fmt.Errorf("global[%d] init: %w", i, err)
		}
		out[i] = &wasm.Global{Type: gt, Init: init}
	}
	return out, nil
}

func decodeExportSection(r *leb128.Reader) ([]*wasm.Export, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.Export, n)
	for i := range out {
		name, err := decodeName(r)
		if err != nil {
			return nil, fmt.Errorf("export[%d] name: %w", i, err)
		}
		kind, err := r.NextByte()
		if err != nil {
			return nil, err
		}
		idx, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		out[i] = &wasm.Export{Type: kind, Name: name, Index: idx}
	}
	return out, nil
}

func decodeName(r *leb128.Reader) (string, error) {
	n, err := r.NextU32()
	if err != nil {
		return "", err
	}
	b, err := r.NextSliceOf(uint64(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeConstantExpression parses a single instruction followed by End,
// the encoding used for global/element/data initializers.
func decodeConstantExpression(r *leb128.Reader) (wasm.ConstantExpression, error) {
	start := r.Offset()
	op, err := r.NextByte()
	if err != nil {
		return wasm.ConstantExpression{}, err
	}
	switch op {
	case wasm.OpcodeI32Const:
		if _, err := r.NextI32(); err != nil {
			return wasm.ConstantExpression{}, err
		}
	case wasm.OpcodeI64Const:
		if _, err := r.NextI64(); err != nil {
			return wasm.ConstantExpression{}, err
		}
	case wasm.OpcodeF32Const:
		if _, err := r.NextF32(); err != nil {
			return wasm.ConstantExpression{}, err
		}
	case wasm.OpcodeF64Const:
		if _, err := r.NextF64(); err != nil {
			return wasm.ConstantExpression{}, err
		}
	case wasm.OpcodeRefNull:
		if _, err := decodeValType(r); err != nil {
			return wasm.ConstantExpression{}, err
		}
	case wasm.OpcodeRefFunc, wasm.OpcodeGlobalGet:
		if _, err := r.NextU32(); err != nil {
			return wasm.ConstantExpression{}, err
		}
	default:
		return wasm.ConstantExpression{}, &leb128.ParsingError{File: r.File, Offset: start,
			Message: fmt.Sprintf("opcode %#x is not valid in a constant expression", op)}
	}
	operandBytes := r.Bytes()[start+1 : r.Offset()]
	if err := r.AssertByte(wasm.OpcodeEnd); err != nil {
		return wasm.ConstantExpression{}, fmt.Errorf("constant expression must terminate with end: %w", err)
	}
	return wasm.ConstantExpression{Opcode: op, Data: operandBytes}, nil
}
