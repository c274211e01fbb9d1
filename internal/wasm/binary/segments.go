package binary

import (
	"fmt"

	"github.com/PreyMa/wasmcore/internal/leb128"
	wasm "github.com/PreyMa/wasmcore/internal/wasm"
)

// decodeElementSection parses the element section using its seven-way
// flags-byte encoding: bit 0 distinguishes Active from
// Passive-or-Declarative, bit 1 signals an explicit table index (Active
// only) or, combined with bit 0, Passive vs Declarative, and bit 2
// selects an element-expression vector instead of a bare funcidx vector.
func decodeElementSection(r *leb128.Reader) ([]*wasm.ElementSegment, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.ElementSegment, n)
	for i := range out {
		seg, err := decodeElementSegment(r)
		if err != nil {
			return nil, fmt.Errorf("element[%d]: %w", i, err)
		}
		out[i] = seg
	}
	return out, nil
}

func decodeElementSegment(r *leb128.Reader) (*wasm.ElementSegment, error) {
	flag, err := r.NextU32()
	if err != nil {
		return nil, err
	}

	seg := &wasm.ElementSegment{RefType: wasm.ValTypeFuncRef}

	isActive := flag&1 == 0
	hasExplicitTable := flag&2 != 0
	hasExprs := flag&4 != 0

	if isActive {
		seg.Mode = wasm.ElementModeActive
		if hasExplicitTable {
			if seg.TableIndex, err = r.NextU32(); err != nil {
				return nil, err
			}
		}
		if seg.OffsetExpr, err = decodeConstantExpression(r); err != nil {
			return nil, err
		}
	} else if hasExplicitTable { // bit1 set on a non-active segment means declarative
		seg.Mode = wasm.ElementModeDeclarative
	} else {
		seg.Mode = wasm.ElementModePassive
	}

	// Every encoding except the bare "active, implicit table 0" one
	// (flag==0) carries an explicit elemkind or reftype byte.
	if flag != 0 {
		if hasExprs {
			if seg.RefType, err = decodeValType(r); err != nil {
				return nil, err
			}
		} else {
			kind, err := r.NextByte() // elemkind: only funcref (0x00) is defined
			if err != nil {
				return nil, err
			}
			if kind != 0x00 {
				return nil, &leb128.ParsingError{File: r.File, Offset: r.Offset(), Message: fmt.Sprintf("invalid elemkind %#x", kind)}
			}
		}
	}

	if hasExprs {
		n, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		seg.InitExprs = make([]wasm.ConstantExpression, n)
		for i := range seg.InitExprs {
			if seg.InitExprs[i], err = decodeConstantExpression(r); err != nil {
				return nil, err
			}
		}
	} else {
		idxs, err := decodeIndexVector(r)
		if err != nil {
			return nil, err
		}
		seg.Funcidxes = idxs
	}

	return seg, nil
}

func decodeDataSection(r *leb128.Reader) ([]*wasm.DataSegment, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.DataSegment, n)
	for i := range out {
		flag, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		seg := &wasm.DataSegment{}
		switch flag {
		case 0:
			seg.Mode = wasm.DataModeActive
			if seg.OffsetExpr, err = decodeConstantExpression(r); err != nil {
				return nil, err
			}
		case 1:
			seg.Mode = wasm.DataModePassive
		case 2:
			seg.Mode = wasm.DataModeActive
			if seg.MemoryIndex, err = r.NextU32(); err != nil {
				return nil, err
			}
			if seg.OffsetExpr, err = decodeConstantExpression(r); err != nil {
				return nil, err
			}
		default:
			return nil, &leb128.ParsingError{File: r.File, Offset: r.Offset(), Message: fmt.Sprintf("invalid data segment flag %d", flag)}
		}
		size, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		if seg.Init, err = r.NextSliceOf(uint64(size)); err != nil {
			return nil, err
		}
		out[i] = seg
	}
	return out, nil
}

func decodeCodeSection(r *leb128.Reader) ([]*wasm.Code, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.Code, n)
	for i := range out {
		bodySize, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		bodyEnd := r.Offset() + uint64(bodySize)

		declCount, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		decls := make([]wasm.LocalDecl, declCount)
		for j := range decls {
			if decls[j].Count, err = r.NextU32(); err != nil {
				return nil, err
			}
			if decls[j].Type, err = decodeValType(r); err != nil {
				return nil, err
			}
		}

		body, err := r.NextSliceTo(bodyEnd)
		if err != nil {
			return nil, err
		}
		out[i] = &wasm.Code{LocalDecls: decls, Body: body}

		if r.Offset() != bodyEnd {
			return nil, &leb128.ParsingError{File: r.File, Offset: r.Offset(), Message: fmt.Sprintf("code[%d] declared size %d but consumed a different amount", i, bodySize)}
		}
	}
	return out, nil
}

// decodeCustomSection opens a custom section, recognizing the "name"
// custom section specially; every other custom section is preserved
// verbatim as a (name, bytes) pair.
func decodeCustomSection(m *wasm.Module, payload []byte) {
	r := leb128.NewReader("custom", payload)
	name, err := decodeName(r)
	if err != nil {
		// A malformed custom section name is non-fatal: custom
		// sections never affect the semantics of a module.
		return
	}
	if name == "name" {
		if ns, err := decodeNameSection(r); err == nil {
			m.NameSection = ns
			m.Name = ns.ModuleName
		}
		return
	}
	m.CustomSections = append(m.CustomSections, wasm.CustomSection{Name: name, Data: r.Bytes()[r.Offset():]})
}

func decodeNameSection(r *leb128.Reader) (*wasm.NameSection, error) {
	ns := &wasm.NameSection{}
	var lastID = -1
	for r.Len() > 0 {
		id, err := r.NextByte()
		if err != nil {
			return ns, err
		}
		if int(id) <= lastID {
			// Subsections must appear in strictly increasing id order;
			// stop parsing rather than fail the whole module.
			return ns, nil
		}
		lastID = int(id)

		size, err := r.NextU32()
		if err != nil {
			return ns, err
		}
		end := r.Offset() + uint64(size)
		switch id {
		case nameSubsectionModule:
			if ns.ModuleName, err = decodeName(r); err != nil {
				return ns, err
			}
		case nameSubsectionFunction:
			if ns.FunctionNames, err = decodeNameMap(r); err != nil {
				return ns, err
			}
		case nameSubsectionLocal:
			if ns.LocalNames, err = decodeIndirectNameMap(r); err != nil {
				return ns, err
			}
		}
		// Skip any remaining bytes of a subsection we didn't fully
		// decode (or an id we don't recognise) by its declared length.
		if _, err := r.NextSliceTo(end); err != nil {
			return ns, err
		}
	}
	return ns, nil
}

func decodeNameMap(r *leb128.Reader) (wasm.NameMap, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make(wasm.NameMap, n)
	for i := range out {
		if out[i].Index, err = r.NextU32(); err != nil {
			return nil, err
		}
		if out[i].Name, err = decodeName(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeIndirectNameMap(r *leb128.Reader) (wasm.IndirectNameMap, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make(wasm.IndirectNameMap, n)
	for i := range out {
		if out[i].Index, err = r.NextU32(); err != nil {
			return nil, err
		}
		if out[i].Names, err = decodeNameMap(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}
