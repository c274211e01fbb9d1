package binary

import (
	"fmt"

	"github.com/PreyMa/wasmcore/internal/leb128"
	wasm "github.com/PreyMa/wasmcore/internal/wasm"
)

// DecodeModule parses buf as a Wasm 1.0 binary module. file names the
// input for error messages only.
func DecodeModule(file string, buf []byte) (*wasm.Module, error) {
	r := leb128.NewReader(file, buf)

	if err := decodeHeader(r); err != nil {
		return nil, err
	}

	m := &wasm.Module{}
	var lastNonCustomID = byte(0)

	for r.Len() > 0 {
		id, err := r.NextByte()
		if err != nil {
			return nil, err
		}
		size, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		sectionStart := r.Offset()
		sectionEnd := sectionStart + uint64(size)

		switch id {
		case SectionIDCustom:
			payload, err := r.NextSliceTo(sectionEnd)
			if err != nil {
				return nil, err
			}
			decodeCustomSection(m, payload)

		case SectionIDType:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			if m.TypeSection, err = decodeTypeSection(r); err != nil {
				return nil, err
			}
			lastNonCustomID = id

		case SectionIDImport:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			if m.ImportSection, err = decodeImportSection(r); err != nil {
				return nil, err
			}
			lastNonCustomID = id

		case SectionIDFunction:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			if m.FunctionSection, err = decodeIndexVector(r); err != nil {
				return nil, err
			}
			lastNonCustomID = id

		case SectionIDTable:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			if m.TableSection, err = decodeTableSection(r); err != nil {
				return nil, err
			}
			lastNonCustomID = id

		case SectionIDMemory:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			if m.MemorySection, err = decodeMemorySection(r); err != nil {
				return nil, err
			}
			lastNonCustomID = id

		case SectionIDGlobal:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			if m.GlobalSection, err = decodeGlobalSection(r); err != nil {
				return nil, err
			}
			lastNonCustomID = id

		case SectionIDExport:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			if m.ExportSection, err = decodeExportSection(r); err != nil {
				return nil, err
			}
			lastNonCustomID = id

		case SectionIDStart:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			idx, err := r.NextU32()
			if err != nil {
				return nil, err
			}
			m.StartSection = &idx
			lastNonCustomID = id

		case SectionIDElement:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			if m.ElementSection, err = decodeElementSection(r); err != nil {
				return nil, err
			}
			lastNonCustomID = id

		case SectionIDDataCount:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			n, err := r.NextU32()
			if err != nil {
				return nil, err
			}
			m.DataCountSection = &n
			lastNonCustomID = id

		case SectionIDCode:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			if m.CodeSection, err = decodeCodeSection(r); err != nil {
				return nil, err
			}
			lastNonCustomID = id

		case SectionIDData:
			if id < lastNonCustomID {
				return nil, sectionOrderError(file, r.Offset(), id)
			}
			if m.DataSection, err = decodeDataSection(r); err != nil {
				return nil, err
			}
			lastNonCustomID = id

		default:
			return nil, &leb128.ParsingError{File: file, Offset: sectionStart, Message: fmt.Sprintf("unknown section id %#x", id)}
		}

		if r.Offset() != sectionEnd {
			return nil, &leb128.ParsingError{
				File: file, Offset: r.Offset(),
				Message: fmt.Sprintf("section %s declared length %d but consumed %d bytes",
					SectionIDName(id), size, r.Offset()-sectionStart),
			}
		}
	}

	if m.DataCountSection != nil && int(*m.DataCountSection) != len(m.DataSection) {
		return nil, &leb128.ParsingError{File: file, Offset: r.Offset(),
			Message: fmt.Sprintf("data count section declares %d segments but data section has %d", *m.DataCountSection, len(m.DataSection))}
	}

	return m, nil
}

func sectionOrderError(file string, offset uint64, id SectionID) error {
	return &leb128.ParsingError{File: file, Offset: offset,
		Message: fmt.Sprintf("section %s appears out of order", SectionIDName(id))}
}

func decodeHeader(r *leb128.Reader) error {
	for _, b := range magic {
		if err := r.AssertByte(b); err != nil {
			return fmt.Errorf("invalid magic number: %w", err)
		}
	}
	vb, err := r.NextSliceOf(4)
	if err != nil {
		return err
	}
	v := uint32(vb[0]) | uint32(vb[1])<<8 | uint32(vb[2])<<16 | uint32(vb[3])<<24
	if v != version {
		return &leb128.ParsingError{File: r.File, Offset: r.Offset(), Message: fmt.Sprintf("unsupported version %d", v)}
	}
	return nil
}

func decodeIndexVector(r *leb128.Reader) ([]wasm.Index, error) {
	n, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	out := make([]wasm.Index, n)
	for i := range out {
		if out[i], err = r.NextU32(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
