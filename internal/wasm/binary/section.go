// Package binary implements the Wasm 1.0 binary format decoder: it
// turns a raw byte buffer into the wasm.Module record tree, without
// performing any cross-module resolution (internal/linker) or function
// body compilation (internal/wazeroir).
package binary

// SectionID identifies a top-level Wasm binary section.
type SectionID = byte

const (
	SectionIDCustom SectionID = iota
	SectionIDType
	SectionIDImport
	SectionIDFunction
	SectionIDTable
	SectionIDMemory
	SectionIDGlobal
	SectionIDExport
	SectionIDStart
	SectionIDElement
	SectionIDCode
	SectionIDData
	SectionIDDataCount
)

// SectionIDName returns the lower-case name used in error messages.
func SectionIDName(id SectionID) string {
	switch id {
	case SectionIDCustom:
		return "custom"
	case SectionIDType:
		return "type"
	case SectionIDImport:
		return "import"
	case SectionIDFunction:
		return "function"
	case SectionIDTable:
		return "table"
	case SectionIDMemory:
		return "memory"
	case SectionIDGlobal:
		return "global"
	case SectionIDExport:
		return "export"
	case SectionIDStart:
		return "start"
	case SectionIDElement:
		return "element"
	case SectionIDCode:
		return "code"
	case SectionIDData:
		return "data"
	case SectionIDDataCount:
		return "data count"
	}
	return "unknown"
}

var magic = [4]byte{0x00, 0x61, 0x73, 0x6d}

const version = uint32(1)

// subsection ids within the "name" custom section.
const (
	nameSubsectionModule byte = iota
	nameSubsectionFunction
	nameSubsectionLocal
)
