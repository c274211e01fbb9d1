package wasm

// LocalDecl is one run-length-encoded local declaration run as stored in
// a function body: `count` locals of `Type`.
type LocalDecl struct {
	Count uint32
	Type  ValType
}

// Code is a function body as handed out by the decoder: the raw
// instruction bytes (everything after the local declarations, up to and
// including the closing End) plus the compressed local-declaration list. It is
// compiled lazily by internal/wazeroir.
type Code struct {
	LocalDecls []LocalDecl
	Body       []byte
}

// Module is the in-memory result of decoding and validating a single
// Wasm binary. It owns every record parsed from the binary's sections;
// nothing here is resolved against other modules — that is
// internal/linker's job.
type Module struct {
	// NameSection.ModuleName, when present, names this module for
	// diagnostics; it is distinct from the registry name the embedder
	// supplies to Runtime.LoadModule.
	Name string

	TypeSection     []*FunctionType
	ImportSection   []*Import
	FunctionSection []Index // index into TypeSection, one per module-defined function
	TableSection    []*TableType
	MemorySection   []*MemoryType
	GlobalSection   []*Global
	ExportSection   []*Export
	StartSection    *Index
	ElementSection  []*ElementSegment
	CodeSection     []*Code // parallel to FunctionSection
	DataSection     []*DataSegment
	DataCountSection *uint32

	NameSection    *NameSection
	CustomSections []CustomSection
}

// Global is a module-defined global variable with its initializer.
type Global struct {
	Type *GlobalType
	Init ConstantExpression
}

// ImportFuncCount counts imports of kind func.
func (m *Module) ImportFuncCount() (n Index) {
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeFunc {
			n++
		}
	}
	return
}

// ImportTableCount counts imports of kind table.
func (m *Module) ImportTableCount() (n Index) {
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeTable {
			n++
		}
	}
	return
}

// ImportMemoryCount counts imports of kind memory.
func (m *Module) ImportMemoryCount() (n Index) {
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeMemory {
			n++
		}
	}
	return
}

// ImportGlobalCount counts imports of kind global.
func (m *Module) ImportGlobalCount() (n Index) {
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeGlobal {
			n++
		}
	}
	return
}

// AllFunctionTypes returns, for every function in the concatenated
// (imports ++ module-defined) function namespace, the index into
// TypeSection describing its signature.
func (m *Module) AllFunctionTypes() []Index {
	out := make([]Index, 0, len(m.FunctionSection)+int(m.ImportFuncCount()))
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeFunc {
			out = append(out, imp.DescFunc)
		}
	}
	return append(out, m.FunctionSection...)
}

// AllTableTypes returns every table type, imported tables first.
func (m *Module) AllTableTypes() []*TableType {
	out := make([]*TableType, 0, len(m.TableSection)+int(m.ImportTableCount()))
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeTable {
			out = append(out, imp.DescTable)
		}
	}
	return append(out, m.TableSection...)
}

// AllMemoryTypes returns every memory type, imported memory first.
func (m *Module) AllMemoryTypes() []*MemoryType {
	out := make([]*MemoryType, 0, len(m.MemorySection)+int(m.ImportMemoryCount()))
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeMemory {
			out = append(out, imp.DescMemory)
		}
	}
	return append(out, m.MemorySection...)
}

// AllGlobalTypes returns every global type, imported globals first.
func (m *Module) AllGlobalTypes() []*GlobalType {
	out := make([]*GlobalType, 0, len(m.GlobalSection)+int(m.ImportGlobalCount()))
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeGlobal {
			out = append(out, imp.DescGlobal)
		}
	}
	for _, g := range m.GlobalSection {
		out = append(out, g.Type)
	}
	return out
}

// FunctionTypeOf resolves a function index (in the concatenated
// namespace) to its FunctionType.
func (m *Module) FunctionTypeOf(funcIdx Index) *FunctionType {
	types := m.AllFunctionTypes()
	if int(funcIdx) >= len(types) {
		return nil
	}
	return m.TypeSection[types[funcIdx]]
}
