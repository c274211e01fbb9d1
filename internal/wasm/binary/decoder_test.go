package binary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PreyMa/wasmcore/internal/leb128"
	wasm "github.com/PreyMa/wasmcore/internal/wasm"
)

// section builds one top-level section (id, payload) with its declared
// byte length, matching the binary format's (id, size, payload) shape.
func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = append(out, leb128.EncodeUint32(uint32(len(payload)))...)
	return append(out, payload...)
}

func vec(n int, items ...[]byte) []byte {
	out := leb128.EncodeUint32(uint32(n))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

// addModuleBinary assembles a minimal module exporting a single function
// "add" of type (i32, i32) -> i32 that returns the sum of its two
// parameters: local.get 0; local.get 1; i32.add; end.
func addModuleBinary() []byte {
	header := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	funcType := []byte{functionTypeTag}
	funcType = append(funcType, vec(2, []byte{wasm.ValTypeI32}, []byte{wasm.ValTypeI32})...)
	funcType = append(funcType, vec(1, []byte{wasm.ValTypeI32})...)
	typeSec := section(SectionIDType, vec(1, funcType))

	funcSec := section(SectionIDFunction, vec(1, leb128.EncodeUint32(0)))

	exportSec := section(SectionIDExport, vec(1, exportEntry("add", wasm.ExternTypeFunc, 0)))

	body := []byte{
		0x20, 0x00, // local.get 0
		0x20, 0x01, // local.get 1
		0x6a,       // i32.add
		0x0b,       // end
	}
	codeEntry := append(leb128.EncodeUint32(0), body...) // 0 local-decl runs
	codeEntry = append(leb128.EncodeUint32(uint32(len(codeEntry))), codeEntry...)
	codeSec := section(SectionIDCode, append(leb128.EncodeUint32(1), codeEntry...))

	out := append([]byte{}, header...)
	out = append(out, typeSec...)
	out = append(out, funcSec...)
	out = append(out, exportSec...)
	out = append(out, codeSec...)
	return out
}

func exportEntry(name string, kind byte, idx uint32) []byte {
	out := leb128.EncodeUint32(uint32(len(name)))
	out = append(out, name...)
	out = append(out, kind)
	out = append(out, leb128.EncodeUint32(idx)...)
	return out
}

func TestDecodeModuleRejectsBadMagic(t *testing.T) {
	_, err := DecodeModule("bad", []byte{0x00, 0x00, 0x00, 0x00})
	require.Error(t, err)
}

func TestDecodeModuleAddFunction(t *testing.T) {
	mod, err := DecodeModule("add", addModuleBinary())
	require.NoError(t, err)

	require.Len(t, mod.TypeSection, 1)
	require.Equal(t, []wasm.ValType{wasm.ValTypeI32, wasm.ValTypeI32}, mod.TypeSection[0].Params)
	require.Equal(t, []wasm.ValType{wasm.ValTypeI32}, mod.TypeSection[0].Results)

	require.Equal(t, []wasm.Index{0}, mod.FunctionSection)

	require.Len(t, mod.ExportSection, 1)
	require.Equal(t, "add", mod.ExportSection[0].Name)
	require.Equal(t, wasm.ExternTypeFunc, mod.ExportSection[0].Type)
	require.EqualValues(t, 0, mod.ExportSection[0].Index)

	require.Len(t, mod.CodeSection, 1)
	require.Empty(t, mod.CodeSection[0].LocalDecls)
	require.Equal(t, []byte{0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b}, mod.CodeSection[0].Body)

	require.NoError(t, mod.Validate())
}

func TestDecodeModuleRejectsTruncatedSection(t *testing.T) {
	bin := addModuleBinary()
	// Truncate the tail so the last section's declared length doesn't
	// match what's actually available.
	_, err := DecodeModule("truncated", bin[:len(bin)-2])
	require.Error(t, err)
}
