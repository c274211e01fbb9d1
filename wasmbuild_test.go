package wasmcore

import (
	"github.com/PreyMa/wasmcore/internal/leb128"
)

// This file hand-assembles tiny Wasm binaries byte-by-byte for the
// embedding-surface tests in this package, the same way the teacher's
// binary-format tests build modules without a WAT toolchain.

const functionTypeTag = 0x60

const (
	valTypeI32   = 0x7f
	valTypeFuncRef = 0x70
	externFunc   = 0x00
)

// limits encodes a Wasm limits record, with or without a max.
func limits(min uint32, max *uint32) []byte {
	if max == nil {
		return append([]byte{0x00}, leb128.EncodeUint32(min)...)
	}
	out := append([]byte{0x01}, leb128.EncodeUint32(min)...)
	return append(out, leb128.EncodeUint32(*max)...)
}

func tableType(elemType byte, min uint32, max *uint32) []byte {
	return append([]byte{elemType}, limits(min, max)...)
}

func memType(min uint32, max *uint32) []byte {
	return limits(min, max)
}

// i32ConstExpr encodes a constant expression initializer: i32.const v; end.
func i32ConstExpr(v int32) []byte {
	out := append([]byte{0x41}, leb128.EncodeInt32(v)...)
	return append(out, 0x0b)
}

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

func name(s string) []byte {
	out := leb128.EncodeUint32(uint32(len(s)))
	return append(out, s...)
}

func funcType(params, results []byte) []byte {
	out := []byte{functionTypeTag}
	out = append(out, vec(len(params))...)
	for _, p := range params {
		out = append(out, p)
	}
	out = append(out, vec(len(results))...)
	for _, r := range results {
		out = append(out, r)
	}
	return out
}

func header() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
}

func exportEntry(exportName string, kind byte, idx uint32) []byte {
	out := name(exportName)
	out = append(out, kind)
	out = append(out, leb128.EncodeUint32(idx)...)
	return out
}

func codeEntry(localDecls []byte, body []byte) []byte {
	payload := append(append([]byte{}, localDecls...), body...)
	return append(leb128.EncodeUint32(uint32(len(payload))), payload...)
}

// addModuleBinary exports a single function "add" of type (i32,i32)->i32.
func addModuleBinary() []byte {
	typeSec := section(1, vec(1, funcType([]byte{valTypeI32, valTypeI32}, []byte{valTypeI32})))
	funcSec := section(3, vec(1, leb128.EncodeUint32(0)))
	exportSec := section(7, vec(1, exportEntry("add", externFunc, 0)))
	body := []byte{0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b} // local.get 0; local.get 1; i32.add; end
	codeSec := section(10, vec(1, codeEntry(leb128.EncodeUint32(0), body)))

	out := append([]byte{}, header()...)
	out = append(out, typeSec...)
	out = append(out, funcSec...)
	out = append(out, exportSec...)
	out = append(out, codeSec...)
	return out
}

// factorialModuleBinary exports "factorial" of type (i32)->i32, computed
// recursively: n <= 1 ? 1 : n * factorial(n-1).
func factorialModuleBinary() []byte {
	typeSec := section(1, vec(1, funcType([]byte{valTypeI32}, []byte{valTypeI32})))
	funcSec := section(3, vec(1, leb128.EncodeUint32(0)))
	exportSec := section(7, vec(1, exportEntry("factorial", externFunc, 0)))

	blockType := byte(0x7f) // i32 result block type
	body := []byte{
		0x20, 0x00, // local.get 0
		0x41, 0x01, // i32.const 1
		0x4c,       // i32.le_s
		0x04, blockType, // if (result i32)
		0x41, 0x01, // i32.const 1
		0x05, // else
		0x20, 0x00, // local.get 0
		0x20, 0x00, // local.get 0
		0x41, 0x01, // i32.const 1
		0x6b,       // i32.sub
		0x10, 0x00, // call 0 (self-recursive)
		0x6c, // i32.mul
		0x0b, // end (if)
		0x0b, // end (function)
	}
	codeSec := section(10, vec(1, codeEntry(leb128.EncodeUint32(0), body)))

	out := append([]byte{}, header()...)
	out = append(out, typeSec...)
	out = append(out, funcSec...)
	out = append(out, exportSec...)
	out = append(out, codeSec...)
	return out
}

// divModuleBinary exports "divz" of type (i32,i32)->i32 computing a/b
// via i32.div_s, to exercise the divide-by-zero trap.
func divModuleBinary() []byte {
	typeSec := section(1, vec(1, funcType([]byte{valTypeI32, valTypeI32}, []byte{valTypeI32})))
	funcSec := section(3, vec(1, leb128.EncodeUint32(0)))
	exportSec := section(7, vec(1, exportEntry("divz", externFunc, 0)))
	body := []byte{0x20, 0x00, 0x20, 0x01, 0x6d, 0x0b} // local.get 0; local.get 1; i32.div_s; end
	codeSec := section(10, vec(1, codeEntry(leb128.EncodeUint32(0), body)))

	out := append([]byte{}, header()...)
	out = append(out, typeSec...)
	out = append(out, funcSec...)
	out = append(out, exportSec...)
	out = append(out, codeSec...)
	return out
}

// importerModuleBinary imports "env.double" (func (i32)->i32) and
// exports "calldouble" of the same type, which just forwards to it.
func importerModuleBinary() []byte {
	typeSec := section(1, vec(1, funcType([]byte{valTypeI32}, []byte{valTypeI32})))

	importEntry := append(name("env"), name("double")...)
	importEntry = append(importEntry, externFunc)
	importEntry = append(importEntry, leb128.EncodeUint32(0)...) // DescFunc: type index 0
	importSec := section(2, vec(1, importEntry))

	funcSec := section(3, vec(1, leb128.EncodeUint32(0))) // local func uses type 0 too
	exportSec := section(7, vec(1, exportEntry("calldouble", externFunc, 1))) // index 1: after the 1 imported func
	body := []byte{0x20, 0x00, 0x10, 0x00, 0x0b} // local.get 0; call 0 (the import); end
	codeSec := section(10, vec(1, codeEntry(leb128.EncodeUint32(0), body)))

	out := append([]byte{}, header()...)
	out = append(out, typeSec...)
	out = append(out, importSec...)
	out = append(out, funcSec...)
	out = append(out, exportSec...)
	out = append(out, codeSec...)
	return out
}

// indirectCallModuleBinary declares a 3-slot funcref table, fills slot 0
// with "double" ((i32)->i32) and slot 1 with "nullary" (()->i32, a
// mismatched signature), and leaves slot 2 uninitialized. It exports
// "callIndirect" of type (i32)->i32, which calls table[arg](21) through
// call_indirect against the (i32)->i32 type, so the caller can drive
// a successful call, a type-mismatch trap and a null-reference trap by
// varying the argument.
func indirectCallModuleBinary() []byte {
	typeSec := section(1, vec(2,
		funcType([]byte{valTypeI32}, []byte{valTypeI32}),
		funcType(nil, []byte{valTypeI32}),
	))

	funcSec := section(3, vec(3,
		leb128.EncodeUint32(0), // double: type 0
		leb128.EncodeUint32(1), // nullary: type 1
		leb128.EncodeUint32(0), // callIndirect: type 0
	))

	max := uint32(3)
	tableSec := section(4, vec(1, tableType(valTypeFuncRef, 3, &max)))

	exportSec := section(7, vec(1, exportEntry("callIndirect", externFunc, 2)))

	elemSeg := append(leb128.EncodeUint32(0), i32ConstExpr(0)...)
	elemSeg = append(elemSeg, vec(2, leb128.EncodeUint32(0), leb128.EncodeUint32(1))...)
	elemSec := section(9, vec(1, elemSeg))

	doubleBody := []byte{0x20, 0x00, 0x41, 0x02, 0x6c, 0x0b} // local.get 0; i32.const 2; i32.mul; end
	nullaryBody := []byte{0x41, 0x63, 0x0b}                  // i32.const 99; end
	callIndirectBody := []byte{
		0x41, 0x15, // i32.const 21 (argument)
		0x20, 0x00, // local.get 0 (table index)
		0x11, 0x00, 0x00, // call_indirect type 0, table 0
		0x0b, // end
	}
	codeSec := section(10, vec(3,
		codeEntry(leb128.EncodeUint32(0), doubleBody),
		codeEntry(leb128.EncodeUint32(0), nullaryBody),
		codeEntry(leb128.EncodeUint32(0), callIndirectBody),
	))

	out := append([]byte{}, header()...)
	out = append(out, typeSec...)
	out = append(out, funcSec...)
	out = append(out, tableSec...)
	out = append(out, exportSec...)
	out = append(out, elemSec...)
	out = append(out, codeSec...)
	return out
}

// memoryGrowCopyModuleBinary declares a 1-page memory (max 2) and
// exports four functions: "grow" (memory.grow), "copy" (memory.copy
// over an (dst,src,n) triple) and "store"/"load" helpers folded into
// "poke"/"peek" so a test can write a byte, copy it elsewhere, and read
// it back, as well as drive memory.copy past the end to observe the
// out-of-bounds trap.
func memoryGrowCopyModuleBinary() []byte {
	typeSec := section(1, vec(4,
		funcType([]byte{valTypeI32}, []byte{valTypeI32}),                       // grow: (i32)->i32
		funcType([]byte{valTypeI32, valTypeI32, valTypeI32}, nil),              // copy: (dst,src,n)->()
		funcType([]byte{valTypeI32, valTypeI32}, nil),                         // poke: (addr,val)->()
		funcType([]byte{valTypeI32}, []byte{valTypeI32}),                      // peek: (addr)->i32
	))

	funcSec := section(3, vec(4,
		leb128.EncodeUint32(0),
		leb128.EncodeUint32(1),
		leb128.EncodeUint32(2),
		leb128.EncodeUint32(3),
	))

	maxPages := uint32(2)
	memSec := section(5, vec(1, memType(1, &maxPages)))

	exportSec := section(7, vec(4,
		exportEntry("grow", externFunc, 0),
		exportEntry("copy", externFunc, 1),
		exportEntry("poke", externFunc, 2),
		exportEntry("peek", externFunc, 3),
	))

	growBody := []byte{0x20, 0x00, 0x40, 0x00, 0x0b} // local.get 0; memory.grow; end
	copyBody := []byte{
		0x20, 0x00, // local.get 0 (dst)
		0x20, 0x01, // local.get 1 (src)
		0x20, 0x02, // local.get 2 (n)
		0xfc, 0x0a, 0x00, 0x00, // memory.copy (reserved dst/src memidx bytes)
		0x0b,
	}
	pokeBody := []byte{
		0x20, 0x00, // local.get 0 (addr)
		0x20, 0x01, // local.get 1 (val)
		0x3a, 0x00, 0x00, // i32.store8 align=0 offset=0
		0x0b,
	}
	peekBody := []byte{
		0x20, 0x00, // local.get 0 (addr)
		0x2d, 0x00, 0x00, // i32.load8_u align=0 offset=0
		0x0b,
	}
	codeSec := section(10, vec(4,
		codeEntry(leb128.EncodeUint32(0), growBody),
		codeEntry(leb128.EncodeUint32(0), copyBody),
		codeEntry(leb128.EncodeUint32(0), pokeBody),
		codeEntry(leb128.EncodeUint32(0), peekBody),
	))

	out := append([]byte{}, header()...)
	out = append(out, typeSec...)
	out = append(out, funcSec...)
	out = append(out, memSec...)
	out = append(out, exportSec...)
	out = append(out, codeSec...)
	return out
}

// deepStackModuleBinary exports "deepstack" of type ()->i32, whose body
// pushes n throwaway i32 constants, drops them all, then returns 0 — a
// function whose compiled operand-stack height is proportional to n,
// for exercising the value-stack-overflow ceiling without needing deep
// call recursion.
func deepStackModuleBinary(n int) []byte {
	typeSec := section(1, vec(1, funcType(nil, []byte{valTypeI32})))
	funcSec := section(3, vec(1, leb128.EncodeUint32(0)))
	exportSec := section(7, vec(1, exportEntry("deepstack", externFunc, 0)))

	body := make([]byte, 0, n*3+4)
	for i := 0; i < n; i++ {
		body = append(body, 0x41, 0x00) // i32.const 0
	}
	for i := 0; i < n; i++ {
		body = append(body, 0x1a) // drop
	}
	body = append(body, 0x41, 0x00, 0x0b) // i32.const 0; end
	codeSec := section(10, vec(1, codeEntry(leb128.EncodeUint32(0), body)))

	out := append([]byte{}, header()...)
	out = append(out, typeSec...)
	out = append(out, funcSec...)
	out = append(out, exportSec...)
	out = append(out, codeSec...)
	return out
}
