package linker

import (
	"math"

	"github.com/PreyMa/wasmcore/internal/leb128"
	wasm "github.com/PreyMa/wasmcore/internal/wasm"
)

// evalConstExpr evaluates a constant expression in the context of a
// partially-built ModuleInstance whose imported globals are already
// populated — the only kind a constant expression may read via
// global.get.
func evalConstExpr(ce wasm.ConstantExpression, instance *wasm.ModuleInstance) (uint64, error) {
	r := leb128.NewReader("const-expr", ce.Data)
	switch ce.Opcode {
	case wasm.OpcodeI32Const:
		v, err := r.NextI32()
		return uint64(uint32(v)), err
	case wasm.OpcodeI64Const:
		v, err := r.NextI64()
		return uint64(v), err
	case wasm.OpcodeF32Const:
		v, err := r.NextF32()
		return uint64(math.Float32bits(v)), err
	case wasm.OpcodeF64Const:
		v, err := r.NextF64()
		return math.Float64bits(v), err
	case wasm.OpcodeRefNull:
		return 0, nil
	case wasm.OpcodeRefFunc:
		idx, err := r.NextU32()
		if err != nil {
			return 0, err
		}
		// Stored as the function's own index; the element-segment/global
		// consumer resolves it to a *wasm.FunctionInstance via instance.Functions.
		return uint64(idx), nil
	case wasm.OpcodeGlobalGet:
		idx, err := r.NextU32()
		if err != nil {
			return 0, err
		}
		return instance.Globals[idx].Val, nil
	}
	return 0, &LinkError{Message: "unsupported constant expression opcode"}
}
