package wazeroir

import (
	"math"

	"github.com/PreyMa/wasmcore/internal/leb128"
	wasm "github.com/PreyMa/wasmcore/internal/wasm"
)

// Compile lowers one function body into a *CompiledFunction. fn
// is the defining module's function, funcIdx its module-relative index
// (used only for diagnostics), and instance supplies the already-linked
// tables/globals/elements/data the bytecode's resolved references point
// into — Compile runs after linking, so every reference it resolves is
// live for the module instance's whole lifetime.
func Compile(module *wasm.Module, instance *wasm.ModuleInstance, funcIdx wasm.Index, code *wasm.Code, typ *wasm.FunctionType, name string) (*CompiledFunction, error) {
	c := &compiler{
		module:   module,
		instance: instance,
		funcIdx:  funcIdx,
		typ:      typ,
		name:     name,
		r:        leb128.NewReader(name, code.Body),
		refIndex: make(map[interface{}]uint32),
	}
	for _, p := range typ.Params {
		c.pushLocal(p)
	}
	c.numParamCells = c.localCells
	for _, d := range code.LocalDecls {
		for i := uint32(0); i < d.Count; i++ {
			c.pushLocal(d.Type)
		}
	}
	c.numLocalCells = c.localCells - c.numParamCells

	c.emitOp(OpEntry)
	c.emitU32(c.numLocalCells)

	// The function body itself is the outermost control frame; reaching
	// its End compiles an implicit return of the top-of-stack values.
	c.pushControlFrame(ctrlFunction, typ, -1)

	if err := c.compileBody(); err != nil {
		return nil, err
	}

	return &CompiledFunction{
		Code:            c.code,
		Refs:            c.refs,
		NumParamCells:   c.numParamCells,
		NumResultCells:  cellsOfAll(typ.Results),
		NumLocalCells:   c.numLocalCells,
		MaxStackCells:   c.maxStackHeight,
		LocalCellOffset: c.localOffset,
		Name:            name,
		Type:            typ,
	}, nil
}

func cellsOfAll(ts []wasm.ValType) uint32 {
	var n uint32
	for _, t := range ts {
		n += cellsOf(t)
	}
	return n
}

const (
	ctrlFunction byte = iota
	ctrlBlock
	ctrlLoop
	ctrlIf
)

// ctrlFrame is one entry of the compiler's control stack.
type ctrlFrame struct {
	kind      byte
	blockType *wasm.FunctionType
	baseStack uint32 // operand-stack cell height beneath this frame's params
	loopStart int    // byte offset of the loop header; -1 outside a loop
	ifFixup   int    // position of the IfFalseJump operand, to patch at Else/End; -1 once resolved or n/a
	endFixups []int  // positions of operands to patch with the distance to this frame's End
	unreachable bool // code since the last terminal instruction in this frame is unreachable
}

// compiler holds one function body's lowering state. It is single-use.
type compiler struct {
	module   *wasm.Module
	instance *wasm.ModuleInstance
	funcIdx  wasm.Index
	typ      *wasm.FunctionType
	name     string
	r        *leb128.Reader

	code []byte
	refs []interface{}
	refIndex map[interface{}]uint32

	locals      []wasm.ValType
	localOffset []uint32
	localCells  uint32

	numParamCells uint32
	numLocalCells uint32

	stack          []wasm.ValType
	stackHeight    uint32
	maxStackHeight uint32

	ctrl []ctrlFrame
}

func (c *compiler) fail(context, format string, args ...interface{}) error {
	return compileErrorf(c.name, context, format, args...)
}

func (c *compiler) pushLocal(vt wasm.ValType) {
	c.localOffset = append(c.localOffset, c.localCells)
	c.locals = append(c.locals, vt)
	c.localCells += cellsOf(vt)
}

// ref interns v into the resolved-reference table, returning its index.
// Pointer-typed values (the common case: *wasm.FunctionInstance etc.)
// are deduplicated by identity so repeated calls to the same function
// share one Refs slot.
func (c *compiler) ref(v interface{}) uint32 {
	if idx, ok := c.refIndex[v]; ok {
		return idx
	}
	idx := uint32(len(c.refs))
	c.refs = append(c.refs, v)
	c.refIndex[v] = idx
	return idx
}

func (c *compiler) emitOp(op Op) { c.code = append(c.code, byte(op)) }
func (c *compiler) emitU8(v uint8) { c.code = append(c.code, v) }
func (c *compiler) emitU32(v uint32) {
	c.code = append(c.code, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
func (c *compiler) emitI32At(pos int, v int32) {
	u := uint32(v)
	c.code[pos], c.code[pos+1], c.code[pos+2], c.code[pos+3] = byte(u), byte(u>>8), byte(u>>16), byte(u>>24)
}
func (c *compiler) emitU64(v uint64) {
	for i := 0; i < 8; i++ {
		c.code = append(c.code, byte(v>>(8*i)))
	}
}

func (c *compiler) push(vt wasm.ValType) {
	c.stack = append(c.stack, vt)
	c.stackHeight += cellsOf(vt)
	if c.stackHeight > c.maxStackHeight {
		c.maxStackHeight = c.stackHeight
	}
}

// pop removes and returns the top operand type, or a zero-value wildcard
// (0) without error if the current control frame is already in
// its unreachable (stack-polymorphic) state and has run out of real
// stack entries — mirroring the Wasm validation algorithm's handling of
// unreachable code.
func (c *compiler) pop(context string) (wasm.ValType, error) {
	top := &c.ctrl[len(c.ctrl)-1]
	if uint32(len(c.stack)) == 0 || c.stackHeight <= top.baseStack {
		if top.unreachable {
			return 0, nil
		}
		return 0, c.fail(context, "operand stack underflow")
	}
	vt := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.stackHeight -= cellsOf(vt)
	return vt, nil
}

func (c *compiler) popExpect(context string, want wasm.ValType) error {
	got, err := c.pop(context)
	if err != nil {
		return err
	}
	if got != want && got != 0 { // 0 is the unreachable-wildcard
		return c.fail(context, "expected %s, got %s", wasm.ValTypeName(want), wasm.ValTypeName(got))
	}
	return nil
}

func (c *compiler) pushControlFrame(kind byte, bt *wasm.FunctionType, loopStart int) {
	for _, p := range bt.Params {
		c.push(p)
	}
	c.ctrl = append(c.ctrl, ctrlFrame{
		kind:      kind,
		blockType: bt,
		baseStack: c.stackHeight - cellsOfAll(bt.Params),
		loopStart: loopStart,
		ifFixup:   -1,
	})
}

// labelTypes returns the operand types carried across a branch to frame:
// a loop's own params (branching re-enters at the top) or a block/if/
// function's results (branching exits past the End).
func labelTypes(f *ctrlFrame) []wasm.ValType {
	if f.kind == ctrlLoop {
		return f.blockType.Params
	}
	return f.blockType.Results
}

func (c *compiler) decodeBlockType() (*wasm.FunctionType, error) {
	raw, _, err := leb128.DecodeInt33AsInt64(c.r)
	if err != nil {
		return nil, err
	}
	if raw == -0x40 {
		return &wasm.FunctionType{}, nil
	}
	if raw < 0 {
		return &wasm.FunctionType{Results: []wasm.ValType{wasm.ValType(byte(raw + 128))}}, nil
	}
	idx := uint32(raw)
	if idx >= uint32(len(c.module.TypeSection)) {
		return nil, c.fail("blocktype", "type index %d out of range", idx)
	}
	return c.module.TypeSection[idx], nil
}

// branchTarget emits the jump for a branch of depth (0 = innermost
// enclosing frame) at the current position, choosing a short relative
// form when the target is already known (backward, into a loop header)
// and small enough, and a long form with a deferred fixup otherwise
// (forward, past a block/if/function End).
func (c *compiler) branchTarget(depth uint32, shortOp, longOp Op) error {
	if depth >= uint32(len(c.ctrl)) {
		return c.fail("branch", "depth %d exceeds control stack", depth)
	}
	frame := &c.ctrl[len(c.ctrl)-1-int(depth)]
	if frame.kind == ctrlLoop {
		// Backward branch: the target address is already fixed, so the
		// relative offset (measured from the byte following the operand)
		// can be computed and the short form used whenever it fits.
		shortRel := int64(frame.loopStart) - int64(len(c.code)+2)
		if shortRel >= math.MinInt8 && shortRel <= math.MaxInt8 {
			c.emitOp(shortOp)
			c.emitU8(uint8(int8(shortRel)))
			return nil
		}
		c.emitOp(longOp)
		pos := len(c.code)
		c.code = append(c.code, 0, 0, 0, 0)
		rel := int32(int64(frame.loopStart) - int64(len(c.code)))
		c.emitI32At(pos, rel)
		return nil
	}
	// Forward branch: defer to the frame's End via the long form, since
	// the distance isn't known until the frame closes.
	c.emitOp(longOp)
	pos := len(c.code)
	c.code = append(c.code, 0, 0, 0, 0)
	frame.endFixups = append(frame.endFixups, pos)
	return nil
}

func (c *compiler) patchLongFixup(pos int) {
	rel := int32(len(c.code) - (pos + 4))
	c.emitI32At(pos, rel)
}

// checkBranchArity pops then restores a label's result types, so a
// br/br_if/br_table target type-checks without disturbing the operand
// stack the fallthrough path still needs.
func (c *compiler) checkBranchArity(depth uint32, context string) error {
	frame := &c.ctrl[len(c.ctrl)-1-int(depth)]
	types := labelTypes(frame)
	saved := make([]wasm.ValType, 0, len(types))
	for i := len(types) - 1; i >= 0; i-- {
		vt, err := c.pop(context)
		if err != nil {
			return err
		}
		saved = append(saved, vt)
	}
	for i := len(saved) - 1; i >= 0; i-- {
		c.push(saved[i])
	}
	return nil
}

func (c *compiler) markUnreachable() {
	c.ctrl[len(c.ctrl)-1].unreachable = true
}
