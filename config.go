package wasmcore

import "context"

// RuntimeConfig controls Runtime behavior. The zero value is never used
// directly; construct one with NewRuntimeConfig.
//
// RuntimeConfig is immutable: each With* method returns a modified copy,
// so a shared base config can be safely specialized per Runtime without
// the specializations affecting each other.
type RuntimeConfig struct {
	ctx context.Context

	// maxCallDepth bounds call-frame nesting; exceeding it traps with
	// ErrRuntimeCallStackOverflow rather than exhausting the host
	// goroutine's stack.
	maxCallDepth int

	// maxStackCells bounds the shared value stack's growth, in uint64
	// cells; a function whose operand stack would exceed it traps even
	// without deep call nesting.
	maxStackCells int

	// debugNames toggles whether function_by_name falls back to the
	// name custom section when no export matches.
	debugNames bool

	introspector Introspector
}

// defaultConfig holds the baseline every NewRuntimeConfig clones from.
var defaultConfig = &RuntimeConfig{
	ctx:           context.Background(),
	maxCallDepth:  2048,
	maxStackCells: 2048,
	debugNames:    true,
	introspector:  noopIntrospector{},
}

// NewRuntimeConfig returns a RuntimeConfig with wasmcore's defaults: the
// background context, a 2048-frame call-depth ceiling, a 2048-cell
// (16 KiB) value-stack ceiling, name-section fallback enabled, and no
// introspector attached.
func NewRuntimeConfig() *RuntimeConfig {
	return defaultConfig.clone()
}

// clone ensures all fields are copied even if zero-valued, so a With*
// call never mutates the receiver's config.
func (c *RuntimeConfig) clone() *RuntimeConfig {
	ret := *c
	return &ret
}

// WithContext sets the default context used to run start functions and
// as the default for RunFunction when the caller passes nil. Defaults
// to context.Background.
func (c *RuntimeConfig) WithContext(ctx context.Context) *RuntimeConfig {
	if ctx == nil {
		ctx = context.Background()
	}
	ret := c.clone()
	ret.ctx = ctx
	return ret
}

// WithMaxCallDepth bounds the number of nested Wasm-to-Wasm calls a
// single RunFunction invocation may make before trapping with
// ErrRuntimeCallStackOverflow.
func (c *RuntimeConfig) WithMaxCallDepth(depth int) *RuntimeConfig {
	ret := c.clone()
	ret.maxCallDepth = depth
	return ret
}

// WithMaxStackCells bounds the shared value stack's growth, in uint64
// cells, before a call traps with a value-stack-overflow sentinel.
func (c *RuntimeConfig) WithMaxStackCells(cells int) *RuntimeConfig {
	ret := c.clone()
	ret.maxStackCells = cells
	return ret
}

// WithDebugNames toggles whether function_by_name consults the name
// custom section when a module has no export of the requested name.
// Defaults to true.
func (c *RuntimeConfig) WithDebugNames(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.debugNames = enabled
	return ret
}

// WithIntrospector attaches an observer that receives callbacks from
// the decoder, validator, linker, and compiler. Passing nil restores
// the no-op default. The callbacks named below are the observable
// surface of the otherwise-silent decode/validate/link/compile pipeline.
func (c *RuntimeConfig) WithIntrospector(introspector Introspector) *RuntimeConfig {
	ret := c.clone()
	if introspector == nil {
		introspector = noopIntrospector{}
	}
	ret.introspector = introspector
	return ret
}

// Introspector observes the phases a module passes through on its way
// from raw bytes to a runnable export. Every method is best-effort
// notification only; the core functions identically whether or not one
// is attached.
type Introspector interface {
	// OnModuleDecoded fires once a binary has been decoded into module
	// records, before validation.
	OnModuleDecoded(moduleName string)

	// OnModuleValidated fires once a decoded module has passed static
	// validation.
	OnModuleValidated(moduleName string)

	// OnLink fires once per resolved import, naming the importer and
	// the module it resolved against.
	OnLink(importerName, exporterName, importName string)

	// OnCompile fires once a function body has been lowered to internal
	// bytecode.
	OnCompile(moduleName, functionName string)

	// OnTrap fires when a RunFunction call unwinds with a runtime trap.
	OnTrap(moduleName, functionName string, err error)
}

// noopIntrospector is the default Introspector: every event is a no-op.
type noopIntrospector struct{}

func (noopIntrospector) OnModuleDecoded(string)           {}
func (noopIntrospector) OnModuleValidated(string)          {}
func (noopIntrospector) OnLink(string, string, string)     {}
func (noopIntrospector) OnCompile(string, string)          {}
func (noopIntrospector) OnTrap(string, string, error)      {}
