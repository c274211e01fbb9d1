// Package wasmcore is a standalone WebAssembly 1.0 interpreter
// embeddable in a host application. A Runtime owns every module it
// registers; CompileAndLink is a one-shot transition from "registered"
// to "linked and compiled", after which exported functions are
// invocable.
package wasmcore

import (
	"context"
	"fmt"

	"github.com/PreyMa/wasmcore/internal/engine/interpreter"
	"github.com/PreyMa/wasmcore/internal/linker"
	"github.com/PreyMa/wasmcore/internal/wasm"
	"github.com/PreyMa/wasmcore/internal/wasm/binary"
)

// Runtime is the embedding surface's entry point: it registers Wasm
// binaries and host modules, links and compiles them in one shot, and
// hands out invocable function handles. A Runtime is not safe for
// concurrent use — it runs its modules cooperatively on a single
// goroutine.
type Runtime struct {
	config *RuntimeConfig
	engine *interpreter.Engine

	// typeInterner assigns every FunctionType used by any module or host
	// function this Runtime links a stable, shared index, so CallIndirect
	// can compare indices instead of signatures across module boundaries.
	typeInterner *wasm.TypeInterner

	linked bool

	// order is registration order across both Wasm and host modules,
	// preserved so run_start_functions and compile_and_link's linking
	// pass run deterministically.
	order []string

	pending map[string]*wasm.Module // registered Wasm modules awaiting compile_and_link
	sources map[string]*wasm.Module // retained post-link for name-section fallback

	instances map[string]*wasm.ModuleInstance // populated incrementally during compile_and_link
}

// NewRuntime constructs a Runtime from config. A nil config is
// equivalent to NewRuntimeConfig().
func NewRuntime(config *RuntimeConfig) *Runtime {
	if config == nil {
		config = NewRuntimeConfig()
	}
	return &Runtime{
		config:       config,
		engine:       interpreter.NewEngineWithLimits(config.maxCallDepth, config.maxStackCells),
		typeInterner: wasm.NewTypeInterner(),
		pending:      make(map[string]*wasm.Module),
		sources:      make(map[string]*wasm.Module),
		instances:    make(map[string]*wasm.ModuleInstance),
	}
}

// LoadModule decodes and validates a Wasm binary and registers it under
// name, to be linked on the next CompileAndLink call. Fails if
// CompileAndLink has already run, or name is already registered.
func (r *Runtime) LoadModule(name string, source []byte) error {
	if r.linked {
		return &stateError{"load_module", "compile_and_link has already run"}
	}
	if _, exists := r.pending[name]; exists {
		return &stateError{"load_module", fmt.Sprintf("module %q already registered", name)}
	}
	if _, exists := r.instances[name]; exists {
		return &stateError{"load_module", fmt.Sprintf("module %q already registered", name)}
	}

	mod, err := binary.DecodeModule(name, source)
	if err != nil {
		return err
	}
	r.config.introspector.OnModuleDecoded(name)

	if err := mod.Validate(); err != nil {
		return err
	}
	r.config.introspector.OnModuleValidated(name)

	r.pending[name] = mod
	r.sources[name] = mod
	r.order = append(r.order, name)
	return nil
}

// RegisterHostModule installs a named host module built from builder,
// making its functions, memory, table, and globals importable by Wasm
// modules linked in the same Runtime. Unlike a Wasm module, a host
// module has no body to compile, so it is instantiated immediately and
// returns a ModuleHandle the embedder can use to peek or poke its
// memory and globals directly.
func (r *Runtime) RegisterHostModule(name string, builder *HostModuleBuilder) (*ModuleHandle, error) {
	if r.linked {
		return nil, &stateError{"register_host_module", "compile_and_link has already run"}
	}
	if _, exists := r.pending[name]; exists {
		return nil, &stateError{"register_host_module", fmt.Sprintf("module %q already registered", name)}
	}
	if _, exists := r.instances[name]; exists {
		return nil, &stateError{"register_host_module", fmt.Sprintf("module %q already registered", name)}
	}

	inst := builder.build(name, r)
	r.instances[name] = inst
	r.order = append(r.order, name)
	return &ModuleHandle{instance: inst, runtime: r}, nil
}

// CompileAndLink resolves every registered module's imports against its
// siblings (in registration order — a module may only import from a
// module registered earlier), applies element/data segments, and
// compiles every function body to internal bytecode. One-shot: a
// second call fails.
func (r *Runtime) CompileAndLink() error {
	if r.linked {
		return &stateError{"compile_and_link", "already linked"}
	}
	r.linked = true

	for _, name := range r.order {
		mod, isWasm := r.pending[name]
		if !isWasm {
			continue // host module: already instantiated by RegisterHostModule
		}
		inst, err := linker.Instantiate(mod, name, r, r.typeInterner)
		if err != nil {
			return err
		}
		r.instances[name] = inst
		for _, imp := range mod.ImportSection {
			r.config.introspector.OnLink(name, imp.Module, imp.Name)
		}
		r.introspectCompiled(name, inst)
	}
	return nil
}

// Resolve implements linker.Resolver, looking up an already-instantiated
// sibling module by registration name.
func (r *Runtime) Resolve(moduleName string) (*wasm.ModuleInstance, bool) {
	inst, ok := r.instances[moduleName]
	return inst, ok
}

func (r *Runtime) introspectCompiled(moduleName string, inst *wasm.ModuleInstance) {
	for _, fn := range inst.Functions {
		if fn.Module == inst { // skip imported functions, only locally defined ones compiled here
			r.config.introspector.OnCompile(moduleName, fn.Name)
		}
	}
}

// FunctionByName returns an invocable handle for the named export of
// moduleName. When no export matches and debug names are enabled
// (RuntimeConfig.WithDebugNames, default true), falls back to the
// function named in the module's name custom section.
func (r *Runtime) FunctionByName(moduleName, funcName string) (*FunctionHandle, error) {
	if !r.linked {
		return nil, &stateError{"function_by_name", "compile_and_link has not run yet"}
	}
	inst, ok := r.instances[moduleName]
	if !ok {
		return nil, moduleNotFoundError(moduleName)
	}

	fn, err := inst.ExportedFunction(funcName)
	if err == nil {
		return &FunctionHandle{fn: fn, runtime: r}, nil
	}

	if r.config.debugNames {
		if src, ok := r.sources[moduleName]; ok && src.NameSection != nil {
			for _, assoc := range src.NameSection.FunctionNames {
				if assoc.Name == funcName && int(assoc.Index) < len(inst.Functions) {
					return &FunctionHandle{fn: inst.Functions[assoc.Index], runtime: r}, nil
				}
			}
		}
	}

	return nil, functionNotFoundError(moduleName, funcName)
}

// RunStartFunctions invokes every registered module's declared start
// function, in registration order. Must run after CompileAndLink.
func (r *Runtime) RunStartFunctions(ctx context.Context) error {
	if !r.linked {
		return &stateError{"run_start_functions", "compile_and_link has not run yet"}
	}
	if ctx == nil {
		ctx = r.config.ctx
	}
	for _, name := range r.order {
		inst, ok := r.instances[name]
		if !ok || inst.StartFunctionIndex == nil {
			continue
		}
		fn := inst.Functions[*inst.StartFunctionIndex]
		if _, err := r.call(ctx, fn); err != nil {
			return fmt.Errorf("wasmcore: start function of %q: %w", name, err)
		}
	}
	return nil
}

// Module returns the named module's post-link view, or nil if unknown
// or not yet linked.
func (r *Runtime) Module(name string) *ModuleHandle {
	inst, ok := r.instances[name]
	if !ok {
		return nil
	}
	return &ModuleHandle{instance: inst, runtime: r}
}

func (r *Runtime) call(ctx context.Context, fn *wasm.FunctionInstance) ([]uint64, error) {
	results, err := r.engine.Call(ctx, fn, nil)
	if err != nil {
		r.config.introspector.OnTrap(moduleNameOf(fn), fn.Name, err)
	}
	return results, err
}

func moduleNameOf(fn *wasm.FunctionInstance) string {
	if fn.Module == nil {
		return ""
	}
	return fn.Module.Name
}

// FunctionHandle is an invocable handle returned by FunctionByName.
type FunctionHandle struct {
	fn      *wasm.FunctionInstance
	runtime *Runtime
}

// ParamTypes returns the handle's declared parameter types.
func (h *FunctionHandle) ParamTypes() []byte { return h.fn.Type.Params }

// ResultTypes returns the handle's declared result types.
func (h *FunctionHandle) ResultTypes() []byte { return h.fn.Type.Results }

// RunFunction type-checks args against the function's declared
// signature (by count only — wasmcore's stack cells are untyped
// uint64s, so a mismatched ValueType at the right position is a caller
// bug, not a runtime check) and executes it, copying args onto the
// value stack in declaration order. When ctx is nil, defaults to the
// owning Runtime's configured context.
func (h *FunctionHandle) RunFunction(ctx context.Context, args ...uint64) ([]uint64, error) {
	if len(args) != len(h.fn.Type.Params) {
		return nil, fmt.Errorf("wasmcore: %s: expected %d args, got %d", h.fn.Name, len(h.fn.Type.Params), len(args))
	}
	if ctx == nil {
		ctx = h.runtime.config.ctx
	}
	results, err := h.runtime.engine.Call(ctx, h.fn, args)
	if err != nil {
		h.runtime.config.introspector.OnTrap(moduleNameOf(h.fn), h.fn.Name, err)
	}
	return results, err
}
