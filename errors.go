package wasmcore

import "fmt"

// LookupError reports an embedder-side "module or function not found"
// failure — a mistake in how the embedding surface is being driven,
// rather than a problem with a module's bytes or its execution.
type LookupError struct {
	Module string
	Name   string
}

func (e *LookupError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("wasmcore: module %q not found", e.Module)
	}
	return fmt.Sprintf("wasmcore: %s.%s not found", e.Module, e.Name)
}

func moduleNotFoundError(module string) error {
	return &LookupError{Module: module}
}

func functionNotFoundError(module, name string) error {
	return &LookupError{Module: module, Name: name}
}

// stateError reports a LoadModule/RegisterHostModule call after
// CompileAndLink has already run, or a second CompileAndLink call —
// both one-shot transitions in a Runtime's lifecycle.
type stateError struct {
	op, reason string
}

func (e *stateError) Error() string {
	return fmt.Sprintf("wasmcore: %s: %s", e.op, e.reason)
}
