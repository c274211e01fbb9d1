// Package linker resolves a decoded module's imports against already
// instantiated modules, applies its active element/data segments, and
// drives per-function compilation, producing a ready-to-run
// *wasm.ModuleInstance.
package linker

import (
	"fmt"

	wasm "github.com/PreyMa/wasmcore/internal/wasm"
)

// LinkError reports a failure to resolve or type-check an import, or a
// structural problem discovered while instantiating a module.
type LinkError struct {
	Module  string
	Name    string
	Message string
}

func (e *LinkError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("link %s: %s", e.Module, e.Message)
	}
	return fmt.Sprintf("link %s.%s: %s", e.Module, e.Name, e.Message)
}

func missingImportError(mod, name string) error {
	return &LinkError{Module: mod, Name: name, Message: "unknown import"}
}

func kindMismatchError(mod, name string, want, got byte) error {
	return &LinkError{Module: mod, Name: name, Message: fmt.Sprintf("import kind mismatch: module declares %s, host provides %s", wasm.ExternTypeName(want), wasm.ExternTypeName(got))}
}

func incompatibleTypeError(mod, name, detail string) error {
	return &LinkError{Module: mod, Name: name, Message: "incompatible type: " + detail}
}

// segmentOutOfRangeError reports an active element or data segment whose
// offset plus length runs past the end of its target table or memory.
func segmentOutOfRangeError(moduleName, kind string, offset, length, capacity int) error {
	return &LinkError{
		Module: moduleName,
		Message: fmt.Sprintf("active %s segment out of range: offset %d + length %d exceeds capacity %d",
			kind, offset, length, capacity),
	}
}
