package wasm

import "fmt"

// ValidationError reports a structural-validity violation found by the
// module-level validator: limits out of range, duplicate export names,
// a malformed start function, or a bad constant expression.
type ValidationError struct {
	Module  string
	Context string // e.g. "export[2]", "global[0]", "table 0"
	Message string
}

func (e *ValidationError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%s: %s", e.Module, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Module, e.Context, e.Message)
}

func validationErrorf(module, context, format string, args ...interface{}) error {
	return &ValidationError{Module: module, Context: context, Message: fmt.Sprintf(format, args...)}
}
