package wazeroir

import "fmt"

// CompileError reports a failure while lowering a function body to
// internal bytecode: a type mismatch the validator should have caught
// upstream, an unsupported construct, or a structural problem with the
// control stack (e.g. an else without a matching if).
type CompileError struct {
	FunctionName string
	Context      string
	Message      string
}

func (e *CompileError) Error() string {
	if e.FunctionName == "" {
		return fmt.Sprintf("compile: %s: %s", e.Context, e.Message)
	}
	return fmt.Sprintf("compile %s: %s: %s", e.FunctionName, e.Context, e.Message)
}

func compileErrorf(fn, context, format string, args ...interface{}) error {
	return &CompileError{FunctionName: fn, Context: context, Message: fmt.Sprintf(format, args...)}
}
