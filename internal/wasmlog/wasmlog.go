// Package wasmlog provides a structured-logging Introspector
// implementation for embedders who want decode/link/compile/trap events
// surfaced as leveled zap fields instead of writing their own sink,
// mirroring how wippyai-wasm-runtime's linker package threads a
// package-level *zap.Logger through its instantiation path.
package wasmlog

import "go.uber.org/zap"

// Introspector logs every event at Debug level except traps, which log
// at Warn, using structured fields (module name, function name) rather
// than formatted strings.
type Introspector struct {
	log *zap.Logger
}

// New wraps log as an Introspector. A nil log falls back to zap.NewNop,
// matching the teacher's Logger()'s no-op-by-default convention.
func New(log *zap.Logger) *Introspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Introspector{log: log}
}

func (i *Introspector) OnModuleDecoded(moduleName string) {
	i.log.Debug("module decoded", zap.String("module", moduleName))
}

func (i *Introspector) OnModuleValidated(moduleName string) {
	i.log.Debug("module validated", zap.String("module", moduleName))
}

func (i *Introspector) OnLink(importerName, exporterName, importName string) {
	i.log.Debug("import resolved",
		zap.String("importer", importerName),
		zap.String("exporter", exporterName),
		zap.String("name", importName),
	)
}

func (i *Introspector) OnCompile(moduleName, functionName string) {
	i.log.Debug("function compiled",
		zap.String("module", moduleName),
		zap.String("function", functionName),
	)
}

func (i *Introspector) OnTrap(moduleName, functionName string, err error) {
	i.log.Warn("trap",
		zap.String("module", moduleName),
		zap.String("function", functionName),
		zap.Error(err),
	)
}
