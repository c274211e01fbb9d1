// Command wasmrun loads one or more WebAssembly binaries into a
// wasmcore.Runtime, links them, runs their start functions, and
// optionally invokes a named export, printing its results. It exists to
// exercise the module's embedding surface end to end from the command
// line; it is deliberately thin and holds no interpreter logic of its
// own.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PreyMa/wasmcore"
	"github.com/PreyMa/wasmcore/internal/wasmlog"
	"github.com/PreyMa/wasmcore/internal/wasmmetrics"
)

type params struct {
	modules      []string // "name=path.wasm" pairs, registration order
	callModule   string
	callFunc     string
	callArgs     []int64
	verbose      bool
	metricsAddr  string
	maxCallDepth int
}

func run(p params) error {
	ctx := context.Background()

	config := wasmcore.NewRuntimeConfig().
		WithContext(ctx).
		WithMaxCallDepth(p.maxCallDepth)

	if p.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("wasmrun: building logger: %w", err)
		}
		config = config.WithIntrospector(wasmlog.New(logger))
	}

	var metrics *wasmmetrics.Introspector
	if p.metricsAddr != "" {
		metrics = wasmmetrics.New("wasmrun")
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			return fmt.Errorf("wasmrun: registering metrics: %w", err)
		}
		config = config.WithIntrospector(metrics)
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			_ = http.ListenAndServe(p.metricsAddr, nil)
		}()
	}

	runtime := wasmcore.NewRuntime(config)

	for _, entry := range p.modules {
		name, path, err := splitModuleFlag(entry)
		if err != nil {
			return err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("wasmrun: reading %s: %w", path, err)
		}
		if err := runtime.LoadModule(name, source); err != nil {
			return fmt.Errorf("wasmrun: loading %s: %w", name, err)
		}
	}

	if err := runtime.CompileAndLink(); err != nil {
		return fmt.Errorf("wasmrun: compile_and_link: %w", err)
	}

	if err := runtime.RunStartFunctions(ctx); err != nil {
		return err
	}

	if p.callFunc == "" {
		return nil
	}

	fn, err := runtime.FunctionByName(p.callModule, p.callFunc)
	if err != nil {
		return err
	}

	args := make([]uint64, len(p.callArgs))
	for i, a := range p.callArgs {
		args[i] = uint64(a)
	}

	results, err := fn.RunFunction(ctx, args...)
	if err != nil {
		return err
	}

	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = strconv.FormatUint(r, 10)
	}
	fmt.Println(strings.Join(parts, " "))
	return nil
}

func splitModuleFlag(entry string) (name, path string, err error) {
	idx := strings.IndexByte(entry, '=')
	if idx < 0 {
		return "", "", fmt.Errorf("wasmrun: --module value %q must be name=path.wasm", entry)
	}
	return entry[:idx], entry[idx+1:], nil
}

func main() {
	p := params{maxCallDepth: 2048}

	command := &cobra.Command{
		Use:   "wasmrun",
		Short: "Load, link, and run WebAssembly modules through wasmcore",
		Long: `wasmrun loads one or more WebAssembly binaries, links them against
each other in registration order, runs their start functions, and
optionally calls a named export.

Example

	wasmrun --module math=./math.wasm --call-module math --call-func add --arg 2 --arg 3
`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(p)
		},
	}

	flags := command.Flags()
	flags.StringArrayVarP(&p.modules, "module", "m", nil, "register a module as name=path.wasm (repeatable, registration order matters)")
	flags.StringVar(&p.callModule, "call-module", "", "module to invoke --call-func on (defaults to the last --module)")
	flags.StringVar(&p.callFunc, "call-func", "", "exported function name to invoke after linking")
	flags.Int64SliceVar(&p.callArgs, "arg", nil, "argument to pass to --call-func, repeatable, in order")
	flags.BoolVarP(&p.verbose, "verbose", "v", false, "log decode/link/compile/trap events")
	flags.StringVar(&p.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090); empty disables")
	flags.IntVar(&p.maxCallDepth, "max-call-depth", 2048, "maximum interpreter call stack depth before a trap")

	command.PreRunE = func(_ *cobra.Command, _ []string) error {
		if p.callFunc != "" && p.callModule == "" {
			if len(p.modules) == 0 {
				return fmt.Errorf("wasmrun: --call-func requires --call-module or at least one --module")
			}
			name, _, err := splitModuleFlag(p.modules[len(p.modules)-1])
			if err != nil {
				return err
			}
			p.callModule = name
		}
		return nil
	}

	if err := command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
