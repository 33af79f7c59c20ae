package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/remaplang/remap/internal/backend"
	"github.com/remaplang/remap/internal/compiler"
	"github.com/remaplang/remap/internal/config"
	"github.com/remaplang/remap/internal/enrichment"
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/stdlib"
	"github.com/remaplang/remap/internal/value"
	"github.com/remaplang/remap/internal/vm"
)

// BackendType determines the execution backend.
// Can be set at build time using: -ldflags "-X main.BackendType=tree-walk"
var BackendType = config.DefaultBackendName

type options struct {
	backendName string
	source      string
	sourcePath  string
	eventPath   string
	tables      []string
}

func usage() {
	prog := os.Args[0]
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <file%s>\n", prog, config.SourceFileExt)
	fmt.Fprintf(os.Stderr, "       %s [options] -e <expression>\n", prog)
	fmt.Fprintf(os.Stderr, "       echo <expression> | %s [options]\n", prog)
	fmt.Fprintln(os.Stderr, "\nOptions:")
	fmt.Fprintln(os.Stderr, "  -e <expression>      evaluate an inline expression")
	fmt.Fprintln(os.Stderr, "  -event <file.json>   event to evaluate against (default: empty)")
	fmt.Fprintln(os.Stderr, "  -table <name=path>   register a SQLite enrichment table (repeatable)")
	fmt.Fprintln(os.Stderr, "  -backend <name>      execution backend: vm or tree-walk")
}

func parseArgs(args []string) (*options, error) {
	opts := &options{backendName: BackendType}
	i := 0
	next := func(flag string) (string, error) {
		i++
		if i >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i], nil
	}
	for ; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-help", "--help", "help":
			usage()
			os.Exit(0)
		case "-e", "--expression":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			opts.source = v
		case "-event", "--event":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			opts.eventPath = v
		case "-table", "--table":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			opts.tables = append(opts.tables, v)
		case "-backend", "--backend":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			opts.backendName = v
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown option %s", arg)
			}
			if opts.sourcePath != "" {
				return nil, fmt.Errorf("multiple source files: %s and %s", opts.sourcePath, arg)
			}
			opts.sourcePath = arg
		}
	}
	return opts, nil
}

func readSource(opts *options) (string, error) {
	if opts.source != "" {
		return opts.source, nil
	}
	if opts.sourcePath != "" {
		b, err := os.ReadFile(opts.sourcePath)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("no expression given and stdin is a terminal")
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readEvent(path string) (*value.Object, error) {
	if path == "" {
		return value.NewObject(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("event must be a json object: %w", err)
	}
	v, err := value.FromInterface(data)
	if err != nil {
		return nil, err
	}
	return v.(*value.Object), nil
}

func registerTables(specs []string) (*enrichment.Registry, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	reg := enrichment.NewRegistry()
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("table spec %q must be name=path", spec)
		}
		if err := reg.Register(name, path); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func selectBackend(name string, registry *function.Registry) (backend.Backend, error) {
	switch name {
	case "vm":
		return backend.NewVM(vm.NewDispatch(registry.Functions())), nil
	case "tree", "tree-walk":
		return backend.NewTreeWalk(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want vm or tree-walk)", name)
	}
}

func printResult(v value.Value) error {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Println(v.Inspect())
		return nil
	}
	// Piped output is machine-readable json.
	b, err := json.Marshal(value.ToInterface(v))
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func run() error {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}
	source, err := readSource(opts)
	if err != nil {
		return err
	}
	if strings.TrimSpace(source) == "" {
		return nil
	}

	event, err := readEvent(opts.eventPath)
	if err != nil {
		return err
	}
	tables, err := registerTables(opts.tables)
	if err != nil {
		return err
	}
	if tables != nil {
		defer tables.Close()
	}

	registry := stdlib.NewRegistry()
	exec, err := selectBackend(opts.backendName, registry)
	if err != nil {
		return err
	}

	c := compiler.New(registry, nil, &function.CompileContext{Tables: tables})
	prog, err := c.CompileSource(strings.TrimSpace(source))
	if err != nil {
		return err
	}

	ctx := expression.NewContext(event)
	ctx.Tables = tables
	result, err := exec.Run(prog, ctx)
	if err != nil {
		return err
	}
	return printResult(result)
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
