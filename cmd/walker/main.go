// Command walker runs, checks and formats syntax-tree programs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/thomasrohde/walker/pkg/config"
	"github.com/thomasrohde/walker/pkg/diagnostics"
	"github.com/thomasrohde/walker/pkg/evaluator"
	"github.com/thomasrohde/walker/pkg/formatter"
	"github.com/thomasrohde/walker/pkg/help"
	"github.com/thomasrohde/walker/pkg/runtime"
)

// Exit codes.
const (
	exitOK       = 0
	exitUsage    = 1
	exitInvalid  = 2
	exitBudget   = 3
	exitRuntime  = 4
	exitInternal = 6
)

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cwd    string
}

func main() {
	cwd, _ := os.Getwd()
	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, cwd: cwd}
	os.Exit(c.run(os.Args[1:]))
}

func (c *cli) run(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(c.stderr, "usage: walker <command> [options]")
		fmt.Fprintln(c.stderr, "commands: run, check, fmt, trace, repl, help, config")
		return exitUsage
	}

	switch args[0] {
	case "run":
		return c.cmdRun(args[1:])
	case "check":
		return c.cmdCheck(args[1:])
	case "fmt":
		return c.cmdFmt(args[1:])
	case "trace":
		return c.cmdTrace(args[1:])
	case "repl":
		return c.cmdRepl(args[1:])
	case "help", "--help", "-h":
		return c.cmdHelp(args[1:])
	case "config":
		return c.cmdConfig(args[1:])
	case "version", "--version":
		fmt.Fprintln(c.stdout, "walker", help.Version)
		return exitOK
	default:
		fmt.Fprintf(c.stderr, "Unknown command: %s\n", args[0])
		return exitUsage
	}
}

func (c *cli) cmdRun(args []string) int {
	var file, tracePath, arity string
	pretty := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--pretty":
			pretty = true
		case "--trace":
			if i+1 < len(args) {
				i++
				tracePath = args[i]
			}
		case "--arity":
			if i+1 < len(args) {
				i++
				arity = args[i]
			}
		default:
			if args[i] == "-" || !strings.HasPrefix(args[i], "-") {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(c.stderr, "usage: walker run <file> [--pretty] [--trace <out.jsonl>] [--arity loose|null|strict]")
		return exitUsage
	}

	cfg, code := c.loadConfig(pretty)
	if code != exitOK {
		return code
	}
	log := newLogger(cfg, c.stderr)

	source, filename, code := c.readSource(file, pretty)
	if code != exitOK {
		return code
	}

	opts := []runtime.Option{runtime.WithConfig(cfg), runtime.WithOutput(c.stdout)}
	if arity != "" {
		policy, err := evaluator.ParseArityPolicy(arity)
		if err != nil {
			fmt.Fprintln(c.stderr, err)
			return exitUsage
		}
		opts = append(opts, runtime.WithArity(policy))
	}

	sink, err := newTraceSink(log, tracePath)
	if err != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot create trace file: %s", tracePath), nil, ""), pretty)
		return exitUsage
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.WithError(err).Warn("trace file incomplete")
		}
	}()
	opts = append(opts, runtime.WithTrace(sink.Emit))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rt := runtime.New(opts...)
	result, execErr := rt.Run(ctx, source, filename)
	if result != nil {
		log.WithFields(logrus.Fields{
			"run_id":     result.RunID,
			"calls":      result.Stats.Calls,
			"natives":    result.Stats.NativeCalls,
			"statements": result.Stats.Statements,
			"max_depth":  result.Stats.MaxDepth,
		}).Debug("run finished")
	}
	if execErr != nil {
		return c.fail(log, execErr, pretty)
	}

	out, err := evaluator.ValueToJSON(result.Value)
	if err != nil {
		log.WithError(err).Warn("result is not representable as JSON")
		fmt.Fprintln(c.stdout, formatter.FormatValue(result.Value))
		return exitOK
	}
	fmt.Fprintln(c.stdout, string(out))
	return exitOK
}

func (c *cli) cmdCheck(args []string) int {
	var file string
	pretty := false

	for _, arg := range args {
		switch arg {
		case "--pretty":
			pretty = true
		default:
			if arg == "-" || !strings.HasPrefix(arg, "-") {
				file = arg
			}
		}
	}

	if file == "" {
		fmt.Fprintln(c.stderr, "usage: walker check <file> [--pretty]")
		return exitUsage
	}

	source, filename, code := c.readSource(file, pretty)
	if code != exitOK {
		return code
	}

	diags := runtime.New().Check(source, filename)
	if len(diags) > 0 {
		fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(diags, pretty))
		return exitInvalid
	}

	if pretty {
		fmt.Fprintln(c.stdout, "No errors found.")
	} else {
		fmt.Fprintln(c.stdout, "[]")
	}
	return exitOK
}

func (c *cli) cmdFmt(args []string) int {
	var file string
	for _, arg := range args {
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			file = arg
		}
	}

	if file == "" {
		fmt.Fprintln(c.stderr, "usage: walker fmt <file>")
		return exitUsage
	}

	source, filename, code := c.readSource(file, false)
	if code != exitOK {
		return code
	}

	formatted, err := runtime.New().Format(source, filename)
	if err != nil {
		fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(runtime.Diagnostics(err), false))
		return exitInvalid
	}
	fmt.Fprint(c.stdout, formatted)
	return exitOK
}

func (c *cli) cmdHelp(args []string) int {
	showIndex := false
	topic := ""
	for _, arg := range args {
		if arg == "--index" {
			showIndex = true
		} else if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	if showIndex {
		if topic != "" && topic != "stdlib" {
			fmt.Fprintln(c.stderr, "error: --index is only supported for the stdlib topic")
			return exitUsage
		}
		fmt.Fprint(c.stdout, help.StdlibIndex())
		return exitOK
	}

	if topic == "" {
		fmt.Fprint(c.stdout, help.QUICKREF)
		return exitOK
	}

	_, content, err := help.MatchTopic(topic)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return exitUsage
	}
	fmt.Fprint(c.stdout, content)
	return exitOK
}

func (c *cli) cmdConfig(_ []string) int {
	cfg, code := c.loadConfig(false)
	if code != exitOK {
		return code
	}
	out, err := cfg.Marshal()
	if err != nil {
		fmt.Fprintf(c.stderr, "error rendering config: %s\n", err)
		return exitUsage
	}
	fmt.Fprintf(c.stdout, "# source: %s\n%s", cfg.Source, out)
	return exitOK
}

func (c *cli) loadConfig(pretty bool) (*config.Config, int) {
	cfg, err := config.Load(c.cwd)
	if err != nil {
		fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(runtime.Diagnostics(err), pretty))
		return nil, exitUsage
	}
	return cfg, exitOK
}

func (c *cli) readSource(file string, pretty bool) ([]byte, string, int) {
	if file == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read stdin: %s", err), nil, ""), pretty)
			return nil, "", exitUsage
		}
		return data, "<stdin>", exitOK
	}

	data, err := os.ReadFile(file)
	if err != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, ""), pretty)
		return nil, "", exitUsage
	}
	return data, file, exitOK
}

func (c *cli) report(d diagnostics.Diagnostic, pretty bool) {
	fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{d}, pretty))
}

// fail prints the diagnostics for err and returns the matching exit code.
func (c *cli) fail(log logrus.FieldLogger, err error, pretty bool) int {
	var inErr *evaluator.InternalError
	if errors.As(err, &inErr) {
		log.WithField("node_kind", inErr.NodeKind).Error(inErr.Message)
	}
	fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(runtime.Diagnostics(err), pretty))
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	var (
		diagErr *runtime.DiagnosticError
		rtErr   *evaluator.RuntimeError
		inErr   *evaluator.InternalError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &diagErr):
		return exitInvalid
	case errors.As(err, &inErr):
		return exitInternal
	case errors.Is(err, evaluator.ErrBudget), errors.Is(err, evaluator.ErrCanceled):
		return exitBudget
	case errors.As(err, &rtErr):
		return exitRuntime
	}
	return exitUsage
}
