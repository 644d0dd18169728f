package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/thomasrohde/walker/pkg/diagnostics"
	"github.com/thomasrohde/walker/pkg/evaluator"
	"github.com/thomasrohde/walker/pkg/formatter"
	"github.com/thomasrohde/walker/pkg/help"
	"github.com/thomasrohde/walker/pkg/runtime"
)

const (
	historyFile = ".walker_history"
	promptMain  = "walker> "
)

const replHelp = `Enter one JSON node per line, e.g.
  {"kind": "NumericLiteral", "value": 1}
Commands:
  :env    list bindings made in this session
  :reset  discard all bindings
  :quit   leave the REPL`

// prompter is the part of liner.State the REPL loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
}

func (c *cli) cmdRepl(_ []string) int {
	cfg, code := c.loadConfig(true)
	if code != exitOK {
		return code
	}
	log := newLogger(cfg, c.stderr)
	sink, _ := newTraceSink(log, "")

	fmt.Fprintf(c.stdout, "walker %s REPL. Type :help for commands.\n", help.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	rt := runtime.New(runtime.WithConfig(cfg), runtime.WithOutput(c.stdout), runtime.WithTrace(sink.Emit))
	return c.replLoop(context.Background(), ln, rt.NewSession(), ln.AppendHistory)
}

func (c *cli) replLoop(ctx context.Context, p prompter, sess *runtime.Session, remember func(string)) int {
	for {
		line, err := p.Prompt(promptMain)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.stdout)
			return exitOK
		}
		if err != nil {
			fmt.Fprintln(c.stderr, err)
			return exitUsage
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if remember != nil {
			remember(line)
		}

		if strings.HasPrefix(line, ":") {
			switch strings.ToLower(line) {
			case ":quit", ":q", ":exit":
				return exitOK
			case ":reset":
				sess.Reset()
				fmt.Fprintln(c.stdout, "environment reset")
			case ":env":
				c.printBindings(sess.Env())
			case ":help":
				fmt.Fprintln(c.stdout, replHelp)
			default:
				fmt.Fprintln(c.stdout, "unknown command. Type :help for commands.")
			}
			continue
		}

		val, err := sess.Eval(ctx, []byte(line))
		if err != nil {
			fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(runtime.Diagnostics(err), true))
			continue
		}
		fmt.Fprintln(c.stdout, formatter.FormatValue(val))
	}
}

// printBindings lists the session's own bindings; natives are omitted.
func (c *cli) printBindings(env *evaluator.Env) {
	n := 0
	for _, name := range env.Names() {
		val, _ := env.Get(name)
		if _, native := val.(*evaluator.NativeFunction); native {
			continue
		}
		kw := "let"
		if env.IsConstant(name) {
			kw = "const"
		}
		fmt.Fprintf(c.stdout, "%s %s = %s\n", kw, name, formatter.FormatValue(val))
		n++
	}
	if n == 0 {
		fmt.Fprintln(c.stdout, "(no bindings)")
	}
}
