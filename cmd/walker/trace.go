package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/thomasrohde/walker/pkg/diagnostics"
)

// TraceSummary aggregates a JSONL trace file.
type TraceSummary struct {
	RunID          string         `json:"runId"`
	TotalEvents    int            `json:"totalEvents"`
	FnCalls        int            `json:"fnCalls"`
	CallsByFn      map[string]int `json:"callsByFn"`
	NativeCalls    int            `json:"nativeCalls"`
	NativesByName  map[string]int `json:"nativesByName"`
	MaxDepth       int            `json:"maxDepth"`
	BudgetExceeded int            `json:"budgetExceeded"`
	StartTime      string         `json:"startTime,omitempty"`
	EndTime        string         `json:"endTime,omitempty"`
	DurationMs     float64        `json:"durationMs"`
}

type traceLine struct {
	Event string         `json:"event"`
	RunID string         `json:"runId"`
	TS    string         `json:"ts"`
	Data  map[string]any `json:"data,omitempty"`
}

func (c *cli) cmdTrace(args []string) int {
	var file string
	textOutput := false

	for _, arg := range args {
		switch arg {
		case "--json":
			textOutput = false
		case "--text":
			textOutput = true
		default:
			if !strings.HasPrefix(arg, "-") {
				file = arg
			}
		}
	}

	if file == "" {
		fmt.Fprintln(c.stderr, "usage: walker trace <file.jsonl> [--json|--text]")
		return exitUsage
	}

	f, err := os.Open(file)
	if err != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, ""), false)
		return exitUsage
	}
	defer f.Close()

	summary, err := computeTraceSummary(f)
	if err != nil {
		c.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s: %s", file, err), nil, ""), false)
		return exitUsage
	}

	if textOutput {
		printTraceSummaryText(c.stdout, summary)
		return exitOK
	}
	b, _ := json.Marshal(summary)
	fmt.Fprintln(c.stdout, string(b))
	return exitOK
}

func computeTraceSummary(r io.Reader) (*TraceSummary, error) {
	summary := &TraceSummary{
		CallsByFn:     make(map[string]int),
		NativesByName: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event traceLine
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip invalid lines
		}

		summary.TotalEvents++
		if summary.RunID == "" {
			summary.RunID = event.RunID
		}

		switch event.Event {
		case "run_start":
			if summary.StartTime == "" {
				summary.StartTime = event.TS
			}
		case "run_end":
			summary.EndTime = event.TS
		case "fn_call_start":
			summary.FnCalls++
			if name, ok := event.Data["fn"].(string); ok {
				summary.CallsByFn[name]++
			}
			if depth, ok := event.Data["depth"].(float64); ok && int(depth) > summary.MaxDepth {
				summary.MaxDepth = int(depth)
			}
		case "native_call_start":
			summary.NativeCalls++
			if name, ok := event.Data["native"].(string); ok {
				summary.NativesByName[name]++
			}
		case "budget_exceeded":
			summary.BudgetExceeded++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := time.Parse(time.RFC3339Nano, summary.StartTime)
		end, err2 := time.Parse(time.RFC3339Nano, summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Microseconds()) / 1000
		}
	}

	return summary, nil
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Events: %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Calls: %d (max depth %d)\n", s.FnCalls, s.MaxDepth)
	printCounts(w, s.CallsByFn)
	fmt.Fprintf(w, "Natives: %d\n", s.NativeCalls)
	printCounts(w, s.NativesByName)
	if s.BudgetExceeded > 0 {
		fmt.Fprintf(w, "Budget exceeded: %d\n", s.BudgetExceeded)
	}
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.3fms\n", s.DurationMs)
	}
}

func printCounts(w io.Writer, counts map[string]int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, counts[name])
	}
}
