package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/toolrank"
	"github.com/poiesic/toolrank/core"
)

var demoCatalog = []core.ToolEntry{
	{
		Name:        "resolve_gap",
		Category:    "verification",
		Description: "Verify that a reported gap between expected and actual behavior is closed",
		Tags:        []string{"verify", "check", "gap", "fix"},
		PhaseName:   "verify",
		Guidance: core.Guidance{
			NextAction:     "Re-run the failing scenario and compare against the expectation",
			SuggestedTools: []string{"run_tests", "capture_screenshot"},
			Methodology:    "Reproduce, fix, verify",
		},
		Complexity: core.ComplexityMedium,
	},
	{
		Name:        "run_tests",
		Category:    "quality_gate",
		Description: "Run the project test suite and report failures",
		Tags:        []string{"test", "check", "quality", "suite"},
		PhaseName:   "test",
		Guidance: core.Guidance{
			NextAction: "Fix any failing test before moving on",
		},
		Complexity: core.ComplexityLow,
	},
	{
		Name:        "capture_screenshot",
		Category:    "ui_testing",
		Description: "Capture a screenshot of the current browser page",
		Tags:        []string{"screenshot", "ui", "capture", "browser"},
		PhaseName:   "test",
		Complexity:  core.ComplexityLow,
	},
	{
		Name:        "open_page",
		Category:    "navigation",
		Description: "Open a URL in the managed browser",
		Tags:        []string{"browse", "navigate", "url", "browser"},
		PhaseName:   "research",
		Complexity:  core.ComplexityLow,
	},
	{
		Name:        "inspect_element",
		Category:    "ui_testing",
		Description: "Inspect a DOM element and report its computed state",
		Tags:        []string{"inspect", "dom", "ui", "element"},
		PhaseName:   "research",
		Complexity:  core.ComplexityMedium,
	},
	{
		Name:        "search_code",
		Category:    "analysis",
		Description: "Search the codebase for a pattern",
		Tags:        []string{"search", "find", "grep", "code"},
		PhaseName:   "research",
		Complexity:  core.ComplexityLow,
	},
	{
		Name:        "edit_file",
		Category:    "editing",
		Description: "Apply an edit to a source file",
		Tags:        []string{"edit", "write", "patch", "file"},
		PhaseName:   "implement",
		Complexity:  core.ComplexityMedium,
	},
	{
		Name:        "deploy_release",
		Category:    "deployment",
		Description: "Deploy the current build to the target environment",
		Tags:        []string{"deploy", "release", "ship"},
		PhaseName:   "ship",
		Guidance: core.Guidance{
			Tip: "Run the quality gate first",
		},
		Complexity: core.ComplexityHigh,
	},
	{
		Name:        "review_diff",
		Category:    "quality_gate",
		Description: "Review a change set for defects before merge",
		Tags:        []string{"review", "diff", "check", "quality"},
		PhaseName:   "verify",
		Complexity:  core.ComplexityMedium,
	},
	{
		Name:        "write_doc",
		Category:    "documentation",
		Description: "Write or update project documentation",
		Tags:        []string{"document", "write", "describe"},
		PhaseName:   "implement",
		Complexity:  core.ComplexityLow,
	},
}

// Synthetic sessions exercising the common workflows. Each line is a
// session name followed by the tools it invoked, in order.
var sessions = []string{
	"fix-login-bug search_code edit_file run_tests resolve_gap",
	"fix-login-bug-retry search_code edit_file run_tests resolve_gap",
	"ui-regression open_page capture_screenshot inspect_element resolve_gap",
	"ui-regression-2 open_page capture_screenshot inspect_element",
	"release-friday run_tests review_diff deploy_release",
	"release-monday run_tests review_diff deploy_release",
	"docs-pass search_code write_doc review_diff",
	"flaky-suite run_tests run_tests resolve_gap",
	"hotfix search_code edit_file run_tests resolve_gap deploy_release",
	"visual-audit open_page capture_screenshot capture_screenshot inspect_element",
}

var (
	dbPath     = flag.String("db", "./toolrank_db", "call log directory")
	traceFile  = flag.String("src", "", "file of session traces, one per line")
	catalogOut = flag.String("catalog-out", "", "write the demo catalog JSON to this path")
)

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// seedSessions parses session traces and writes their call events,
// spacing the calls a second apart so the mined windows are realistic.
func seedSessions(ctx context.Context, svc *toolrank.Service, source iter.Seq[string]) (int, error) {
	total := 0
	base := time.Now().Add(-time.Hour)

	for line := range source {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		session, tools := fields[0], fields[1:]

		events := make([]*core.CallEvent, len(tools))
		for i, tool := range tools {
			events[i] = &core.CallEvent{
				Session:   session,
				Tool:      tool,
				Timestamp: base.Add(time.Duration(i) * time.Second),
			}
		}
		if _, err := svc.LogCalls(ctx, events...); err != nil {
			return total, err
		}
		total += len(events)
		base = base.Add(time.Minute)
	}
	return total, nil
}

func writeCatalog(path string) error {
	data, err := json.MarshalIndent(demoCatalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func main() {
	flag.Parse()

	if *catalogOut != "" {
		if err := writeCatalog(*catalogOut); err != nil {
			panic(err)
		}
		slog.Info("wrote demo catalog", "path", *catalogOut)
	}

	svc, err := toolrank.NewService(*dbPath, demoCatalog)
	if err != nil {
		panic(err)
	}
	defer svc.Close()

	ctx := context.Background()

	var source iter.Seq[string]
	if *traceFile != "" {
		source, err = linesFromFile(*traceFile)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(sessions)
	}

	total, err := seedSessions(ctx, svc, source)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Seeded %d call events\n", total)
}
