// verdict aggregates go test -json output into a single JSON verdict file.
//
// Usage:
//
//	go test -json ./... | verdict --json out/verdict.json
//	verdict --input run.ndjson --json verdict.json --validate
//
// The verdict file records the run's outcome counters (passed, failed,
// errors, skipped, xfailed, xpassed, optional rerun), the start time and
// duration, a derived sum, and any extra per-test annotations configured in
// .verdict.yaml.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chainguard-dev/clog"

	"github.com/dzerrenner/verdict/internal/config"
	"github.com/dzerrenner/verdict/internal/schema"
	"github.com/dzerrenner/verdict/internal/summary"
	"github.com/dzerrenner/verdict/pkg/gotest"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("verdict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jsonFlag := fs.String("json", "", "Path of the JSON verdict file to write (required unless configured)")
	inputFlag := fs.String("input", "", "Read go test -json output from a file instead of stdin")
	configFlag := fs.String("config", "", "Path to .verdict.yaml (default: working dir, then user config dir)")
	validateFlag := fs.Bool("validate", false, "Validate the document against the embedded schema before writing")
	rerunFlag := fs.Bool("rerun", false, "Track rerun attempts (repeated results for the same test)")
	noColorFlag := fs.Bool("no-color", false, "Disable colored summary output")
	quietFlag := fs.Bool("quiet", false, "Suppress the terminal summary")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *versionFlag {
		fmt.Fprintf(stdout, "verdict %s\n", version)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(stderr, nil)))
	log := clog.FromContext(ctx)

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "verdict: %v\n", err)
		return 2
	}
	if err := config.ApplyEnv(ctx, cfg); err != nil {
		fmt.Fprintf(stderr, "verdict: %v\n", err)
		return 2
	}
	config.ApplyFlags(cfg, cliFlags(fs, *jsonFlag, *validateFlag, *noColorFlag, *rerunFlag))

	if cfg.JSON == "" {
		fmt.Fprintf(stderr, "verdict: no output path (use --json or set json in %s)\n", config.FileName)
		return 2
	}

	rules, err := cfg.Rules()
	if err != nil {
		fmt.Fprintf(stderr, "verdict: %v\n", err)
		return 2
	}
	runner, err := gotest.NewRunner(rules)
	if err != nil {
		fmt.Fprintf(stderr, "verdict: %v\n", err)
		return 2
	}

	input := stdin
	if *inputFlag != "" {
		f, err := os.Open(*inputFlag)
		if err != nil {
			fmt.Fprintf(stderr, "verdict: %v\n", err)
			return 2
		}
		defer f.Close()
		input = f
	}

	malformed, err := gotest.Stream(ctx, input, runner)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "verdict: reading test output: %v\n", err)
		return 2
	}
	if malformed > 0 {
		log.Warnf("%d malformed line(s) skipped", malformed)
	}

	doc, err := runner.Finish()
	if err != nil {
		fmt.Fprintf(stderr, "verdict: %v\n", err)
		return 2
	}

	if cfg.Validate {
		data, err := doc.MarshalIndent()
		if err != nil {
			fmt.Fprintf(stderr, "verdict: %v\n", err)
			return 2
		}
		if err := schema.ValidateDocument(data); err != nil {
			fmt.Fprintf(stderr, "verdict: %v\n", err)
			return 2
		}
	}

	written, err := doc.WriteFile(cfg.JSON)
	if err != nil {
		fmt.Fprintf(stderr, "verdict: %v\n", err)
		return 2
	}

	if !*quietFlag {
		summary.NewPrinter(stdout, cfg.NoColor).Print(stdout, doc, written)
	}

	if doc.Failed > 0 || doc.Errors > 0 {
		return 1
	}
	return 0
}

// cliFlags records which flags the user passed so unset flags do not clobber
// file or environment values.
func cliFlags(fs *flag.FlagSet, json string, validate, noColor, rerun bool) config.CliFlags {
	flags := config.CliFlags{
		JSON:     json,
		Validate: validate,
		NoColor:  noColor,
		Rerun:    rerun,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "json":
			flags.JSONSet = true
		case "validate":
			flags.ValidateSet = true
		case "no-color":
			flags.NoColorSet = true
		case "rerun":
			flags.RerunSet = true
		}
	})
	return flags
}
