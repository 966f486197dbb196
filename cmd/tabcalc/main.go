package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leengari/tabcalc/internal/aggregate"
	"github.com/leengari/tabcalc/internal/config"
	"github.com/leengari/tabcalc/internal/domain/data"
	"github.com/leengari/tabcalc/internal/logging"
	"github.com/leengari/tabcalc/internal/pipeline"
	"github.com/leengari/tabcalc/internal/repl"
	"github.com/leengari/tabcalc/internal/report"
	"github.com/leengari/tabcalc/internal/sample"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options are the parsed command-line flags
type options struct {
	configPath string
	dataPath   string
	stepsPath  string
	pivot      string
	chart      string
	asJSON     bool
	interact   bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("tabcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.dataPath, "data", "", "JSON array of row objects (built-in sample when empty)")
	fs.StringVar(&opts.stepsPath, "steps", "", "YAML or JSON pipeline step document")
	fs.StringVar(&opts.pivot, "pivot", "", "pivot spec, e.g. rows=region;cols=product;value=units;agg=sum")
	fs.StringVar(&opts.chart, "chart", "", "chart spec, e.g. x=region;y=units;series=product;agg=sum")
	fs.BoolVar(&opts.asJSON, "json", false, "print the resulting rows as JSON")
	fs.BoolVar(&opts.interact, "repl", false, "start the interactive console")
	err := fs.Parse(args)
	return opts, err
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logOpts := cfg.LoggingOptions()
	logOpts.Output = stderr
	logger, closeFn := logging.SetupLogger(logOpts)
	defer closeFn()

	ds, err := loadData(opts.dataPath)
	if err != nil {
		logger.Error("failed to load data", "path", opts.dataPath, "error", err)
		return 1
	}

	exec := pipeline.NewExecutor(
		pipeline.WithFailurePolicy(cfg.FailurePolicy()),
		pipeline.WithObserver(pipeline.NewLoggingObserver(logger)),
	)

	if opts.interact {
		slog.Info("Starting REPL mode...", "rows", len(ds))
		repl.Start(repl.NewSession(ds, exec, stdout), stdin)
		return 0
	}

	var steps []pipeline.Step
	if opts.stepsPath != "" {
		steps, err = loadSteps(opts.stepsPath)
		if err != nil {
			logger.Error("failed to load steps", "path", opts.stepsPath, "error", err)
			return 1
		}
	}

	res := exec.Run(context.Background(), ds, steps)
	report.PrintWarnings(stderr, res.Warnings)

	switch {
	case opts.pivot != "":
		spec, err := aggregate.ParsePivotSpec(opts.pivot)
		if err != nil {
			logger.Error("invalid pivot spec", "error", err)
			return 1
		}
		pt, err := aggregate.Pivot(res.Dataset, spec)
		if err != nil {
			logger.Error("pivot failed", "error", err)
			return 1
		}
		report.PrintPivot(stdout, pt)

	case opts.chart != "":
		spec, err := aggregate.ParseChartSpec(opts.chart)
		if err != nil {
			logger.Error("invalid chart spec", "error", err)
			return 1
		}
		cd, err := aggregate.Chart(res.Dataset, spec)
		if err != nil {
			logger.Error("chart failed", "error", err)
			return 1
		}
		report.PrintChart(stdout, cd)

	case opts.asJSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Dataset); err != nil {
			logger.Error("failed to write rows", "error", err)
			return 1
		}

	default:
		report.PrintDataset(stdout, res.Dataset)
	}
	return 0
}

func loadData(path string) (data.Dataset, error) {
	if path == "" {
		return sample.Sales(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ds data.Dataset
	if err := json.NewDecoder(f).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return ds, nil
}

func loadSteps(path string) ([]pipeline.Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return pipeline.DecodeSteps(f)
}
