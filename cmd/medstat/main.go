// medstat computes stream medians from Parquet or DuckDB inputs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/davinderatgithub/median-aggregate/internal/approx"
	"github.com/davinderatgithub/median-aggregate/internal/config"
	"github.com/davinderatgithub/median-aggregate/internal/logging"
	"github.com/davinderatgithub/median-aggregate/internal/parallel"
	"github.com/davinderatgithub/median-aggregate/internal/source"
	"github.com/davinderatgithub/median-aggregate/internal/typereg"
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfgPath := flag.String("config", "config.yaml", "config file path")
	replMode := flag.Bool("repl", false, "interactive mode")
	inputPath := flag.String("input", "", "input path (overrides config)")
	query := flag.String("query", "", "duckdb query (overrides config)")
	typeName := flag.String("type", "", "value type (overrides config)")
	workers := flag.Int("workers", -1, "worker count (overrides config)")
	flag.Parse()

	if *replMode {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "repl mode requires a terminal")
			os.Exit(1)
		}
		runREPL(*typeName)
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg = config.DefaultConfig()
		} else {
			log.Fatalf("Load config: %v", err)
		}
	}

	// CLI overrides
	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}
	if *query != "" {
		cfg.Input.Query = *query
		cfg.Input.Kind = "duckdb"
	}
	if *typeName != "" {
		cfg.Input.Type = *typeName
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config: %v", err)
	}

	logging.Init(logging.ParseLevel(cfg.Log.Level), cfg.Log.JSON)
	logger := logging.Component("medstat")
	logger.Info("starting", "version", Version, "kind", cfg.Input.Kind, "type", cfg.Input.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSource(ctx, cfg)
	if err != nil {
		logger.Error("open source", "error", err)
		os.Exit(1)
	}
	defer src.Close()

	if cfg.Approx.Enabled {
		if err := runApprox(ctx, cfg, src); err != nil {
			logger.Error("approximate aggregation", "error", err)
			os.Exit(1)
		}
		return
	}

	reg := typereg.Builtin()
	coord := parallel.NewCoordinator(reg, cfg.TypeID(), cfg.Workers)

	med, ok, err := coord.Run(ctx, src)
	if err != nil {
		logger.Error("aggregation", "error", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Println("no input values")
		return
	}
	fmt.Println(value.Format(cfg.TypeID(), med))
}

// openSource builds the configured input source.
func openSource(ctx context.Context, cfg *config.Config) (source.Source, error) {
	switch cfg.Input.Kind {
	case "parquet":
		return source.NewParquet(cfg.Input.Path, cfg.TypeID())
	case "duckdb":
		return source.NewDuckDB(ctx, cfg.Input.Path, cfg.Input.Query, cfg.TypeID())
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Input.Kind)
	}
}

// runApprox drains the source into a DDSketch and prints the approximate
// median.
func runApprox(ctx context.Context, cfg *config.Config, src source.Source) error {
	sketch, err := approx.New(cfg.Approx.Accuracy)
	if err != nil {
		return err
	}

	t := cfg.TypeID()
	for {
		d, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := sketch.Add(asFloat(t, d)); err != nil {
			return err
		}
	}

	med, ok := sketch.Median()
	if !ok {
		fmt.Println("no input values")
		return nil
	}
	fmt.Printf("%g (approximate, accuracy %g)\n", med, sketch.Accuracy())
	return nil
}

func asFloat(t value.TypeID, d value.Datum) float64 {
	switch t {
	case value.TypeInt32:
		return float64(d.AsInt32())
	case value.TypeInt64:
		return float64(d.AsInt64())
	case value.TypeFloat32:
		return float64(d.AsFloat32())
	default:
		return d.AsFloat64()
	}
}
