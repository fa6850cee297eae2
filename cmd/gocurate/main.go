package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gocurate/internal/app"
)

// options mirrors the command line. Only flags the user actually passed are
// applied on top of file and environment configuration.
type options struct {
	configPath  string
	envFiles    string
	input       string
	outputDir   string
	workers     int
	seed        int64
	split       string
	chunks      bool
	chunkBytes  int
	pdf         bool
	bundle      bool
	qualityMode string
	threshold   float64
	sample      int
	verbose     bool
	version     bool
}

func newFlagSet(opts *options, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("gocurate", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.configPath, "config", "", "Path to YAML or JSON configuration file (default $GOCURATE_CONFIG)")
	fs.StringVar(&opts.envFiles, "env", ".env", "Comma-separated dotenv files to load; later files win")
	fs.StringVar(&opts.input, "input", "", "Comma-separated JSONL input files")
	fs.StringVar(&opts.outputDir, "out", "training_data", "Output directory for splits and reports")
	fs.IntVar(&opts.workers, "workers", 0, "Number of filter workers (0 uses all CPUs)")
	fs.Int64Var(&opts.seed, "seed", 0, "Seed for the split shuffle")
	fs.StringVar(&opts.split, "split", "0.8,0.1,0.1", "Train,validation[,test] ratios")
	fs.BoolVar(&opts.chunks, "chunks", false, "Also write size-bounded corpus chunks")
	fs.IntVar(&opts.chunkBytes, "chunk.bytes", 50<<20, "Maximum bytes per corpus chunk")
	fs.BoolVar(&opts.pdf, "pdf", false, "Render the quality report as PDF")
	fs.BoolVar(&opts.bundle, "bundle", false, "Pack the written artifacts into a tar.gz bundle")
	fs.StringVar(&opts.qualityMode, "quality.mode", "additive", "Quality classifier: additive or legacy")
	fs.Float64Var(&opts.threshold, "threshold", 0.5, "Minimum quality score to keep a document")
	fs.IntVar(&opts.sample, "sample", 10, "Number of training documents in the inspection sample (0 disables)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	return fs
}

// configure resolves the configuration from defaults, the config file,
// environment variables (dotenv files included) and explicit flags, in that
// order.
func configure(args []string, stderr io.Writer) (app.Config, options, error) {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		return app.Config{}, opts, err
	}
	cfg := app.DefaultConfig()
	if opts.version {
		return cfg, opts, nil
	}

	// Dotenv files load first so they can name the config file.
	if err := app.LoadEnvFiles(splitCSV(opts.envFiles)...); err != nil {
		return cfg, opts, fmt.Errorf("load env: %w", err)
	}
	configPath := opts.configPath
	if !passed(fs, "config") {
		configPath = os.Getenv("GOCURATE_CONFIG")
	}
	if p := strings.TrimSpace(configPath); p != "" {
		fc, err := app.LoadConfigFile(p)
		if err != nil {
			return cfg, opts, fmt.Errorf("load config %s: %w", p, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if err := app.ApplyEnvOverrides(&cfg); err != nil {
		return cfg, opts, err
	}

	var errs []error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Inputs = splitCSV(opts.input)
		case "out":
			cfg.OutputDir = opts.outputDir
		case "workers":
			cfg.Workers = opts.workers
		case "seed":
			s := opts.seed
			cfg.Seed = &s
		case "split":
			r, err := app.ParseRatios(opts.split)
			if err != nil {
				errs = append(errs, fmt.Errorf("-split: %w", err))
				return
			}
			cfg.Split = r
		case "chunks":
			cfg.Chunks = opts.chunks
		case "chunk.bytes":
			cfg.ChunkBytes = opts.chunkBytes
			cfg.Chunks = true
		case "pdf":
			cfg.PDF = opts.pdf
		case "bundle":
			cfg.Bundle = opts.bundle
		case "quality.mode":
			cfg.Quality.Mode = strings.ToLower(strings.TrimSpace(opts.qualityMode))
		case "threshold":
			cfg.Quality.AcceptThreshold = opts.threshold
		case "sample":
			cfg.SampleSize = opts.sample
		case "v":
			cfg.Verbose = opts.verbose
		}
	})
	if len(errs) > 0 {
		return cfg, opts, errors.Join(errs...)
	}
	if err := app.ValidateConfig(cfg); err != nil {
		return cfg, opts, err
	}
	return cfg, opts, nil
}

func passed(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, opts, err := configure(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}
	if opts.version {
		fmt.Printf("gocurate %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 when there was nothing to curate, 1 otherwise.
		if errors.Is(err, app.ErrNoDocuments) {
			stop()
			os.Exit(2)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg app.Config, logger zerolog.Logger) error {
	a, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	res, err := a.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info().
		Str("run_id", res.RunID).
		Int64("kept", res.Report.TotalKept).
		Int64("input", res.Report.TotalInput).
		Str("out", res.OutputDir).
		Msg("curation complete")
	return nil
}
