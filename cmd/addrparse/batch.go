package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lville-gis/internal/batch"
	"github.com/lville-gis/internal/config"
	"github.com/lville-gis/internal/lexicon"
)

// batchFlags are shared by every command that runs the worker pool
type batchFlags struct {
	workers   int
	cacheSize int
	ascii     bool
	debug     bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Worker goroutines (0 = NumCPU; env BATCH_WORKERS)")
	cmd.Flags().IntVar(&f.cacheSize, "cache-size", 10000, "LRU cache entries for repeated addresses, 0 disables (env BATCH_CACHE_SIZE)")
	cmd.Flags().BoolVar(&f.ascii, "ascii", false, "Transliterate non-ASCII input before parsing (env BATCH_ASCII_FOLD)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "Per-row stage tracing at debug level")
}

// processor builds the worker pool. The environment is only loaded once the
// root command runs, so unset flags fall back to BATCH_* here.
func (f *batchFlags) processor(cmd *cobra.Command, lex *lexicon.Lexicon) (*batch.Processor, error) {
	if !cmd.Flags().Changed("workers") {
		f.workers = config.GetEnvInt("BATCH_WORKERS", f.workers)
	}
	if !cmd.Flags().Changed("cache-size") {
		f.cacheSize = config.GetEnvInt("BATCH_CACHE_SIZE", f.cacheSize)
	}
	if !cmd.Flags().Changed("ascii") {
		f.ascii = config.GetEnvBool("BATCH_ASCII_FOLD", f.ascii)
	}
	if f.debug {
		enableTracing()
	}

	return batch.NewProcessor(lex, batch.Options{
		Workers:   f.workers,
		CacheSize: f.cacheSize,
		ASCIIFold: f.ascii,
		Debug:     f.debug,
	}, logger)
}

// lexiconForCompose satisfies the processor for composition, which never
// consults the lists
func lexiconForCompose() *lexicon.Lexicon {
	return lexicon.New(lexicon.Lists{})
}

// signalContext is cancelled on SIGINT/SIGTERM so a run stops before its
// transaction commits
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func logStats(msg string, stats batch.Stats) {
	logger.Info(msg,
		zap.Int("total", stats.Total),
		zap.Int("processed", stats.Processed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int("updated", stats.Updated),
		zap.Duration("elapsed", stats.Elapsed),
		zap.Float64("rows_per_second", stats.RowsPerSecond()))
}

// openIO opens the input and output files; "-" or "" means stdin/stdout
func openIO(in, out string) (io.ReadCloser, io.WriteCloser, error) {
	var r io.ReadCloser = os.Stdin
	var w io.WriteCloser = os.Stdout

	if in != "" && in != "-" {
		f, err := os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open input: %w", err)
		}
		r = f
	}
	if out != "" && out != "-" {
		f, err := os.Create(out)
		if err != nil {
			r.Close()
			return nil, nil, fmt.Errorf("failed to create output: %w", err)
		}
		w = f
	}
	return r, w, nil
}

// createBatchCmd groups the CSV batch modes
func createBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run composition or decomposition over CSV files",
	}

	cmd.AddCommand(createDecomposeCSVCmd())
	cmd.AddCommand(createComposeCSVCmd())

	return cmd
}

func createDecomposeCSVCmd() *cobra.Command {
	var (
		flags  batchFlags
		input  string
		output string
		column string
	)

	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Append routing columns to a CSV by decomposing one address column",
		RunE: func(cmd *cobra.Command, args []string) error {
			lex, err := loadLexicon()
			if err != nil {
				return err
			}
			p, err := flags.processor(cmd, lex)
			if err != nil {
				return err
			}

			r, w, err := openIO(input, output)
			if err != nil {
				return err
			}
			defer r.Close()
			defer w.Close()

			ctx, cancel := signalContext()
			defer cancel()

			stats, err := p.DecomposeCSV(ctx, r, w, column)
			if err != nil {
				return err
			}
			logStats("decompose complete", stats)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "-", "Input CSV (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output CSV (- for stdout)")
	cmd.Flags().StringVar(&column, "column", "full_address", "Header of the address column")

	return cmd
}

func createComposeCSVCmd() *cobra.Command {
	var (
		flags  batchFlags
		input  string
		output string
		cols   = batch.DefaultComposeColumns()
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Append a full_address column to a CSV by composing discrete fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.processor(cmd, lexiconForCompose())
			if err != nil {
				return err
			}

			r, w, err := openIO(input, output)
			if err != nil {
				return err
			}
			defer r.Close()
			defer w.Close()

			ctx, cancel := signalContext()
			defer cancel()

			stats, err := p.ComposeCSV(ctx, r, w, cols)
			if err != nil {
				return err
			}
			logStats("compose complete", stats)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "-", "Input CSV (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output CSV (- for stdout)")
	cmd.Flags().StringVar(&cols.Number, "number-col", cols.Number, "Street number column")
	cmd.Flags().StringVar(&cols.Street, "street-col", cols.Street, "Street column")
	cmd.Flags().StringVar(&cols.City, "city-col", cols.City, "City column")
	cmd.Flags().StringVar(&cols.State, "state-col", cols.State, "State column")
	cmd.Flags().StringVar(&cols.Zip, "zip-col", cols.Zip, "Zip column")

	return cmd
}
