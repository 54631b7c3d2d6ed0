package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lville-gis/internal/config"
	"github.com/lville-gis/internal/lexicon"
)

var (
	// Global flags
	lexiconPath string
	envFile     string
	verbose     bool

	logger *zap.Logger

	// logLevel is shared by every logger newLogger builds
	logLevel = zap.NewAtomicLevel()
)

func main() {
	rootCmd := newRootCmd()

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "addrparse",
		Short: "Address composition and decomposition for city parcel data",
		Long: `Builds canonical single-line addresses from discrete fields and splits
composite addresses back into street number, directions, name and type.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadConfig(envFile); err != nil {
				return fmt.Errorf("failed to load environment: %w", err)
			}

			var err error
			logger, err = newLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			zap.ReplaceGlobals(logger)

			if lexiconPath == "" {
				lexiconPath = config.LexiconPath()
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&lexiconPath, "lexicon", "", "Path to parsing lists (json or yaml); defaults to $LEXICON_PATH")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to .env file (default: search .env upwards)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Development logging at debug level")

	// Add subcommands
	rootCmd.AddCommand(createComposeCmd())
	rootCmd.AddCommand(createDecomposeCmd())
	rootCmd.AddCommand(createBatchCmd())
	rootCmd.AddCommand(createUpdateHiperwebCmd())
	rootCmd.AddCommand(createUpdateAddressesCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createPostalCmd())
	rootCmd.AddCommand(createPingCmd())

	return rootCmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	logLevel.SetLevel(zap.InfoLevel)
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		logLevel.SetLevel(zap.DebugLevel)
	}
	cfg.Level = logLevel
	return cfg.Build()
}

// enableTracing lowers the log level so per-stage --debug output is written
// even without --verbose
func enableTracing() {
	logLevel.SetLevel(zap.DebugLevel)
}

// loadLexicon loads the parsing lists; callers run it before touching any
// row so a bad configuration stops the run up front.
func loadLexicon() (*lexicon.Lexicon, error) {
	lex, err := lexicon.Load(lexiconPath)
	if err != nil {
		return nil, err
	}
	counts := lex.Counts()
	logger.Info("lexicon loaded",
		zap.String("path", lexiconPath),
		zap.Int("directions", counts.Directions),
		zap.Int("street_types", counts.StreetTypes),
		zap.Int("sub_address_markers", counts.SubAddress),
		zap.Int("cities", counts.Cities))
	return lex, nil
}
