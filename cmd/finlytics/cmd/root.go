package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/soltixdb/finlytics/internal/analytics"
	"github.com/soltixdb/finlytics/internal/cache"
	"github.com/soltixdb/finlytics/internal/config"
	"github.com/soltixdb/finlytics/internal/ingest"
	"github.com/soltixdb/finlytics/internal/logging"
	"github.com/soltixdb/finlytics/internal/services"
	"github.com/spf13/cobra"
)

// options shared by every subcommand
type rootOptions struct {
	configPath string
	file       string
	column     string
	delimiter  string
	skipRows   int
	verbose    bool
}

// NewRootCmd builds the finlytics command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "finlytics",
		Short:         "Finlytics CLI",
		Long:          `Forecast and analyze financial series from CSV files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file (analytics defaults)")
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "-", "CSV file to read, - for stdin")
	root.PersistentFlags().StringVarP(&opts.column, "column", "c", "", "Column holding the series")
	root.PersistentFlags().StringVar(&opts.delimiter, "delimiter", ",", "CSV field delimiter")
	root.PersistentFlags().IntVar(&opts.skipRows, "skip-rows", 0, "Rows to skip before the header")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(newForecastCmd(opts), newAnalyzeCmd(opts), newRatiosCmd(opts), newModelsCmd(opts))
	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// service builds an in-process analytics service without a result cache
func (o *rootOptions) service(cmd *cobra.Command) (*services.AnalyticsService, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.NewNop()
	if o.verbose {
		logger = logging.NewWithWriter(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}, zerolog.DebugLevel)
	}
	return services.NewAnalyticsService(logger, cache.Nop{}, cfg.Analytics), nil
}

func (o *rootOptions) table(cmd *cobra.Command) (*ingest.Table, error) {
	csvOpts := ingest.DefaultCSVOptions()
	csvOpts.SkipRows = o.skipRows
	if o.delimiter != "" {
		csvOpts.Delimiter = []rune(o.delimiter)[0]
	}

	if o.file == "-" {
		return ingest.LoadCSV(cmd.InOrStdin(), csvOpts)
	}
	return ingest.LoadFile(o.file, csvOpts)
}

// series loads the named column (or the --column flag when name is empty)
func (o *rootOptions) series(t *ingest.Table, name string) ([]*float64, error) {
	if name == "" {
		name = o.column
	}
	if name == "" {
		return nil, fmt.Errorf("--column is required (available: %v)", t.Headers())
	}
	s, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return analytics.NullableSlice(s), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
