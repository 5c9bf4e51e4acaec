package cmd

import (
	"github.com/soltixdb/finlytics/internal/services"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		benchmark        string
		trendWindow      int
		seasonalPeriod   int
		threshold        float64
		movingWindow     int
		emaSpan          int
		volatilityWindow int
		lookback         int
		cagr             int
	)

	cmd := &cobra.Command{
		Use:     "analyze",
		Short:   "Trend, seasonality and anomaly report for a CSV column",
		Example: `  finlytics analyze -f sales.csv -c units --seasonal-period 12 --benchmark market`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			table, err := opts.table(cmd)
			if err != nil {
				return err
			}

			var in services.AnalyzeRequest
			if in.Series, err = opts.series(table, ""); err != nil {
				return err
			}
			if benchmark != "" {
				if in.Benchmark, err = opts.series(table, benchmark); err != nil {
					return err
				}
			}

			// Only flags set on the command line override configured defaults
			flags := cmd.Flags()
			for name, dst := range map[string]struct {
				field **int
				value *int
			}{
				"trend-window":      {&in.TrendWindow, &trendWindow},
				"seasonal-period":   {&in.SeasonalPeriod, &seasonalPeriod},
				"moving-window":     {&in.MovingWindow, &movingWindow},
				"ema-span":          {&in.EMASpan, &emaSpan},
				"volatility-window": {&in.VolatilityWindow, &volatilityWindow},
				"lookback":          {&in.Lookback, &lookback},
				"cagr-periods":      {&in.CAGRPeriods, &cagr},
			} {
				if flags.Changed(name) {
					*dst.field = dst.value
				}
			}
			if flags.Changed("threshold") {
				in.AnomalyThreshold = &threshold
			}

			report, err := svc.Analyze(cmd.Context(), &in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&benchmark, "benchmark", "", "Column to correlate against")
	f.IntVar(&trendWindow, "trend-window", 0, "Trailing window for the trend label")
	f.IntVar(&seasonalPeriod, "seasonal-period", 0, "Seasonal period")
	f.Float64Var(&threshold, "threshold", 0, "Anomaly z-score threshold")
	f.IntVar(&movingWindow, "moving-window", 0, "Moving average window")
	f.IntVar(&emaSpan, "ema-span", 0, "EMA span")
	f.IntVar(&volatilityWindow, "volatility-window", 0, "Rolling volatility window")
	f.IntVar(&lookback, "lookback", 0, "Periods used for recent growth (<= 0 for the whole series)")
	f.IntVar(&cagr, "cagr-periods", 0, "Compounding periods for CAGR")
	return cmd
}
