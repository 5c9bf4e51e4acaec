package cmd

import (
	"github.com/soltixdb/finlytics/internal/services"
	"github.com/spf13/cobra"
)

func newForecastCmd(opts *rootOptions) *cobra.Command {
	var (
		model   string
		horizon int
		window  int
		alpha   float64
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast a CSV column",
		Example: `  finlytics forecast -f revenue.csv -c revenue --model linear_trend --horizon 4
  cat prices.csv | finlytics forecast -c close --model exponential_smoothing --alpha 0.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			table, err := opts.table(cmd)
			if err != nil {
				return err
			}
			series, err := opts.series(table, "")
			if err != nil {
				return err
			}

			req := &services.ForecastRequest{Series: series, Model: model}
			if cmd.Flags().Changed("horizon") {
				req.Horizon = &horizon
			}
			if cmd.Flags().Changed("window") {
				req.Window = &window
			}
			if cmd.Flags().Changed("alpha") {
				req.Alpha = &alpha
			}

			result, err := svc.Forecast(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Forecast model (default from config)")
	cmd.Flags().IntVarP(&horizon, "horizon", "n", 0, "Periods to forecast")
	cmd.Flags().IntVar(&window, "window", 0, "Moving average window")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Exponential smoothing factor in (0, 1]")
	return cmd
}

func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List forecast models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), svc.Models())
		},
	}
}
