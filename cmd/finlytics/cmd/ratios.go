package cmd

import (
	"github.com/soltixdb/finlytics/internal/analytics"
	"github.com/soltixdb/finlytics/internal/analytics/ratios"
	"github.com/soltixdb/finlytics/internal/ingest"
	"github.com/soltixdb/finlytics/internal/models"
	"github.com/spf13/cobra"
)

// statementColumns maps CSV headers to statement line items
var statementColumns = map[string]func(*ratios.Statement) **float64{
	"current_assets":      func(s *ratios.Statement) **float64 { return &s.CurrentAssets },
	"current_liabilities": func(s *ratios.Statement) **float64 { return &s.CurrentLiabilities },
	"inventory":           func(s *ratios.Statement) **float64 { return &s.Inventory },
	"net_income":          func(s *ratios.Statement) **float64 { return &s.NetIncome },
	"revenue":             func(s *ratios.Statement) **float64 { return &s.Revenue },
	"total_assets":        func(s *ratios.Statement) **float64 { return &s.TotalAssets },
	"total_debt":          func(s *ratios.Statement) **float64 { return &s.TotalDebt },
	"shareholders_equity": func(s *ratios.Statement) **float64 { return &s.ShareholdersEquity },
}

func newRatiosCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ratios",
		Short: "Financial ratios for each row of a statements CSV",
		Long: `Each row is one reporting period. Recognised headers are current_assets,
current_liabilities, inventory, net_income, revenue, total_assets, total_debt
and shareholders_equity. Absent columns and missing cells disable the ratios
that need them.`,
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
			statements, err := statementsFromTable(table)
			if err != nil {
				return err
			}

			results, err := svc.Ratios(cmd.Context(), statements)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), models.RatiosResponse{Results: results})
		},
	}
}

func statementsFromTable(t *ingest.Table) ([]ratios.Statement, error) {
	statements := make([]ratios.Statement, t.Rows())
	for name, field := range statementColumns {
		if !t.Has(name) {
			continue
		}
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			*field(&statements[i]) = analytics.Nullable(v)
		}
	}
	return statements, nil
}
