package ratios

// Statement holds the line items of one reporting period.
// Nil fields are absent and disable the ratios that need them.
type Statement struct {
	CurrentAssets      *float64 `json:"current_assets,omitempty"`
	CurrentLiabilities *float64 `json:"current_liabilities,omitempty"`
	Inventory          *float64 `json:"inventory,omitempty"`
	NetIncome          *float64 `json:"net_income,omitempty"`
	Revenue            *float64 `json:"revenue,omitempty"`
	TotalAssets        *float64 `json:"total_assets,omitempty"`
	TotalDebt          *float64 `json:"total_debt,omitempty"`
	ShareholdersEquity *float64 `json:"shareholders_equity,omitempty"`
}

// Compute evaluates every ratio whose inputs are all present
func Compute(st Statement) map[string]float64 {
	out := make(map[string]float64)

	if st.CurrentAssets != nil && st.CurrentLiabilities != nil {
		out[NameCurrentRatio] = CurrentRatio(*st.CurrentAssets, *st.CurrentLiabilities)
		if st.Inventory != nil {
			out[NameQuickRatio] = QuickRatio(*st.CurrentAssets, *st.Inventory, *st.CurrentLiabilities)
		}
	}
	if st.NetIncome != nil {
		if st.Revenue != nil {
			out[NameProfitMargin] = ProfitMargin(*st.NetIncome, *st.Revenue)
		}
		if st.TotalAssets != nil {
			out[NameROA] = ROA(*st.NetIncome, *st.TotalAssets)
		}
		if st.ShareholdersEquity != nil {
			out[NameROE] = ROE(*st.NetIncome, *st.ShareholdersEquity)
		}
	}
	if st.TotalDebt != nil && st.ShareholdersEquity != nil {
		out[NameDebtToEquity] = DebtToEquity(*st.TotalDebt, *st.ShareholdersEquity)
	}
	if st.Revenue != nil && st.TotalAssets != nil {
		out[NameAssetTurnover] = AssetTurnover(*st.Revenue, *st.TotalAssets)
	}

	return out
}
