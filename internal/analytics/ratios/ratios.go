// Package ratios computes standard financial statement ratios.
//
// Every formula returns the undefined sentinel (NaN) when its denominator is
// zero. Percentage ratios (profit margin, ROA, ROE) are scaled by 100.
package ratios

import (
	"github.com/soltixdb/finlytics/internal/analytics"
)

// Ratio names used as keys by Compute
const (
	NameCurrentRatio  = "current_ratio"
	NameQuickRatio    = "quick_ratio"
	NameProfitMargin  = "profit_margin"
	NameROA           = "roa"
	NameROE           = "roe"
	NameDebtToEquity  = "debt_to_equity"
	NameAssetTurnover = "asset_turnover"
)

func divide(num, den float64) float64 {
	if den == 0 {
		return analytics.Undefined()
	}
	return num / den
}

// CurrentRatio = current assets / current liabilities
func CurrentRatio(currentAssets, currentLiabilities float64) float64 {
	return divide(currentAssets, currentLiabilities)
}

// QuickRatio = (current assets - inventory) / current liabilities
func QuickRatio(currentAssets, inventory, currentLiabilities float64) float64 {
	return divide(currentAssets-inventory, currentLiabilities)
}

// ProfitMargin = net income / revenue * 100
func ProfitMargin(netIncome, revenue float64) float64 {
	return divide(netIncome, revenue) * 100
}

// ROA = net income / total assets * 100
func ROA(netIncome, totalAssets float64) float64 {
	return divide(netIncome, totalAssets) * 100
}

// ROE = net income / shareholders' equity * 100
func ROE(netIncome, shareholdersEquity float64) float64 {
	return divide(netIncome, shareholdersEquity) * 100
}

// DebtToEquity = total debt / shareholders' equity
func DebtToEquity(totalDebt, shareholdersEquity float64) float64 {
	return divide(totalDebt, shareholdersEquity)
}

// AssetTurnover = revenue / total assets
func AssetTurnover(revenue, totalAssets float64) float64 {
	return divide(revenue, totalAssets)
}
