package models

import (
	"github.com/soltixdb/finlytics/internal/analytics/ratios"
)

// RatiosRequest carries the statements to evaluate
type RatiosRequest struct {
	Statements []ratios.Statement `json:"statements"`
}
