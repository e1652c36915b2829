package models

import (
	"fmt"
	"time"
)

// SummaryStats are the headline employment figures for one district.
type SummaryStats struct {
	TotalWorkers      int64   `json:"totalWorkers"`
	TotalWages        int64   `json:"totalWages"`
	Households        int64   `json:"households"`
	EmploymentDays    int64   `json:"employmentDays"`
	WorkCompleted     float64 `json:"workCompleted"`
	BudgetUtilization float64 `json:"budgetUtilization"`
	LastUpdated       string  `json:"lastUpdated,omitempty"`
}

// Validate checks counts are non-negative and percentages lie in [0,100].
func (s SummaryStats) Validate() error {
	switch {
	case s.TotalWorkers < 0, s.TotalWages < 0, s.Households < 0, s.EmploymentDays < 0:
		return fmt.Errorf("negative count in summary")
	case s.WorkCompleted < 0 || s.WorkCompleted > 100:
		return fmt.Errorf("workCompleted out of range: %v", s.WorkCompleted)
	case s.BudgetUtilization < 0 || s.BudgetUtilization > 100:
		return fmt.Errorf("budgetUtilization out of range: %v", s.BudgetUtilization)
	}
	return nil
}

// MonthlyPoint is one reporting month of the district time series.
type MonthlyPoint struct {
	Month   string `json:"month"`
	Workers int64  `json:"workers"`
	Wages   int64  `json:"wages"`
}

// ValidateSeries checks every point has a label, non-negative values and a month of its own.
func ValidateSeries(series []MonthlyPoint) error {
	seen := make(map[string]struct{}, len(series))
	for i, p := range series {
		if p.Month == "" {
			return fmt.Errorf("point %d: empty month label", i)
		}
		if p.Workers < 0 || p.Wages < 0 {
			return fmt.Errorf("point %d (%s): negative value", i, p.Month)
		}
		if _, dup := seen[p.Month]; dup {
			return fmt.Errorf("point %d: month %s reported twice", i, p.Month)
		}
		seen[p.Month] = struct{}{}
	}
	return nil
}

// DashboardSnapshot pairs the summary and the series fetched for the same district in one call.
type DashboardSnapshot struct {
	District  CanonicalDistrict `json:"district"`
	Summary   SummaryStats      `json:"summary"`
	Series    []MonthlyPoint    `json:"series"`
	FetchedAt time.Time         `json:"fetchedAt"`
}
