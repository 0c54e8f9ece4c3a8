package types

// SortResult holds the outcome of a dispatch attempt for a single file
type SortResult struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	RuleName        string `json:"rule_name,omitempty"`
	Moved           bool   `json:"moved"`
	Error           error  `json:"error,omitempty"`
}

// Summary aggregates the results of a whole run
type Summary struct {
	Moved   int `json:"moved"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Tally builds a Summary from individual results plus the count of files
// that matched no rule and stayed in place.
func Tally(results []SortResult, unmatched int) Summary {
	s := Summary{Skipped: unmatched}
	for _, r := range results {
		switch {
		case r.Error != nil:
			s.Errors++
		case r.Moved:
			s.Moved++
		default:
			s.Skipped++
		}
	}
	return s
}
