package domain

import "fmt"

// AssessmentReport is the final structured output of an analysis request.
// Field names mirror the generation template exactly.
type AssessmentReport struct {
	ExecutiveSummary string           `json:"executive_summary"`
	SecurityRisks    []SecurityRisk   `json:"security_risks"`
	SecurityGaps     []SecurityGap    `json:"security_gaps"`
	NISTScores       NISTScores       `json:"nist_framework_scores"`
	Recommendations  []Recommendation `json:"recommendations"`
}

// SecurityRisk is one identified risk with its business impact.
type SecurityRisk struct {
	Title    string   `json:"title"`
	Details  []string `json:"details"`
	Impact   string   `json:"impact"`
	Severity string   `json:"severity"` // High | Medium | Low
}

// SecurityGap is one gap between the current and required security posture.
type SecurityGap struct {
	Area          string `json:"area"`
	CurrentState  string `json:"current_state"`
	RequiredState string `json:"required_state"`
	Priority      string `json:"priority"` // Critical | High | Medium | Low
}

// NISTScores holds the maturity score for each of the five NIST CSF
// core functions. All five are always present.
type NISTScores struct {
	Identify FunctionScore `json:"identify"`
	Protect  FunctionScore `json:"protect"`
	Detect   FunctionScore `json:"detect"`
	Respond  FunctionScore `json:"respond"`
	Recover  FunctionScore `json:"recover"`
}

// FunctionScore is the maturity assessment for one NIST function.
type FunctionScore struct {
	Score    int      `json:"score"` // 1..5
	Findings []string `json:"findings"`
	KeyGaps  string   `json:"key_gaps"`
}

// Recommendation is one prioritized improvement action.
type Recommendation struct {
	Title                    string `json:"title"`
	Priority                 string `json:"priority"`                  // Critical | High | Medium | Low
	ImplementationComplexity string `json:"implementation_complexity"` // High | Medium | Low
	ExpectedImpact           string `json:"expected_impact"`
}

var (
	severityLevels = map[string]struct{}{"High": {}, "Medium": {}, "Low": {}}
	priorityLevels = map[string]struct{}{"Critical": {}, "High": {}, "Medium": {}, "Low": {}}
)

// Validate checks the schema invariants: every NIST function scored in
// [1,5] and every enum field holding one of its allowed values. A zero
// score also catches a function key missing from the generation output.
func (r *AssessmentReport) Validate() error {
	functions := []struct {
		name  string
		score FunctionScore
	}{
		{"identify", r.NISTScores.Identify},
		{"protect", r.NISTScores.Protect},
		{"detect", r.NISTScores.Detect},
		{"respond", r.NISTScores.Respond},
		{"recover", r.NISTScores.Recover},
	}
	for _, f := range functions {
		if f.score.Score < 1 || f.score.Score > 5 {
			return fmt.Errorf("nist_framework_scores.%s.score must be in [1,5], got %d", f.name, f.score.Score)
		}
	}

	for i, risk := range r.SecurityRisks {
		if _, ok := severityLevels[risk.Severity]; !ok {
			return fmt.Errorf("security_risks[%d].severity must be High, Medium or Low, got %q", i, risk.Severity)
		}
	}
	for i, gap := range r.SecurityGaps {
		if _, ok := priorityLevels[gap.Priority]; !ok {
			return fmt.Errorf("security_gaps[%d].priority must be Critical, High, Medium or Low, got %q", i, gap.Priority)
		}
	}
	for i, rec := range r.Recommendations {
		if _, ok := priorityLevels[rec.Priority]; !ok {
			return fmt.Errorf("recommendations[%d].priority must be Critical, High, Medium or Low, got %q", i, rec.Priority)
		}
		if _, ok := severityLevels[rec.ImplementationComplexity]; !ok {
			return fmt.Errorf(
				"recommendations[%d].implementation_complexity must be High, Medium or Low, got %q",
				i, rec.ImplementationComplexity,
			)
		}
	}

	return nil
}
