package domain

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func validReport() AssessmentReport {
	return AssessmentReport{
		ExecutiveSummary: "Acme Corp operates industrial control systems with a maturing security program.",
		SecurityRisks: []SecurityRisk{
			{
				Title:    "Unpatched perimeter systems",
				Details:  []string{"VPN appliance two releases behind", "No emergency patch process"},
				Impact:   "Remote compromise of the corporate network",
				Severity: "High",
			},
		},
		SecurityGaps: []SecurityGap{
			{
				Area:          "Access control",
				CurrentState:  "Shared administrator accounts",
				RequiredState: "Individual accounts with MFA",
				Priority:      "Critical",
			},
		},
		NISTScores: NISTScores{
			Identify: FunctionScore{Score: 3, Findings: []string{"Asset inventory exists"}, KeyGaps: "No data classification"},
			Protect:  FunctionScore{Score: 2, Findings: []string{"Basic firewall rules"}, KeyGaps: "No MFA"},
			Detect:   FunctionScore{Score: 2, Findings: []string{"Antivirus only"}, KeyGaps: "No central log collection"},
			Respond:  FunctionScore{Score: 1, Findings: []string{"No documented playbooks"}, KeyGaps: "No incident response plan"},
			Recover:  FunctionScore{Score: 2, Findings: []string{"Weekly backups"}, KeyGaps: "Restore never tested"},
		},
		Recommendations: []Recommendation{
			{
				Title:                    "Deploy MFA for all remote access",
				Priority:                 "Critical",
				ImplementationComplexity: "Medium",
				ExpectedImpact:           "Sharply reduced account-takeover risk",
			},
		},
	}
}

func TestReportRoundTrip(t *testing.T) {
	orig := validReport()

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded AssessmentReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(orig, decoded) {
		t.Errorf("round trip changed content:\norig:    %+v\ndecoded: %+v", orig, decoded)
	}
}

func TestReportRoundTrip_IgnoresFormatting(t *testing.T) {
	orig := validReport()
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Re-indenting must not change the parsed content.
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "    "); err != nil {
		t.Fatalf("indent: %v", err)
	}

	var decoded AssessmentReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal indented: %v", err)
	}
	if !reflect.DeepEqual(orig, decoded) {
		t.Error("indented JSON decoded to different content")
	}
}

func TestValidate_OK(t *testing.T) {
	r := validReport()
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ScoreOutOfRange(t *testing.T) {
	r := validReport()
	r.NISTScores.Detect.Score = 6
	err := r.Validate()
	if err == nil {
		t.Fatal("expected error for score 6")
	}
	if !strings.Contains(err.Error(), "detect") {
		t.Errorf("error should name the function, got %v", err)
	}
}

func TestValidate_MissingFunctionScore(t *testing.T) {
	// A function key absent from the generation output decodes to the
	// zero value, which must fail the [1,5] range check.
	r := validReport()
	r.NISTScores.Recover = FunctionScore{}
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for missing recover score")
	}
}

func TestValidate_BadEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AssessmentReport)
	}{
		{"risk severity", func(r *AssessmentReport) { r.SecurityRisks[0].Severity = "Severe" }},
		{"gap priority", func(r *AssessmentReport) { r.SecurityGaps[0].Priority = "Urgent" }},
		{"recommendation priority", func(r *AssessmentReport) { r.Recommendations[0].Priority = "P1" }},
		{"complexity", func(r *AssessmentReport) { r.Recommendations[0].ImplementationComplexity = "Critical" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReport()
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
