package rules

import "testing"

func TestSeverityScoreWeight(t *testing.T) {
	cases := []struct {
		severity Severity
		want     float64
	}{
		{SeverityError, 1.0},
		{SeverityWarning, 0.2},
		{SeverityInfo, 0.0},
		{Severity("unknown"), 0.0},
	}
	for _, tc := range cases {
		if got := tc.severity.ScoreWeight(); got != tc.want {
			t.Errorf("ScoreWeight(%s) = %v, want %v", tc.severity, got, tc.want)
		}
	}
}

func TestSeverityRank(t *testing.T) {
	if SeverityError.Rank() <= SeverityWarning.Rank() || SeverityWarning.Rank() <= SeverityInfo.Rank() {
		t.Error("severity ranks are not strictly ordered")
	}
}

func TestCalculateScore(t *testing.T) {
	errV := Violation{Severity: SeverityError}
	warnV := Violation{Severity: SeverityWarning}
	infoV := Violation{Severity: SeverityInfo}

	cases := []struct {
		name       string
		violations []Violation
		total      int
		weight     int
		want       int
	}{
		{"no violations", nil, 10, 20, 20},
		{"info only is free", []Violation{infoV, infoV, infoV}, 10, 20, 20},
		{"one warning in ten", []Violation{warnV}, 10, 20, 20},
		{"five warnings in ten", []Violation{warnV, warnV, warnV, warnV, warnV}, 10, 20, 18},
		{"error capped below weight", []Violation{errV}, 1000, 20, 18},
		{"all items in error", []Violation{errV, errV}, 2, 20, 0},
		{"zero items floored", nil, 0, 20, 20},
		{"overweighted clamps at zero", []Violation{errV, errV, errV}, 1, 10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CalculateScore(tc.violations, tc.total, tc.weight); got != tc.want {
				t.Errorf("CalculateScore() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	base := Loc("/users", "get")
	child := base.With("responses")
	if base.String() != "/users.get" {
		t.Errorf("base = %s", base.String())
	}
	if child.String() != "/users.get.responses" {
		t.Errorf("child = %s", child.String())
	}

	// Deriving siblings must not alias the parent's backing array.
	a := base.With("a")
	b := base.With("b")
	if a.String() == b.String() {
		t.Error("sibling locations alias each other")
	}
	if got := base.WithKey("content", "application/json").String(); got != "/users.get.content[application/json]" {
		t.Errorf("WithKey = %s", got)
	}
	if !Loc().IsEmpty() || base.IsEmpty() {
		t.Error("IsEmpty misreports")
	}
}
