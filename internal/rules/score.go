package rules

import "math"

// CalculateScore turns a violation list into a rule score.
//
// Each violation contributes its severity weight to a weighted violation
// percentage over the number of items examined (floored at 1 to avoid
// division by zero). The score is weight × (1 − percentage), rounded and
// clamped to [0, weight]. Any error-severity violation additionally caps the
// score at weight − 2, so a large denominator can never dilute an error into
// a near-perfect score.
func CalculateScore(violations []Violation, totalItems, weight int) int {
	if totalItems < 1 {
		totalItems = 1
	}

	var weighted float64
	hasError := false
	for _, v := range violations {
		weighted += v.Severity.ScoreWeight()
		if v.Severity == SeverityError {
			hasError = true
		}
	}

	pct := weighted / float64(totalItems)
	score := int(math.Round(float64(weight) * (1 - pct)))
	return capAndClamp(score, weight, hasError)
}

// capAndClamp applies the error cap and clamps the score to [0, weight].
func capAndClamp(score, weight int, hasError bool) int {
	if hasError && score > weight-2 {
		score = weight - 2
	}
	if score < 0 {
		return 0
	}
	if score > weight {
		return weight
	}
	return score
}

// hasSeverity reports whether any violation carries the given severity.
func hasSeverity(violations []Violation, s Severity) bool {
	for _, v := range violations {
		if v.Severity == s {
			return true
		}
	}
	return false
}

// countSeverity counts violations of the given severity.
func countSeverity(violations []Violation, s Severity) int {
	n := 0
	for _, v := range violations {
		if v.Severity == s {
			n++
		}
	}
	return n
}

func roundRatio(weight int, ratio float64) int {
	return int(math.Round(float64(weight) * ratio))
}
