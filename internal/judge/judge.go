package judge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"oascore.io/oascore/internal/oas"
	"oascore.io/oascore/internal/pkg/logger"
	"oascore.io/oascore/internal/pkg/worker"
	"oascore.io/oascore/internal/rules"
)

// Judge evaluates a document against its rule set and assembles a ScoreCard.
// A Judge is safe for concurrent use: the rules are stateless and the
// document is never mutated.
type Judge struct {
	rules []rules.Rule
	pool  *worker.Pool
}

// Option configures a Judge.
type Option func(*Judge)

// WithPool runs the rule evaluators on the given worker pool instead of
// inline. Purely a throughput optimization, results are identical.
func WithPool(pool *worker.Pool) Option {
	return func(j *Judge) { j.pool = pool }
}

// WithRules replaces the default rule set.
func WithRules(ruleSet []rules.Rule) Option {
	return func(j *Judge) { j.rules = ruleSet }
}

// New builds a Judge over the rule set derived from the given weights.
func New(weights rules.Weights, opts ...Option) *Judge {
	j := &Judge{rules: rules.All(weights)}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Evaluate runs every rule against the document and aggregates the results
// into one ScoreCard. Rule evaluation order never affects the outcome.
func (j *Judge) Evaluate(ctx context.Context, doc *oas.Document) *ScoreCard {
	results := make([]rules.Result, len(j.rules))

	if j.pool != nil {
		var wg sync.WaitGroup
		// Tasks are submitted with a detached context: a task the pool skips
		// after a cancellation while queued would never signal the WaitGroup.
		poolCtx := context.WithoutCancel(ctx)
		for i, rule := range j.rules {
			wg.Add(1)
			task := func(context.Context) {
				defer wg.Done()
				results[i] = j.evaluateRule(rule, doc)
			}
			if err := j.pool.Submit(poolCtx, task); err != nil {
				// Pool saturated or shut down, degrade to inline.
				results[i] = j.evaluateRule(rule, doc)
				wg.Done()
			}
		}
		wg.Wait()
	} else {
		for i, rule := range j.rules {
			results[i] = j.evaluateRule(rule, doc)
		}
	}

	return j.assemble(results)
}

// evaluateRule isolates rule faults: a panicking rule yields a zero-score
// result with a single error violation instead of taking down the whole
// evaluation.
func (j *Judge) evaluateRule(rule rules.Rule, doc *oas.Document) (res rules.Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("rule evaluation failed",
				zap.String("rule", rule.Name()),
				zap.Any("panic", r))
			res = rules.Result{
				MaxScore: rule.Weight(),
				Violations: []rules.Violation{{
					Location:   rule.Name(),
					Message:    fmt.Sprintf("Rule evaluation failed: %v", r),
					Severity:   rules.SeverityError,
					Suggestion: "Report this document as a scorer bug",
				}},
			}
		}
	}()
	return rule.Evaluate(doc)
}

func (j *Judge) assemble(results []rules.Result) *ScoreCard {
	card := &ScoreCard{Categories: make([]CategoryScore, 0, len(j.rules))}

	totalScore, totalMax := 0, 0
	for i, rule := range j.rules {
		res := results[i]
		totalScore += res.Score
		totalMax += res.MaxScore

		pct := 0
		if res.MaxScore > 0 {
			pct = int(math.Round(float64(res.Score) / float64(res.MaxScore) * 100))
		}
		card.Categories = append(card.Categories, CategoryScore{
			Name:       rule.Name(),
			Title:      rule.Title(),
			Score:      res.Score,
			MaxScore:   res.MaxScore,
			Percentage: pct,
			Result:     res,
		})

		for _, v := range res.Violations {
			if v.Severity == rules.SeverityInfo {
				continue
			}
			card.Violations = append(card.Violations, v)
		}
	}

	if totalMax > 0 {
		card.OverallScore = int(math.Round(float64(totalScore) / float64(totalMax) * 100))
	}
	card.Grade = GradeFor(card.OverallScore)

	// Highest severity first, then stable by location for deterministic
	// output.
	sort.SliceStable(card.Violations, func(a, b int) bool {
		va, vb := card.Violations[a], card.Violations[b]
		if va.Severity.Rank() != vb.Severity.Rank() {
			return va.Severity.Rank() > vb.Severity.Rank()
		}
		return va.Location < vb.Location
	})

	return card
}
