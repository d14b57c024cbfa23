// Package validator runs advisory checks over an analysed bill before the
// operator verifies it. Findings never block the lifecycle; the hard
// invariants (tax regime, posting balance, declared total) are enforced by
// the verification path itself.
package validator

import (
	"billmunshi/internal/domain"
)

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Result is the outcome of one rule over one field.
type Result struct {
	RuleKey   string   `json:"rule_key"`
	Severity  Severity `json:"severity"`
	FieldPath string   `json:"field_path"`
	Passed    bool     `json:"passed"`
	Message   string   `json:"message"`
}

// Subject bundles everything the rules inspect.
type Subject struct {
	Bill   *domain.AnalyzedBill
	Items  []domain.BillLineItem
	Vendor *domain.Ledger
}

// Rule is one advisory check.
type Rule interface {
	RuleKey() string
	Severity() Severity
	Check(s *Subject) []Result
}

// Engine runs an ordered rule set.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the built-in rule set.
func NewEngine() *Engine {
	return &Engine{rules: builtinRules()}
}

// Run evaluates every rule and returns all results, passed and failed.
func (e *Engine) Run(s *Subject) []Result {
	var results []Result
	for _, r := range e.rules {
		results = append(results, r.Check(s)...)
	}
	return results
}

// Failed filters results down to the ones that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
