package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"millwright/judgment/pkg/cli"
	"millwright/judgment/pkg/mining/source"
	"millwright/judgment/pkg/rulelang"
	rlerrors "millwright/judgment/pkg/rulelang/errors"
)

var lintFlags struct {
	files  []string
	fields []string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint [EXPRESSION...]",
	Short: "Check rules for syntax and semantic errors",
	Long: `Check rule expressions without evaluating them.

Rules are taken from the arguments and from candidate files given with
--file (the YAML or JSON format read by mining sources). Each rule is
parsed and statically validated:
  - Syntax (operators, parentheses, literals)
  - Operand types (ordering needs numbers, && and || need booleans)
  - Field references, when --fields lists the known fields

The exit status is 1 when any rule is invalid.

Examples:
  # Lint expressions
  judgment lint 'temperature > 85' 'status = "ok"'

  # Lint captured LLM output against the known record fields
  judgment lint --file llm_rules.yaml --fields temperature,vibration

  # JSON output for CI
  judgment lint --file llm_rules.yaml --format json`,
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringSliceVarP(&lintFlags.files, "file", "f", nil, "candidate rule file to lint (repeatable)")
	lintCmd.Flags().StringSliceVar(&lintFlags.fields, "fields", nil, "known record fields; unknown references are errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json, yaml")
}

// lintIssue is one problem found in a rule.
type lintIssue struct {
	Type       string `json:"type" yaml:"type"`
	Message    string `json:"message" yaml:"message"`
	Offset     int    `json:"offset" yaml:"offset"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`

	pretty string
}

// lintResult is the lint outcome of one rule.
type lintResult struct {
	Expression string      `json:"expression" yaml:"expression"`
	Origin     string      `json:"origin" yaml:"origin"`
	Valid      bool        `json:"valid" yaml:"valid"`
	Issues     []lintIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// lintReport is the printed outcome of a lint run.
type lintReport struct {
	Results []lintResult `json:"results" yaml:"results"`
	Invalid int          `json:"invalid" yaml:"invalid"`
}

func (r lintReport) String() string {
	var sb strings.Builder
	for _, res := range r.Results {
		if res.Valid {
			fmt.Fprintf(&sb, "✓ %s (%s)\n", res.Expression, res.Origin)
			continue
		}
		fmt.Fprintf(&sb, "✗ %s (%s)\n", res.Expression, res.Origin)
		for _, issue := range res.Issues {
			sb.WriteString(issue.pretty)
		}
	}
	fmt.Fprintf(&sb, "%d rule(s) checked, %d invalid", len(r.Results), r.Invalid)
	return sb.String()
}

func lintRules(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(lintFlags.format)
	if err != nil {
		return err
	}

	type rule struct{ expr, origin string }
	var rules []rule
	for i, expr := range args {
		rules = append(rules, rule{expr: expr, origin: fmt.Sprintf("arg %d", i+1)})
	}
	for _, path := range lintFlags.files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read rule file: %w", err)
		}
		candidates, err := source.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for i, c := range candidates {
			rules = append(rules, rule{expr: c.Expression, origin: fmt.Sprintf("%s #%d", path, i+1)})
		}
	}
	if len(rules) == 0 {
		return cli.NewConfigError("lint", "no rules given; pass expressions or --file")
	}

	var report lintReport
	for _, r := range rules {
		res := lintResult{Expression: r.expr, Origin: r.origin, Valid: true}
		if _, err := rulelang.Check(r.expr, lintFlags.fields...); err != nil {
			res.Valid = false
			res.Issues = lintIssues(err)
			report.Invalid++
		}
		report.Results = append(report.Results, res)
	}

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if report.Invalid > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// lintIssues flattens a rule language error into issues.
func lintIssues(err error) []lintIssue {
	var items []*rlerrors.Error
	var list *rlerrors.ErrorList
	var single *rlerrors.Error
	switch {
	case errors.As(err, &list):
		items = list.Errors
	case errors.As(err, &single):
		items = []*rlerrors.Error{single}
	default:
		return []lintIssue{{Type: "error", Message: err.Error(), pretty: err.Error() + "\n"}}
	}

	issues := make([]lintIssue, 0, len(items))
	for _, e := range items {
		issues = append(issues, lintIssue{
			Type:       string(e.Type),
			Message:    e.Message,
			Offset:     e.Offset,
			Suggestion: e.Suggestion,
			pretty:     rlerrors.Pretty(e),
		})
	}
	return issues
}
