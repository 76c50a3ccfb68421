package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"millwright/judgment/pkg/cli"
	rlerrors "millwright/judgment/pkg/rulelang/errors"
	"millwright/judgment/pkg/rulelang/eval"
)

var evaluateFlags struct {
	record     string
	recordFile string
	quiet      bool
	format     string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate EXPRESSION",
	Short: "Evaluate a rule against a JSON record",
	Long: `Evaluate a rule expression against one flat JSON object.

The record is given inline with --record, read from a file with
--record-file, or read from stdin when --record-file is "-".

With --quiet nothing is printed and the exit status is the result:
0 when the rule holds, 1 when it does not, 2 on error.

Examples:
  # Inline record
  judgment evaluate 'temperature > 85' --record '{"temperature": 88}'

  # Record from stdin, JSON output
  echo '{"status": "ok"}' | judgment evaluate 'status == "ok"' --record-file - --format json

  # Use in shell conditionals
  judgment evaluate 'active' --record "$REC" --quiet && echo accepted`,
	Args: cobra.ExactArgs(1),
	RunE: evaluateRule,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.record, "record", "r", "", "JSON object to evaluate against")
	evaluateCmd.Flags().StringVarP(&evaluateFlags.recordFile, "record-file", "f", "", "file holding the JSON object (- for stdin)")
	evaluateCmd.Flags().BoolVarP(&evaluateFlags.quiet, "quiet", "q", false, "print nothing; report the result as exit status")
	evaluateCmd.Flags().StringVar(&evaluateFlags.format, "format", "text", "output format: text, json, yaml")
}

// evaluateResult is the printed outcome of an evaluation.
type evaluateResult struct {
	Expression string `json:"expression" yaml:"expression"`
	Result     bool   `json:"result" yaml:"result"`
}

func (r evaluateResult) String() string {
	return fmt.Sprintf("%t", r.Result)
}

func evaluateRule(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(evaluateFlags.format)
	if err != nil {
		return err
	}

	raw, err := readRecord(cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeApp(a)

	data, err := eval.DecodeRecord(raw)
	if err != nil {
		return cli.NewConfigError("record", err.Error())
	}

	expr := args[0]
	result, err := eval.NewEvaluator(a.metrics).Evaluate(expr, data)
	if err != nil {
		if evaluateFlags.quiet {
			return &cli.ExitError{Code: 2}
		}
		printRuleError(cmd.ErrOrStderr(), err)
		return cli.NewCommandError("evaluate", err)
	}

	if evaluateFlags.quiet {
		if !result {
			return &cli.ExitError{Code: 1}
		}
		return nil
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), evaluateResult{Expression: expr, Result: result})
}

// readRecord returns the record bytes from the flags.
func readRecord(stdin io.Reader) ([]byte, error) {
	switch {
	case evaluateFlags.record != "" && evaluateFlags.recordFile != "":
		return nil, cli.NewConfigError("record", "--record and --record-file are mutually exclusive")
	case evaluateFlags.record != "":
		return []byte(evaluateFlags.record), nil
	case evaluateFlags.recordFile == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read record from stdin: %w", err)
		}
		return data, nil
	case evaluateFlags.recordFile != "":
		data, err := os.ReadFile(evaluateFlags.recordFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read record file: %w", err)
		}
		return data, nil
	}
	return nil, cli.NewConfigError("record", "one of --record or --record-file is required")
}

// printRuleError writes rule language errors with a caret under the
// offending column, one block per error.
func printRuleError(w io.Writer, err error) {
	var list *rlerrors.ErrorList
	if errors.As(err, &list) {
		for _, e := range list.Errors {
			fmt.Fprint(w, rlerrors.Pretty(e))
		}
		return
	}
	var e *rlerrors.Error
	if errors.As(err, &e) {
		fmt.Fprint(w, rlerrors.Pretty(e))
		return
	}
	fmt.Fprintln(w, err)
}
