/*
Package cli provides command-line interface utilities for judgment.

Output Formatting:

Commands print results as text, JSON or YAML, selected by --output:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, result); err != nil {
		return err
	}

Text output uses the value's String method, so result types render
themselves for humans while JSON and YAML use struct tags.

Errors and Exit Codes:

ExitCode maps the error a command returns to a process status: ConfigError
exits 2, ExitError carries its own code, anything else exits 1.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
