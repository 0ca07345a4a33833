package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"svls/internal/linter"
	"svls/internal/logging"
	"svls/internal/lsp"
	"svls/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "svls",
	Short: "SystemVerilog language server",
	Long: `svls lints SystemVerilog buffers as they are edited and publishes the
results as diagnostics over the language server protocol on stdio.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.Flags().String("log-level", "off", "log level (off|error|warn|info|debug|trace)")
	rootCmd.Flags().String("log-file", "svls.log", "file to append logs to")
	rootCmd.Flags().Bool("drop-superseded", false, "skip queued passes replaced by a newer edit of the same document")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
}

// main registers subcommands and runs the root command. Errors other than a
// failed check are printed; every error exits with status 1.
func main() {
	rootCmd.Version = version.String()
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "svls:", err)
		}
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	logFile, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return fmt.Errorf("failed to get log-file flag: %w", err)
	}
	dropSuperseded, err := cmd.Flags().GetBool("drop-superseded")
	if err != nil {
		return fmt.Errorf("failed to get drop-superseded flag: %w", err)
	}

	log, err := logging.New(level, logFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	state := linter.NewState(log, linter.Options{})
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Linter:         linter.New(state, log),
		Log:            log,
		Version:        version.String(),
		DropSuperseded: dropSuperseded,
	})
	log.Info("serving", zap.String("version", version.String()))
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		return err
	}
	return nil
}

// useColor resolves the --color flag for f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	}
	return false, fmt.Errorf("unknown color mode %q (must be auto, on or off)", mode)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
