package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"svls/internal/lint"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the lint rules that .svlint.toml can enable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		verbose, err := cmd.Flags().GetBool("reason")
		if err != nil {
			return fmt.Errorf("failed to get reason flag: %w", err)
		}
		printRules(cmd.OutOrStdout(), lint.Catalog(), verbose)
		return nil
	},
}

func init() {
	rulesCmd.Flags().Bool("reason", false, "explain why each rule exists")
}

func printRules(out io.Writer, rules []lint.Rule, withReason bool) {
	width := 0
	for _, r := range rules {
		width = max(width, runewidth.StringWidth(r.Name()))
	}
	for _, r := range rules {
		name := r.Name()
		pad := strings.Repeat(" ", width-runewidth.StringWidth(name))
		fmt.Fprintf(out, "%s%s  %s\n", name, pad, r.Hint())
		if withReason {
			fmt.Fprintf(out, "%s  %s\n", strings.Repeat(" ", width), r.Reason())
		}
	}
}
