package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.lsp.dev/protocol"
	"golang.org/x/sync/errgroup"

	"svls/internal/linter"
)

// errCheckFailed makes the process exit 1 without printing anything more.
var errCheckFailed = errors.New("check found errors")

var sourceExts = []string{".sv", ".svh", ".v", ".vh"}

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|directory>...",
	Short: "Lint files from disk with the server's configuration",
	Long: `Lint SystemVerilog files, or every .sv/.svh/.v/.vh file under the given
directories, using .svls.toml and .svlint.toml found from the working
directory. Includes are searched next to each file before the configured
include paths. Exits with status 1 when any file fails to parse.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

type checkResult struct {
	path  string
	text  string
	diags []protocol.Diagnostic
	err   error
}

func runCheck(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}

	state := linter.NewState(nil, linter.Options{})
	warnings, err := state.Initialize(wd)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}

	results, err := checkFiles(cmd.Context(), linter.New(state, nil), files, jobs)
	if err != nil {
		return err
	}

	r := newReporter(cmd.OutOrStdout(), colored)
	failed := false
	for _, res := range results {
		if res.err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.path, res.err)
			failed = true
			continue
		}
		for _, d := range res.diags {
			r.report(res.path, res.text, d)
			if d.Severity == protocol.DiagnosticSeverityError {
				failed = true
			}
		}
	}
	if failed {
		return errCheckFailed
	}
	return nil
}

// checkFiles analyzes files in parallel. Results keep the order of files.
func checkFiles(ctx context.Context, l *linter.Linter, files []string, jobs int) ([]checkResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]checkResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			results[i].path = path
			// #nosec G304 -- path comes from the command line
			data, err := os.ReadFile(path)
			if err != nil {
				results[i].err = err
				return nil
			}
			text := string(data)
			diags, err := l.AnalyzeFile(gctx, path, text)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i].text = text
			results[i].diags = diags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// collectFiles expands directories into their source files, sorted.
// Explicit file arguments are kept whatever their extension.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if slices.Contains(sourceExts, strings.ToLower(filepath.Ext(path))) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}
