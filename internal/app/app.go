//go:build linux

// Package app wires the staleproc command line together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pranshuparmar/staleproc/internal/attribution"
	"github.com/pranshuparmar/staleproc/internal/config"
	"github.com/pranshuparmar/staleproc/internal/match"
	"github.com/pranshuparmar/staleproc/internal/output"
	"github.com/pranshuparmar/staleproc/internal/proc"
	"github.com/pranshuparmar/staleproc/internal/tui"
	"github.com/pranshuparmar/staleproc/pkg/model"
)

// Exit codes
const (
	exitOK      = 0
	exitRuntime = 1 // Unexpected failure, e.g. /proc unreadable
	exitUsage   = 2 // Bad configuration or arguments
)

// Version is overridden at build time.
var Version = "dev"

// procRoot is the procfs mount scanned by the command.
var procRoot = proc.DefaultRoot

// argError marks invalid command line usage.
type argError struct {
	err error
}

func (e *argError) Error() string { return e.err.Error() }
func (e *argError) Unwrap() error { return e.err }

func argErrorf(format string, args ...any) error {
	return &argError{err: fmt.Errorf(format, args...)}
}

type options struct {
	configPath  string
	group       string
	verbose     bool
	interactive bool
	jsonOut     bool
	unitsOnly   bool
	batchSize   int
	debug       bool
	noColor     bool
}

// NewRootCmd builds the staleproc command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "staleproc",
		Short: "List services still running old copies of deleted or replaced files",
		Long: `staleproc scans the memory maps of every running process for files that
were deleted or replaced on disk (typically libraries after a package
upgrade) and lists the service units that need a restart, grouped as
configured. Processes that belong to no unit are listed by executable.`,
		Example: `  staleproc                  # units to restart, by group
  staleproc -t web           # only units of group "web"
  staleproc -v               # stale files per unit and orphan processes
  staleproc --json           # machine readable report
  staleproc -i               # browse the report interactively`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return argErrorf("unexpected arguments: %v", args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default: first of /etc/staleproc/config.yaml, ./staleproc.yaml)")
	f.StringVarP(&opts.group, "type", "t", "", "only list units of this group")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "show stale files per unit and processes outside any unit")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "browse the report in a terminal UI")
	f.BoolVar(&opts.jsonOut, "json", false, "output the report as JSON")
	f.BoolVar(&opts.unitsOnly, "units", false, "print bare unit names, one per line")
	f.IntVar(&opts.batchSize, "batch-size", attribution.DefaultBatchSize, "process ids per unit lookup")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colors")

	cmd.AddCommand(newCompletionCmd())

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &argError{err: err}
	})
	_ = cmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return completeGroups(opts.configPath), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// Execute runs the command with args and returns the process exit status.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitCode(err)
}

// ExitCode maps an error returned by the command to an exit status.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var cfgErr *config.ConfigError
	var argErr *argError
	if errors.As(err, &cfgErr) || errors.As(err, &argErr) {
		return exitUsage
	}
	return exitRuntime
}

func (o *options) validate() error {
	if o.batchSize < 1 {
		return argErrorf("--batch-size must be at least 1, got %d", o.batchSize)
	}
	modes := 0
	for _, set := range []bool{o.verbose, o.interactive, o.jsonOut, o.unitsOnly} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return argErrorf("--verbose, --interactive, --json and --units are mutually exclusive")
	}
	return nil
}

func run(cmd *cobra.Command, opts *options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	log := newLogger(cmd.ErrOrStderr(), opts.debug)
	defer func() { _ = log.Sync() }()

	cfg, path, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	log.Debug("loaded config", zap.String("path", path))

	p, err := NewPipeline(cfg, proc.NewFS(procRoot), opts.batchSize, log)
	if err != nil {
		return err
	}
	if opts.group != "" {
		if err := p.Classifier.CheckGroup(opts.group); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	build := func() (model.Report, error) {
		r, err := p.Run(ctx)
		if err != nil {
			return r, err
		}
		if opts.group != "" {
			r = r.Filter(opts.group)
		}
		return r, nil
	}

	r, err := build()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := output.NewStyles(!opts.noColor && isTerminal(out))
	switch {
	case opts.interactive:
		// Diagnostics would corrupt the alternate screen.
		p.Log = zap.NewNop()
		return tui.Run(r, build)
	case opts.jsonOut:
		s, err := output.ToJSON(r)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		fmt.Fprintln(out, s)
	case opts.verbose:
		output.RenderVerbose(out, r, styles)
	case opts.unitsOnly:
		output.RenderUnits(out, r)
	default:
		output.RenderPlain(out, r, styles)
	}
	return nil
}

// completeGroups offers the group names of the config that would be loaded.
func completeGroups(configPath string) []string {
	cfg, _, err := config.Load(configPath)
	if err != nil {
		return nil
	}
	c, err := match.NewClassifier(cfg.GroupServices)
	if err != nil {
		return nil
	}
	return c.Names()
}

// Main is the entry point used by cmd/staleproc.
func Main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
