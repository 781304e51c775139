//go:build linux

package app

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/pranshuparmar/staleproc/internal/attribution"
	"github.com/pranshuparmar/staleproc/internal/config"
	"github.com/pranshuparmar/staleproc/internal/match"
	"github.com/pranshuparmar/staleproc/internal/proc"
	"github.com/pranshuparmar/staleproc/internal/report"
	"github.com/pranshuparmar/staleproc/internal/scan"
	"github.com/pranshuparmar/staleproc/pkg/model"
)

// Pipeline runs one scan of the process table and turns it into a report.
type Pipeline struct {
	FS         *proc.FS
	Ignore     *match.Matcher
	Catchall   *match.Matcher
	Classifier *match.Classifier
	BatchSize  int
	Log        *zap.Logger
	// Privileged suppresses the re-run-as-root hint.
	Privileged bool
}

// NewPipeline compiles the rules of cfg. Invalid rules yield a
// *config.ConfigError.
func NewPipeline(cfg *config.Config, fs *proc.FS, batchSize int, log *zap.Logger) (*Pipeline, error) {
	ignore, err := match.Compile(config.KeyIgnorePaths, cfg.IgnorePaths)
	if err != nil {
		return nil, err
	}
	catchall, err := match.Compile(config.KeyCatchallUnits, cfg.CatchallUnits)
	if err != nil {
		return nil, err
	}
	classifier, err := match.NewClassifier(cfg.GroupServices)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		FS:         fs,
		Ignore:     ignore,
		Catchall:   catchall,
		Classifier: classifier,
		BatchSize:  batchSize,
		Log:        log,
		Privileged: unix.Geteuid() == 0,
	}, nil
}

// Run scans, attributes and builds the report.
func (p *Pipeline) Run(ctx context.Context) (model.Report, error) {
	scanner := scan.New(p.FS, p.Ignore.Match, p.Log)
	index, tracker, err := scanner.Scan(ctx)
	if err != nil {
		return model.Report{}, fmt.Errorf("scanning processes: %w", err)
	}
	tracker.LogSummary(p.Log, p.Privileged)
	p.Log.Debug("scan finished",
		zap.Int("processes", tracker.Processes),
		zap.Int("stale_files", len(index)),
		zap.Int("vanished", tracker.Vanished),
		zap.Int("parse_errors", tracker.ParseErrors),
	)

	byPID := index.ByProcess()
	pids := make([]int, 0, len(byPID))
	for pid := range byPID {
		pids = append(pids, pid)
	}
	slices.Sort(pids)

	resolver := attribution.NewResolver(p.FS, p.BatchSize, p.Log)
	attrs := resolver.Attribute(pids, p.Catchall.Match)

	b := report.Builder{
		Classifier: p.Classifier,
		Catchall:   p.Catchall.Match,
		Owner:      resolver.Owner,
		Log:        p.Log,
	}
	return b.Build(index, attrs), nil
}
