//go:build linux

// Package scan finds processes that map files whose on-disk copy has been
// deleted or replaced.
package scan

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"syscall"

	"go.uber.org/zap"

	"github.com/pranshuparmar/staleproc/internal/proc"
	"github.com/pranshuparmar/staleproc/pkg/model"
)

// ProcessSource enumerates processes and opens their maps tables.
type ProcessSource interface {
	PIDs() ([]int, error)
	OpenMaps(pid int) (io.ReadCloser, error)
}

// Scanner builds a StaleIndex from the live process table.
type Scanner struct {
	Source ProcessSource
	// Ignore reports paths that must never be reported. May be nil.
	Ignore func(path string) bool
	// Stat defaults to os.Stat.
	Stat func(path string) (os.FileInfo, error)
	// SkipPID is left out of the scan, normally our own pid.
	SkipPID int
	Log     *zap.Logger
}

// New returns a Scanner over source that skips the calling process.
func New(source ProcessSource, ignore func(string) bool, log *zap.Logger) *Scanner {
	return &Scanner{
		Source:  source,
		Ignore:  ignore,
		Stat:    os.Stat,
		SkipPID: os.Getpid(),
		Log:     log,
	}
}

var (
	errNoInode = errors.New("file info carries no inode")
	// Reading maps of a process that exited after open fails with ESRCH.
	errProcessGone = syscall.ESRCH
)

type statResult struct {
	inode uint64
	err   error
}

type scanState struct {
	*Scanner
	index   model.StaleIndex
	tracker *Tracker
	stats   map[string]statResult
}

// Scan inspects every process and returns the stale references found. Only
// a failure to enumerate processes is returned as an error; per-process
// failures are counted in the Tracker and logged.
func (s *Scanner) Scan(ctx context.Context) (model.StaleIndex, *Tracker, error) {
	st := &scanState{
		Scanner: s,
		index:   make(model.StaleIndex),
		tracker: &Tracker{},
		stats:   make(map[string]statResult),
	}
	if st.Log == nil {
		st.Log = zap.NewNop()
	}
	if st.Stat == nil {
		st.Stat = os.Stat
	}

	pids, err := s.Source.PIDs()
	if err != nil {
		return nil, st.tracker, err
	}

	for _, pid := range pids {
		if ctx.Err() != nil {
			st.Log.Warn("scan interrupted", zap.Error(ctx.Err()))
			break
		}
		if pid == s.SkipPID {
			continue
		}
		st.scanProcess(pid)
	}
	return st.index, st.tracker, nil
}

func (st *scanState) scanProcess(pid int) {
	rc, err := st.Source.OpenMaps(pid)
	if err != nil {
		st.processFailure(pid, err)
		return
	}
	defer rc.Close()

	st.tracker.Processes++
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		st.scanLine(pid, sc.Text())
	}
	if err := sc.Err(); err != nil {
		// maps of a process that exits mid-read, or one we may not ptrace,
		// fail on read rather than open.
		st.processFailure(pid, err)
	}
}

func (st *scanState) processFailure(pid int, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, errProcessGone):
		st.tracker.Vanished++
		st.Log.Debug("process vanished", zap.Int("pid", pid), zap.Error(err))
	case errors.Is(err, fs.ErrPermission):
		st.tracker.PermissionDenied++
		st.Log.Warn("permission denied reading maps", zap.Int("pid", pid), zap.Error(err))
	default:
		st.tracker.IOErrors++
		st.Log.Warn("cannot read maps", zap.Int("pid", pid), zap.Error(err))
	}
}

func (st *scanState) scanLine(pid int, line string) {
	rec, err := proc.ParseMapRecord(line)
	if err != nil {
		st.tracker.ParseErrors++
		st.Log.Warn("skipping maps line", zap.Int("pid", pid), zap.String("line", line))
		return
	}
	if rec.Inode == 0 || rec.Path == "" {
		return
	}
	if st.Ignore != nil && st.Ignore(rec.Path) {
		return
	}

	res, fresh := st.stat(rec.Path)
	switch {
	case res.err == nil:
		if res.inode != rec.Inode {
			st.index.Add(rec.Path, pid)
		}
	case errors.Is(res.err, fs.ErrNotExist):
		st.index.Add(rec.Path, pid)
	case !fresh:
		// Failure already counted for this path.
	case errors.Is(res.err, fs.ErrPermission):
		// Staleness is unproven, so the process is not reported for this path.
		st.tracker.PermissionDenied++
		st.Log.Warn("permission denied checking file",
			zap.Int("pid", pid), zap.String("path", rec.Path), zap.Error(res.err))
	default:
		st.tracker.IOErrors++
		st.Log.Warn("cannot check file",
			zap.Int("pid", pid), zap.String("path", rec.Path), zap.Error(res.err))
	}
}

// stat is cached per scan; a shared library is mapped by most processes.
func (st *scanState) stat(path string) (statResult, bool) {
	if res, ok := st.stats[path]; ok {
		return res, false
	}
	var res statResult
	info, err := st.Stat(path)
	if err != nil {
		res.err = err
	} else if ino, ok := proc.Inode(info); ok {
		res.inode = ino
	} else {
		res.err = errNoInode
	}
	st.stats[path] = res
	return res, true
}
