// Package attribution works out which service unit, or failing that which
// executable and user, is responsible for a process.
package attribution

import (
	"go.uber.org/zap"

	"github.com/pranshuparmar/staleproc/internal/proc"
	"github.com/pranshuparmar/staleproc/pkg/model"
)

// DefaultBatchSize keeps a ps command line well below common ARG_MAX limits.
const DefaultBatchSize = 480

// ProcessInfo supplies per-process executable and owner lookups.
type ProcessInfo interface {
	Exe(pid int) (string, error)
	Owner(pid int) string
}

// Resolver attributes processes to units or executables.
type Resolver struct {
	Info      ProcessInfo
	BatchSize int
	// UnitLookup runs one batched query; defaults to proc.Units.
	UnitLookup func(pids []int) (map[int]string, error)
	Log        *zap.Logger
}

// NewResolver returns a Resolver using ps for units and info for the rest.
func NewResolver(info ProcessInfo, batchSize int, log *zap.Logger) *Resolver {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{Info: info, BatchSize: batchSize, UnitLookup: proc.Units, Log: log}
}

// Units resolves the managing unit of each pid with one lookup per batch.
// A failed batch is logged and its pids are left without a unit.
func (r *Resolver) Units(pids []int) map[int]string {
	units := make(map[int]string)
	for _, batch := range Chunk(pids, r.BatchSize) {
		got, err := r.UnitLookup(batch)
		if err != nil {
			r.Log.Warn("unit lookup failed",
				zap.Int("batch_size", len(batch)), zap.Int("first_pid", batch[0]), zap.Error(err))
			continue
		}
		for pid, unit := range got {
			if unit == "" || unit == model.NoUnit {
				continue
			}
			units[pid] = unit
		}
	}
	return units
}

// Executables resolves the executable path of each pid. Processes that are
// gone or unreadable are logged and left out.
func (r *Resolver) Executables(pids []int) map[int]string {
	exes := make(map[int]string, len(pids))
	for _, pid := range pids {
		exe, err := r.Info.Exe(pid)
		if err != nil {
			r.Log.Warn("cannot resolve executable", zap.Int("pid", pid), zap.Error(err))
			continue
		}
		exes[pid] = exe
	}
	return exes
}

// Owner returns the display name of the user owning pid.
func (r *Resolver) Owner(pid int) string {
	return r.Info.Owner(pid)
}

// Attribute resolves every pid: units in batches, then executables for the
// pids without a unit or whose unit is unmanaged (may be nil).
func (r *Resolver) Attribute(pids []int, unmanaged func(unit string) bool) map[int]model.Attribution {
	out := make(map[int]model.Attribution, len(pids))
	units := r.Units(pids)

	var needExe []int
	for _, pid := range pids {
		unit := units[pid]
		out[pid] = model.Attribution{Unit: unit}
		if unit == "" || (unmanaged != nil && unmanaged(unit)) {
			needExe = append(needExe, pid)
		}
	}
	for pid, exe := range r.Executables(needExe) {
		a := out[pid]
		a.Exe = exe
		out[pid] = a
	}
	return out
}

// Chunk splits pids into consecutive batches of at most size elements.
func Chunk(pids []int, size int) [][]int {
	if size < 1 {
		size = DefaultBatchSize
	}
	var batches [][]int
	for len(pids) > size {
		batches = append(batches, pids[:size:size])
		pids = pids[size:]
	}
	if len(pids) > 0 {
		batches = append(batches, pids)
	}
	return batches
}
