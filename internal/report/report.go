// Package report folds stale references and process attributions into the
// list of units and executables that need a restart.
package report

import (
	"slices"

	"go.uber.org/zap"

	"github.com/pranshuparmar/staleproc/pkg/model"
)

// Classifier maps a unit name to its group.
type Classifier interface {
	Classify(unit string) string
	Names() []string
}

// Builder assembles a model.Report.
type Builder struct {
	Classifier Classifier
	// Catchall matches units that are treated as if the process had none.
	Catchall func(unit string) bool
	// Owner resolves the display name of the user running pid.
	Owner func(pid int) string
	Log   *zap.Logger
}

// Build folds the stale index and per-process attributions into a report.
func (b *Builder) Build(index model.StaleIndex, attrs map[int]model.Attribution) model.Report {
	log := b.Log
	if log == nil {
		log = zap.NewNop()
	}

	units := make(map[string]model.PathSet)
	orphans := make(map[string]model.PIDSet)

	byPID := index.ByProcess()
	pids := make([]int, 0, len(byPID))
	for pid := range byPID {
		pids = append(pids, pid)
	}
	slices.Sort(pids)

	for _, pid := range pids {
		paths := byPID[pid]
		a := attrs[pid]
		switch {
		case a.HasUnit() && !b.catchall(a.Unit):
			set, ok := units[a.Unit]
			if !ok {
				set = make(model.PathSet)
				units[a.Unit] = set
			}
			for p := range paths {
				set.Add(p)
			}
		case a.Exe != "":
			set, ok := orphans[a.Exe]
			if !ok {
				set = make(model.PIDSet)
				orphans[a.Exe] = set
			}
			set.Add(pid)
		default:
			log.Warn("orphaned process without unit or executable",
				zap.Int("pid", pid), zap.Strings("paths", paths.Sorted()))
		}
	}

	return model.Report{
		Groups:  b.group(units),
		Units:   units,
		Orphans: b.byOwner(orphans),
	}
}

func (b *Builder) catchall(unit string) bool {
	return b.Catchall != nil && b.Catchall(unit)
}

// group classifies units and orders the groups as declared.
func (b *Builder) group(units map[string]model.PathSet) []model.GroupUnits {
	members := make(map[string][]string)
	for unit := range units {
		g := b.Classifier.Classify(unit)
		members[g] = append(members[g], unit)
	}

	var out []model.GroupUnits
	for _, name := range b.Classifier.Names() {
		list, ok := members[name]
		if !ok {
			continue
		}
		slices.Sort(list)
		out = append(out, model.GroupUnits{Group: name, Units: list})
	}
	return out
}

func (b *Builder) byOwner(orphans map[string]model.PIDSet) map[string]map[string]model.PIDSet {
	out := make(map[string]map[string]model.PIDSet, len(orphans))
	for exe, pids := range orphans {
		owners := make(map[string]model.PIDSet)
		for pid := range pids {
			owner := model.UnknownOwner
			if b.Owner != nil {
				owner = b.Owner(pid)
			}
			set, ok := owners[owner]
			if !ok {
				set = make(model.PIDSet)
				owners[owner] = set
			}
			set.Add(pid)
		}
		out[exe] = owners
	}
	return out
}
