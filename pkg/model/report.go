package model

import "slices"

// NoUnit is what ps prints in the unit column for processes outside any unit.
const NoUnit = "-"

// UnknownOwner is shown when the owner of a process cannot be read at all.
const UnknownOwner = "???"

// OtherGroup collects units that match no configured group.
const OtherGroup = "other"

// PIDSet is a set of process ids.
type PIDSet map[int]struct{}

func (s PIDSet) Add(pid int) { s[pid] = struct{}{} }

// Sorted returns the pids in ascending order.
func (s PIDSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for pid := range s {
		out = append(out, pid)
	}
	slices.Sort(out)
	return out
}

// PathSet is a set of file paths.
type PathSet map[string]struct{}

func (s PathSet) Add(path string) { s[path] = struct{}{} }

// Sorted returns the paths in lexical order.
func (s PathSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// StaleIndex maps a file path to the processes still mapping an old copy of it.
type StaleIndex map[string]PIDSet

// Add records that pid holds a stale reference to path.
func (idx StaleIndex) Add(path string, pid int) {
	set, ok := idx[path]
	if !ok {
		set = make(PIDSet)
		idx[path] = set
	}
	set.Add(pid)
}

// ByProcess inverts the index into pid -> stale paths.
func (idx StaleIndex) ByProcess() map[int]PathSet {
	out := make(map[int]PathSet)
	for path, pids := range idx {
		for pid := range pids {
			set, ok := out[pid]
			if !ok {
				set = make(PathSet)
				out[pid] = set
			}
			set.Add(path)
		}
	}
	return out
}

// Attribution says who is responsible for a process. Unit is set when a
// service manager owns the process; otherwise Exe names the executable.
type Attribution struct {
	Unit string
	Exe  string
}

// HasUnit reports whether the attribution carries a real unit name.
func (a Attribution) HasUnit() bool {
	return a.Unit != "" && a.Unit != NoUnit
}

// GroupUnits is one classified group and the units that fell into it.
type GroupUnits struct {
	Group string
	Units []string
}

// Report is the result of one run.
type Report struct {
	// Groups is ordered by group declaration, with "other" last.
	Groups []GroupUnits
	// Units maps every restart candidate to its stale paths.
	Units map[string]PathSet
	// Orphans maps executable -> owner -> pids for processes without a unit.
	Orphans map[string]map[string]PIDSet
}

// Empty reports whether nothing needs a restart.
func (r Report) Empty() bool {
	return len(r.Units) == 0 && len(r.Orphans) == 0
}

// Filter returns a copy of r restricted to a single group. Orphans are
// dropped since they have no group.
func (r Report) Filter(group string) Report {
	out := Report{Units: make(map[string]PathSet)}
	for _, g := range r.Groups {
		if g.Group != group {
			continue
		}
		out.Groups = append(out.Groups, g)
		for _, u := range g.Units {
			out.Units[u] = r.Units[u]
		}
	}
	return out
}

// OrphanExes returns the orphan executables in lexical order.
func (r Report) OrphanExes() []string {
	out := make([]string, 0, len(r.Orphans))
	for exe := range r.Orphans {
		out = append(out, exe)
	}
	slices.Sort(out)
	return out
}
