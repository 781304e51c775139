package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pranshuparmar/staleproc/pkg/model"
)

// RenderPlain prints the restart-oriented summary: units per group, then
// executables that run outside any unit.
func RenderPlain(w io.Writer, r model.Report, s Styles) {
	if r.Empty() {
		fmt.Fprintln(w, s.Note.Render("Nothing needs to be restarted."))
		return
	}

	for _, g := range r.Groups {
		fmt.Fprintln(w, s.Group.Render(g.Group+":"))
		for _, u := range g.Units {
			fmt.Fprintf(w, "  %s\n", s.Unit.Render(u))
		}
	}

	if len(r.Orphans) == 0 {
		return
	}
	if len(r.Groups) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, s.Group.Render("Processes outside any unit:"))
	for _, exe := range r.OrphanExes() {
		fmt.Fprintf(w, "  %s (%s)\n", s.Exe.Render(exe), ownerSummary(r.Orphans[exe], s))
	}
}

// RenderUnits prints bare unit names, one per line, for a single group.
// The output is meant to be piped to systemctl.
func RenderUnits(w io.Writer, r model.Report) {
	for _, g := range r.Groups {
		for _, u := range g.Units {
			fmt.Fprintln(w, u)
		}
	}
}

// ownerSummary renders "alice: 12 13; bob: 40".
func ownerSummary(owners map[string]model.PIDSet, s Styles) string {
	parts := make([]string, 0, len(owners))
	for _, owner := range sortedOwners(owners) {
		pids := owners[owner].Sorted()
		ids := make([]string, len(pids))
		for i, pid := range pids {
			ids[i] = strconv.Itoa(pid)
		}
		parts = append(parts, s.Owner.Render(owner)+": "+strings.Join(ids, " "))
	}
	return strings.Join(parts, "; ")
}
