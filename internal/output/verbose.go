package output

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/pranshuparmar/staleproc/pkg/model"
)

// RenderVerbose dumps every unit with its stale files, and every executable
// outside a unit with the owner of each process.
func RenderVerbose(w io.Writer, r model.Report, s Styles) {
	if r.Empty() {
		fmt.Fprintln(w, s.Note.Render("No stale files found."))
		return
	}

	for _, g := range r.Groups {
		fmt.Fprintln(w, s.Group.Render(fmt.Sprintf("[%s]", g.Group)))
		for _, u := range g.Units {
			fmt.Fprintf(w, "  %s\n", s.Unit.Render(u))
			for _, p := range r.Units[u].Sorted() {
				fmt.Fprintf(w, "    %s\n", s.Path.Render(p))
			}
		}
	}

	if len(r.Orphans) == 0 {
		return
	}
	if len(r.Groups) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, s.Group.Render("[no unit]"))
	for _, exe := range r.OrphanExes() {
		fmt.Fprintf(w, "  %s\n", s.Exe.Render(exe))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "    PID\tUSER")
		for _, pr := range processRows(r.Orphans[exe]) {
			fmt.Fprintf(tw, "    %d\t%s\n", pr.pid, pr.owner)
		}
		tw.Flush()
	}
}

type processRow struct {
	pid   int
	owner string
}

func processRows(owners map[string]model.PIDSet) []processRow {
	var rows []processRow
	for owner, pids := range owners {
		for pid := range pids {
			rows = append(rows, processRow{pid, owner})
		}
	}
	slices.SortFunc(rows, func(a, b processRow) int { return a.pid - b.pid })
	return rows
}

func sortedOwners(owners map[string]model.PIDSet) []string {
	out := make([]string, 0, len(owners))
	for o := range owners {
		out = append(out, o)
	}
	slices.Sort(out)
	return out
}
