package output

import (
	"encoding/json"

	"github.com/pranshuparmar/staleproc/pkg/model"
)

type jsonOwner struct {
	User string `json:"user"`
	PIDs []int  `json:"pids"`
}

type jsonReport struct {
	Groups  map[string][]string    `json:"groups"`
	Units   map[string][]string    `json:"units"`
	Orphans map[string][]jsonOwner `json:"orphans"`
}

// ToJSON renders the report with sorted, stable arrays.
func ToJSON(r model.Report) (string, error) {
	out := jsonReport{
		Groups:  make(map[string][]string, len(r.Groups)),
		Units:   make(map[string][]string, len(r.Units)),
		Orphans: make(map[string][]jsonOwner, len(r.Orphans)),
	}
	for _, g := range r.Groups {
		out.Groups[g.Group] = g.Units
	}
	for unit, paths := range r.Units {
		out.Units[unit] = paths.Sorted()
	}
	for exe, owners := range r.Orphans {
		for _, owner := range sortedOwners(owners) {
			out.Orphans[exe] = append(out.Orphans[exe], jsonOwner{User: owner, PIDs: owners[owner].Sorted()})
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}
