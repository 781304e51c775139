package tui

import "github.com/pranshuparmar/staleproc/pkg/model"

// reportMsg carries the result of a rescan
type reportMsg struct {
	report model.Report
	err    error
}
