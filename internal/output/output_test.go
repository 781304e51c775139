package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pranshuparmar/staleproc/pkg/model"
)

func sampleReport() model.Report {
	return model.Report{
		Groups: []model.GroupUnits{
			{Group: "web", Units: []string{"apache2.service", "nginx.service"}},
			{Group: "other", Units: []string{"cups.service"}},
		},
		Units: map[string]model.PathSet{
			"apache2.service": {"/usr/lib/libssl.so.3": {}},
			"nginx.service":   {"/usr/lib/libssl.so.3": {}, "/usr/lib/libc.so.6": {}},
			"cups.service":    {"/usr/lib/libc.so.6": {}},
		},
		Orphans: map[string]map[string]model.PIDSet{
			"/usr/bin/vim": {
				"bob":   {31: {}},
				"alice": {32: {}, 30: {}},
			},
		},
	}
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	RenderPlain(&buf, sampleReport(), NewStyles(false))

	want := `web:
  apache2.service
  nginx.service
other:
  cups.service

Processes outside any unit:
  /usr/bin/vim (alice: 30 32; bob: 31)
`
	if got := buf.String(); got != want {
		t.Errorf("RenderPlain() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderPlainEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderPlain(&buf, model.Report{}, NewStyles(false))
	if !strings.Contains(buf.String(), "Nothing needs to be restarted") {
		t.Errorf("RenderPlain(empty) = %q", buf.String())
	}
}

func TestRenderUnits(t *testing.T) {
	var buf bytes.Buffer
	RenderUnits(&buf, sampleReport().Filter("web"))
	if got, want := buf.String(), "apache2.service\nnginx.service\n"; got != want {
		t.Errorf("RenderUnits() = %q, want %q", got, want)
	}

	buf.Reset()
	RenderUnits(&buf, sampleReport().Filter("db"))
	if buf.Len() != 0 {
		t.Errorf("RenderUnits(no match) = %q, want empty", buf.String())
	}
}

func TestRenderVerbose(t *testing.T) {
	var buf bytes.Buffer
	RenderVerbose(&buf, sampleReport(), NewStyles(false))
	got := buf.String()

	for _, want := range []string{
		"[web]\n  apache2.service\n    /usr/lib/libssl.so.3\n  nginx.service\n    /usr/lib/libc.so.6\n    /usr/lib/libssl.so.3\n",
		"[other]\n  cups.service\n    /usr/lib/libc.so.6\n",
		"[no unit]\n  /usr/bin/vim\n",
		"    PID  USER\n    30   alice\n    31   bob\n    32   alice\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderVerbose() missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderVerboseEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderVerbose(&buf, model.Report{}, NewStyles(true))
	if !strings.Contains(buf.String(), "No stale files found") {
		t.Errorf("RenderVerbose(empty) = %q", buf.String())
	}
}

func TestRenderColoredDoesNotPanic(t *testing.T) {
	var buf bytes.Buffer
	RenderPlain(&buf, sampleReport(), NewStyles(true))
	RenderVerbose(&buf, sampleReport(), NewStyles(true))
	if !strings.Contains(buf.String(), "nginx.service") {
		t.Error("colored output lost unit names")
	}
}

func TestToJSON(t *testing.T) {
	tests := []struct {
		name   string
		report model.Report
	}{
		{"empty", model.Report{}},
		{"full", sampleReport()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToJSON(tt.report)
			if err != nil {
				t.Fatalf("ToJSON() error = %v", err)
			}
			var parsed struct {
				Groups  map[string][]string `json:"groups"`
				Units   map[string][]string `json:"units"`
				Orphans map[string][]struct {
					User string `json:"user"`
					PIDs []int  `json:"pids"`
				} `json:"orphans"`
			}
			if err := json.Unmarshal([]byte(got), &parsed); err != nil {
				t.Fatalf("ToJSON() produced invalid JSON: %v", err)
			}
			if len(parsed.Units) != len(tt.report.Units) {
				t.Errorf("units = %d, want %d", len(parsed.Units), len(tt.report.Units))
			}
		})
	}

	got, _ := ToJSON(sampleReport())
	if !strings.Contains(got, `"user": "alice"`) {
		t.Errorf("ToJSON() missing owner entry:\n%s", got)
	}
}
