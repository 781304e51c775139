package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pranshuparmar/staleproc/internal/config"
	"github.com/pranshuparmar/staleproc/internal/match"
	"github.com/pranshuparmar/staleproc/pkg/model"
)

func newBuilder(t *testing.T) (*Builder, *observer.ObservedLogs) {
	t.Helper()
	classifier, err := match.NewClassifier([]config.GroupRule{
		{Group: "web", Rule: config.Rule{ByPrefix: []string{"nginx", "apache2"}}},
		{Group: "db", Rule: config.Rule{ByRegex: []string{`postgres.*\.service`}}},
	})
	require.NoError(t, err)
	catchall := match.MustCompile(config.Rule{ByRegex: []string{`session-\d+\.scope`}, ByFull: []string{"init.scope"}})

	owners := map[int]string{30: "alice", 31: "bob", 32: "alice", 40: "root"}
	core, logs := observer.New(zapcore.WarnLevel)
	return &Builder{
		Classifier: classifier,
		Catchall:   catchall.Match,
		Owner: func(pid int) string {
			if o, ok := owners[pid]; ok {
				return o
			}
			return model.UnknownOwner
		},
		Log:        zap.New(core),
	}, logs
}

func TestBuild(t *testing.T) {
	b, logs := newBuilder(t)

	index := model.StaleIndex{
		"/usr/lib/libssl.so.3": {10: {}, 11: {}, 20: {}, 30: {}, 31: {}},
		"/usr/lib/libc.so.6":   {10: {}, 12: {}, 32: {}, 40: {}, 50: {}},
	}
	attrs := map[int]model.Attribution{
		10: {Unit: "nginx.service"},
		11: {Unit: "nginx.service"},
		12: {Unit: "postgresql@16-main.service"},
		20: {Unit: "cups.service"},
		30: {Unit: "session-3.scope", Exe: "/usr/bin/vim"},
		31: {Exe: "/usr/bin/vim"},
		32: {Unit: model.NoUnit, Exe: "/usr/bin/vim"},
		40: {Unit: "init.scope", Exe: "/usr/lib/systemd/systemd"},
		50: {},
	}

	r := b.Build(index, attrs)

	assert.Equal(t, []model.GroupUnits{
		{Group: "web", Units: []string{"nginx.service"}},
		{Group: "db", Units: []string{"postgresql@16-main.service"}},
		{Group: "other", Units: []string{"cups.service"}},
	}, r.Groups)

	assert.Equal(t, []string{"/usr/lib/libc.so.6", "/usr/lib/libssl.so.3"}, r.Units["nginx.service"].Sorted())
	assert.Equal(t, []string{"/usr/lib/libc.so.6"}, r.Units["postgresql@16-main.service"].Sorted())
	assert.NotContains(t, r.Units, "session-3.scope")
	assert.NotContains(t, r.Units, "init.scope")

	require.Equal(t, []string{"/usr/bin/vim", "/usr/lib/systemd/systemd"}, r.OrphanExes())
	vim := r.Orphans["/usr/bin/vim"]
	assert.Equal(t, []int{30, 32}, vim["alice"].Sorted())
	assert.Equal(t, []int{31}, vim["bob"].Sorted())
	assert.Equal(t, []int{40}, r.Orphans["/usr/lib/systemd/systemd"]["root"].Sorted())

	warned := logs.FilterMessage("orphaned process without unit or executable").All()
	require.Len(t, warned, 1)
	assert.EqualValues(t, 50, warned[0].ContextMap()["pid"])
}

func TestBuildNoUnitSameAsAbsent(t *testing.T) {
	b, _ := newBuilder(t)
	index := model.StaleIndex{"/lib/x.so": {1: {}, 2: {}}}

	r := b.Build(index, map[int]model.Attribution{
		1: {Unit: model.NoUnit, Exe: "/bin/x"},
		2: {Exe: "/bin/x"},
	})
	assert.Empty(t, r.Units)
	assert.Empty(t, r.Groups)
	assert.Equal(t, []int{1, 2}, r.Orphans["/bin/x"][model.UnknownOwner].Sorted())
}

func TestBuildEmpty(t *testing.T) {
	b, logs := newBuilder(t)
	r := b.Build(model.StaleIndex{}, nil)
	assert.True(t, r.Empty())
	assert.Zero(t, logs.Len())
}

func TestFilter(t *testing.T) {
	b, _ := newBuilder(t)
	index := model.StaleIndex{"/lib/x.so": {1: {}, 2: {}, 3: {}}}
	r := b.Build(index, map[int]model.Attribution{
		1: {Unit: "nginx.service"},
		2: {Unit: "cups.service"},
		3: {Exe: "/bin/x"},
	})

	web := r.Filter("web")
	assert.Equal(t, []model.GroupUnits{{Group: "web", Units: []string{"nginx.service"}}}, web.Groups)
	assert.Contains(t, web.Units, "nginx.service")
	assert.NotContains(t, web.Units, "cups.service")
	assert.Empty(t, web.Orphans)

	other := r.Filter("other")
	assert.Equal(t, []string{"cups.service"}, other.Groups[0].Units)

	assert.True(t, r.Filter("db").Empty())
}
