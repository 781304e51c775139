package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `
ignore_paths:
  by_prefix: [/dev/, /memfd:, /SYSV]
  by_regex: ['/var/log/.*\.tmp']
catchall_units:
  by_full: [init.scope]
  by_regex: ['session-\d+\.scope']
group_services:
  - group: web
    by_prefix: [nginx, apache2]
  - group: db
    by_full: [postgresql.service]
    by_regex: ['mysql.*']
`

func TestParseValid(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"/dev/", "/memfd:", "/SYSV"}, cfg.IgnorePaths.ByPrefix)
	assert.Equal(t, []string{`/var/log/.*\.tmp`}, cfg.IgnorePaths.ByRegex)
	assert.Equal(t, []string{"init.scope"}, cfg.CatchallUnits.ByFull)
	require.Len(t, cfg.GroupServices, 2)
	assert.Equal(t, "web", cfg.GroupServices[0].Group)
	assert.Equal(t, []string{"nginx", "apache2"}, cfg.GroupServices[0].Rule.ByPrefix)
	assert.Equal(t, "db", cfg.GroupServices[1].Group)
	assert.Equal(t, []string{"mysql.*"}, cfg.GroupServices[1].Rule.ByRegex)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantField string
		wantKeys  []string
	}{
		{
			name: "unknown top-level keys",
			doc: `
ignore_paths: {}
catchall_units: {}
group_services: []
zeta: 1
alpha: 2
`,
			wantKeys: []string{"alpha", "zeta"},
		},
		{
			name:     "missing keys",
			doc:      "ignore_paths: {}\n",
			wantKeys: []string{"catchall_units", "group_services"},
		},
		{
			name: "unknown rule key",
			doc: `
ignore_paths:
  by_prefx: [/tmp]
catchall_units: {}
group_services: []
`,
			wantField: "ignore_paths",
			wantKeys:  []string{"by_prefx"},
		},
		{
			name: "unknown group rule keys",
			doc: `
ignore_paths: {}
catchall_units: {}
group_services:
  - group: web
    by_name: [x]
    by_glob: [y]
`,
			wantField: "group_services[0]",
			wantKeys:  []string{"by_glob", "by_name"},
		},
		{
			name: "group without name",
			doc: `
ignore_paths: {}
catchall_units: {}
group_services:
  - by_prefix: [x]
`,
			wantField: "group_services[0]",
		},
		{
			name: "duplicate group",
			doc: `
ignore_paths: {}
catchall_units: {}
group_services:
  - {group: a, by_prefix: [x]}
  - {group: a, by_prefix: [y]}
`,
			wantField: "group_services[1]",
			wantKeys:  []string{"a"},
		},
		{
			name: "empty document",
			doc:  "",
			wantKeys: []string{"ignore_paths", "catchall_units", "group_services"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)

			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr), "want *ConfigError, got %T", err)
			assert.Equal(t, tt.wantField, cerr.Field)
			assert.Equal(t, tt.wantKeys, cerr.Keys)
			for _, k := range tt.wantKeys {
				assert.Contains(t, err.Error(), k)
			}
		})
	}
}

func TestParseSingleStringRule(t *testing.T) {
	cfg, err := Parse([]byte(`
ignore_paths:
  by_prefix: /dev/
catchall_units:
group_services: []
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"/dev/"}, cfg.IgnorePaths.ByPrefix)
	assert.Empty(t, cfg.CatchallUnits.ByPrefix)
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	cfg, used, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Len(t, cfg.GroupServices, 2)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var cerr *ConfigError
	assert.True(t, errors.As(err, &cerr))
}

func TestLoadDefaultFallback(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "staleproc.yaml")
	require.NoError(t, os.WriteFile(local, []byte(validDoc), 0o644))

	saved := DefaultPaths
	DefaultPaths = []string{filepath.Join(dir, "etc", "config.yaml"), local}
	defer func() { DefaultPaths = saved }()

	_, used, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, local, used)
}

func TestLoadNoDefaults(t *testing.T) {
	saved := DefaultPaths
	DefaultPaths = []string{filepath.Join(t.TempDir(), "missing.yaml")}
	defer func() { DefaultPaths = saved }()

	_, _, err := Load("")
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, err.Error(), "missing.yaml")
}
