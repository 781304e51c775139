// Package config loads and validates the staleproc configuration document.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"go.yaml.in/yaml/v3"
)

const (
	KeyIgnorePaths   = "ignore_paths"
	KeyCatchallUnits = "catchall_units"
	KeyGroupServices = "group_services"
)

var topLevelKeys = []string{KeyIgnorePaths, KeyCatchallUnits, KeyGroupServices}

// DefaultPaths are tried in order when no config file is given.
var DefaultPaths = []string{
	"/etc/staleproc/config.yaml",
	"staleproc.yaml",
}

// Config is the parsed configuration document.
type Config struct {
	// IgnorePaths matches mapped files that are never reported.
	IgnorePaths Rule `yaml:"ignore_paths"`
	// CatchallUnits matches units that are treated as having no unit.
	CatchallUnits Rule `yaml:"catchall_units"`
	// GroupServices classifies units; first declared match wins.
	GroupServices []GroupRule `yaml:"group_services"`
}

// Load reads the config from path, or from the first existing entry of
// DefaultPaths when path is empty. It returns the path actually read.
func Load(path string) (*Config, string, error) {
	if path == "" {
		found, err := findDefault()
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, &ConfigError{Field: path, Message: fmt.Sprintf("cannot read config file: %v", err)}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func findDefault() (string, error) {
	for _, p := range DefaultPaths {
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", &ConfigError{Field: p, Message: fmt.Sprintf("cannot access config file: %v", err)}
		}
	}
	return "", &ConfigError{Keys: DefaultPaths, Message: "no config file found, tried"}
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ConfigError{Keys: topLevelKeys, Message: "empty document, missing keys"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Message: "top level must be a mapping"}
	}

	present := mappingKeys(root)
	if unknown := diffKeys(present, topLevelKeys); len(unknown) > 0 {
		return nil, UnknownKeys("", unknown)
	}
	if missing := diffKeys(topLevelKeys, present); len(missing) > 0 {
		return nil, &ConfigError{Keys: missing, Message: "missing required keys"}
	}

	var cfg Config
	if err := root.Decode(&cfg); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("invalid config: %v", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every rule for unknown keys and every group entry for a name.
func (c *Config) Validate() error {
	if len(c.IgnorePaths.Unknown) > 0 {
		return UnknownKeys(KeyIgnorePaths, c.IgnorePaths.Unknown)
	}
	if len(c.CatchallUnits.Unknown) > 0 {
		return UnknownKeys(KeyCatchallUnits, c.CatchallUnits.Unknown)
	}
	seen := make(map[string]bool)
	for i, g := range c.GroupServices {
		field := fmt.Sprintf("%s[%d]", KeyGroupServices, i)
		if len(g.Rule.Unknown) > 0 {
			return UnknownKeys(field, g.Rule.Unknown)
		}
		if g.Group == "" {
			return &ConfigError{Field: field, Message: "missing required key 'group'"}
		}
		if seen[g.Group] {
			return &ConfigError{Field: field, Keys: []string{g.Group}, Message: "duplicate group name"}
		}
		seen[g.Group] = true
	}
	return nil
}

func mappingKeys(node *yaml.Node) []string {
	var keys []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}

// diffKeys returns the sorted keys of have that are not in known.
func diffKeys(have, known []string) []string {
	var out []string
	for _, k := range have {
		if !slices.Contains(known, k) && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
