package config

import (
	"fmt"
	"slices"

	"go.yaml.in/yaml/v3"
)

var ruleKeys = []string{"by_prefix", "by_full", "by_regex"}

// Rule is one match rule: a string matches when it starts with any prefix,
// equals any full string, or fully matches any regex.
type Rule struct {
	ByPrefix []string `yaml:"by_prefix"`
	ByFull   []string `yaml:"by_full"`
	ByRegex  []string `yaml:"by_regex"`

	// Unknown holds keys seen while decoding that are not part of a rule.
	Unknown []string `yaml:"-"`
}

// UnmarshalYAML decodes the known keys and records the rest in Unknown so
// validation can report all of them at once.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	return r.decode(node, nil)
}

func (r *Rule) decode(node *yaml.Node, extra map[string]*yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: match rule must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		var dst *[]string
		switch key {
		case "by_prefix":
			dst = &r.ByPrefix
		case "by_full":
			dst = &r.ByFull
		case "by_regex":
			dst = &r.ByRegex
		default:
			if _, ok := extra[key]; ok {
				extra[key] = value
				continue
			}
			r.Unknown = append(r.Unknown, key)
			continue
		}
		if err := decodeStrings(value, dst); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	slices.Sort(r.Unknown)
	return nil
}

// decodeStrings accepts either a sequence of strings or a single string.
func decodeStrings(node *yaml.Node, dst *[]string) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		*dst = append(*dst, node.Value)
		return nil
	case yaml.SequenceNode:
		var vals []string
		if err := node.Decode(&vals); err != nil {
			return err
		}
		*dst = append(*dst, vals...)
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or list of strings", node.Line)
	}
}

// GroupRule is a Rule with the name of the group it assigns.
type GroupRule struct {
	Group string
	Rule  Rule
}

func (g *GroupRule) UnmarshalYAML(node *yaml.Node) error {
	extra := map[string]*yaml.Node{"group": nil}
	if err := g.Rule.decode(node, extra); err != nil {
		return err
	}
	if n := extra["group"]; n != nil {
		if n.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: group must be a string", n.Line)
		}
		g.Group = n.Value
	}
	return nil
}
