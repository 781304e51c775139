package match

import (
	"fmt"

	"github.com/pranshuparmar/staleproc/internal/config"
	"github.com/pranshuparmar/staleproc/pkg/model"
)

type group struct {
	name    string
	matcher *Matcher
}

// Classifier assigns a unit name to the first declared group that matches it.
type Classifier struct {
	groups []group
	byName map[string]*Matcher
}

// NewClassifier compiles the group rules in declaration order.
func NewClassifier(rules []config.GroupRule) (*Classifier, error) {
	c := &Classifier{byName: make(map[string]*Matcher, len(rules))}
	for i, r := range rules {
		field := fmt.Sprintf("%s[%d]", config.KeyGroupServices, i)
		m, err := Compile(field, r.Rule)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byName[r.Group]; dup {
			continue
		}
		c.groups = append(c.groups, group{name: r.Group, matcher: m})
		c.byName[r.Group] = m
	}
	return c, nil
}

// Classify returns the first matching group, or model.OtherGroup.
func (c *Classifier) Classify(unit string) string {
	for _, g := range c.groups {
		if g.matcher.Match(unit) {
			return g.name
		}
	}
	return model.OtherGroup
}

// Lookup returns the compiled matcher for a group name.
func (c *Classifier) Lookup(name string) (*Matcher, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// Names returns the group names in declaration order followed by "other".
func (c *Classifier) Names() []string {
	names := make([]string, 0, len(c.groups)+1)
	for _, g := range c.groups {
		names = append(names, g.name)
	}
	if _, ok := c.byName[model.OtherGroup]; ok {
		return names
	}
	return append(names, model.OtherGroup)
}

// Valid reports whether name can be requested, which includes "other".
func (c *Classifier) Valid(name string) bool {
	if name == model.OtherGroup {
		return true
	}
	_, ok := c.byName[name]
	return ok
}

// CheckGroup returns a ConfigError listing the valid names when name is not one.
func (c *Classifier) CheckGroup(name string) error {
	if c.Valid(name) {
		return nil
	}
	return &config.ConfigError{
		Field:   name,
		Keys:    c.Names(),
		Message: "unknown group, valid groups are",
	}
}
