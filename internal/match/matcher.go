// Package match compiles configured match rules into predicates and
// classifies unit names into groups.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pranshuparmar/staleproc/internal/config"
)

// Matcher is a compiled config.Rule.
type Matcher struct {
	prefixes []string
	full     map[string]struct{}
	regexes  []*regexp.Regexp
}

// Compile builds a Matcher from rule. A rule that carried unknown keys or an
// invalid regex yields a *config.ConfigError.
func Compile(field string, rule config.Rule) (*Matcher, error) {
	if len(rule.Unknown) > 0 {
		return nil, config.UnknownKeys(field, rule.Unknown)
	}

	m := &Matcher{
		prefixes: rule.ByPrefix,
		full:     make(map[string]struct{}, len(rule.ByFull)),
	}
	for _, f := range rule.ByFull {
		m.full[f] = struct{}{}
	}
	for _, pat := range rule.ByRegex {
		// Anchor so the whole input has to match, not a substring.
		re, err := regexp.Compile(`^(?:` + pat + `)$`)
		if err != nil {
			return nil, &config.ConfigError{
				Field:   field,
				Keys:    []string{pat},
				Message: fmt.Sprintf("invalid regex (%v)", err),
			}
		}
		m.regexes = append(m.regexes, re)
	}
	return m, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(rule config.Rule) *Matcher {
	m, err := Compile("", rule)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether s is matched by any prefix, full string or regex.
// The empty string never matches.
func (m *Matcher) Match(s string) bool {
	if m == nil || s == "" {
		return false
	}
	if _, ok := m.full[s]; ok {
		return true
	}
	for _, p := range m.prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	for _, re := range m.regexes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
