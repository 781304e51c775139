package config

import (
	"fmt"
	"strings"
)

// ConfigError is a fatal problem with the configuration document or with a
// requested group name. Keys lists the offending keys or names, if any.
type ConfigError struct {
	Field   string
	Keys    []string
	Message string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config error")
	if e.Field != "" {
		fmt.Fprintf(&b, " in '%s'", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Keys) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Keys, ", "))
	}
	return b.String()
}

// UnknownKeys builds the error for keys outside the recognised set.
func UnknownKeys(field string, keys []string) *ConfigError {
	return &ConfigError{Field: field, Keys: keys, Message: "unrecognized keys"}
}
