// Package signalk defines the delta message shape the host data-distribution
// system accepts, plus path helpers.
package signalk

import (
	"strings"
	"unicode"
)

// Value is one path/value observation.
type Value struct {
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// Update groups values produced at the same instant.
type Update struct {
	Values []Value `json:"values"`
}

// Delta is the host message envelope: one or more updates.
type Delta struct {
	Updates []Update `json:"updates"`
}

// NewDelta wraps a value list in the single-update envelope the host expects.
func NewDelta(values ...Value) Delta {
	return Delta{Updates: []Update{{Values: values}}}
}

// Notification is the value carried by alarm observations.
type Notification struct {
	State   string   `json:"state"`
	Method  []string `json:"method"`
	Message string   `json:"message"`
}

// CamelCase converts a human-readable display name into a path-safe segment:
// "Living Room" -> "livingRoom", "Lamp1" -> "lamp1".
func CamelCase(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}
