// Package prompt renders the instructional templates sent to the
// completion boundary.
package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrFormat indicates a template or payload rendering problem. It is a
// configuration error: callers abort the run instead of substituting a
// sentinel row.
var ErrFormat = errors.New("prompt format error")

var slotPattern = regexp.MustCompile(`\{\{([a-z_]+)\}\}`)

// Template is a fixed instructional text with a closed set of named
// substitution slots written as {{name}}. Slots are validated at
// construction, so rendering is deterministic and cannot silently drop
// data.
type Template struct {
	text  string
	slots []string
}

// NewTemplate validates that every declared slot appears in the text and
// that the text contains no undeclared slots.
func NewTemplate(text string, slots ...string) (*Template, error) {
	declared := make(map[string]bool, len(slots))
	for _, s := range slots {
		if !strings.Contains(text, "{{"+s+"}}") {
			return nil, fmt.Errorf("%w: slot %q missing from template", ErrFormat, s)
		}
		declared[s] = true
	}

	for _, m := range slotPattern.FindAllStringSubmatch(text, -1) {
		if !declared[m[1]] {
			return nil, fmt.Errorf("%w: undeclared slot %q in template", ErrFormat, m[1])
		}
	}

	return &Template{text: text, slots: slots}, nil
}

// Render substitutes every slot. All declared slots must be supplied and
// non-empty.
func (t *Template) Render(values map[string]string) (string, error) {
	out := t.text
	for _, slot := range t.slots {
		v, ok := values[slot]
		if !ok || v == "" {
			return "", fmt.Errorf("%w: no value for slot %q", ErrFormat, slot)
		}
		out = strings.ReplaceAll(out, "{{"+slot+"}}", v)
	}
	return out, nil
}

// Slots returns the declared slot names.
func (t *Template) Slots() []string {
	return t.slots
}
