package codegen

import "strings"

// definitions is the per-pass registry of header text printed before the
// program body, kept in insertion order.
type definitions struct {
	keys []string
	text map[string]string
}

func newDefinitions() *definitions {
	return &definitions{text: make(map[string]string)}
}

// set stores text under key. Replacing a key keeps its original position.
func (d *definitions) set(key, text string) {
	if _, ok := d.text[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.text[key] = text
}

func (d *definitions) len() int {
	return len(d.keys)
}

// render joins the entries with a blank line between them.
func (d *definitions) render() string {
	parts := make([]string, len(d.keys))
	for i, k := range d.keys {
		parts[i] = d.text[k]
	}
	return strings.Join(parts, "\n\n")
}
