package workspace

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"

	"quanta/internal/source"
)

// element is a parsed XML element with the byte range it came from.
type element struct {
	name  string
	attrs map[string]string
	text  strings.Builder
	kids  []*element
	span  source.Span
}

func (e *element) attr(name string) string {
	return e.attrs[name]
}

func (e *element) children(name string) []*element {
	var out []*element
	for _, k := range e.kids {
		if k.name == name {
			out = append(out, k)
		}
	}
	return out
}

func (e *element) child(name string) *element {
	for _, k := range e.kids {
		if k.name == name {
			return k
		}
	}
	return nil
}

// syntaxError carries the offset at which decoding failed.
type syntaxError struct {
	off uint32
	err error
}

func (e *syntaxError) Error() string { return e.err.Error() }
func (e *syntaxError) Unwrap() error { return e.err }

// parseDOM decodes content into an element tree, ignoring namespaces.
func parseDOM(file source.FileID, content []byte) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(string(content)))
	dec.Strict = true
	var (
		root  *element
		stack []*element
	)
	offset := func(n int64) uint32 {
		v, err := safecast.Conv[uint32](n)
		if err != nil {
			return 0
		}
		return v
	}
	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &syntaxError{off: offset(dec.InputOffset()), err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{
				name:  t.Name.Local,
				attrs: make(map[string]string, len(t.Attr)),
				span:  source.Span{File: file, Start: offset(start)},
			}
			for _, a := range t.Attr {
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.kids = append(parent.kids, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			el := stack[len(stack)-1]
			el.span.End = offset(dec.InputOffset())
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, &syntaxError{err: fmt.Errorf("no root element")}
	}
	return root, nil
}
