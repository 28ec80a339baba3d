package prettyprint

import (
	"bytes"
	"fmt"
	"strings"
)

// Based on http://homepages.inf.ed.ac.uk/wadler/papers/prettier/prettier.pdf
// without the layout search: terms and answers are printed on one line
// each, so only concatenation, line breaks and indentation are needed.

type Doc interface {
	// Render returns the pretty-printed representation.
	String() string
	// Debug returns a representation of the doc tree.
	Debug() string
}

// Text

type text struct {
	str string
}

var _ Doc = &text{}

func Text(s string) Doc {
	return &text{str: s}
}

func Textf(format string, args ...interface{}) Doc {
	return Text(fmt.Sprintf(format, args...))
}

func (s *text) String() string {
	return s.str
}

func (s *text) Debug() string {
	return fmt.Sprintf("Text(%#v)", s.str)
}

// Seq

type seq struct {
	docs []Doc
}

func Seq(docs []Doc) Doc {
	return &seq{docs: docs}
}

func (c *seq) String() string {
	var buf bytes.Buffer
	render(&buf, c)
	return buf.String()
}

func (c *seq) Debug() string {
	docStrs := make([]string, len(c.docs))
	for idx, doc := range c.docs {
		docStrs[idx] = doc.Debug()
	}
	return fmt.Sprintf("Seq(%s)", strings.Join(docStrs, ", "))
}

// Indent

type indent struct {
	doc      Doc
	indentBy int
}

// Indent prefixes every line of d with by spaces.
func Indent(by int, d Doc) Doc {
	return &indent{doc: d, indentBy: by}
}

func (n *indent) String() string {
	prefix := strings.Repeat(" ", n.indentBy)
	lines := strings.Split(n.doc.String(), "\n")
	for idx := range lines {
		lines[idx] = prefix + lines[idx]
	}
	return strings.Join(lines, "\n")
}

func (n *indent) Debug() string {
	return fmt.Sprintf("Indent(%d, %s)", n.indentBy, n.doc.Debug())
}

// Newline

type newline struct{}

var Newline Doc = newline{}

func (newline) String() string {
	return "\n"
}

func (newline) Debug() string {
	return "Newline"
}

// render writes d into buf in one pass. Seqs are flattened with an
// explicit stack, so deeply nested terms cost time linear in their output
// and no Go stack.
func render(buf *bytes.Buffer, d Doc) {
	stack := []Doc{d}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch doc := top.(type) {
		case *seq:
			for idx := len(doc.docs) - 1; idx >= 0; idx-- {
				stack = append(stack, doc.docs[idx])
			}
		case *text:
			buf.WriteString(doc.str)
		default:
			buf.WriteString(top.String())
		}
	}
}

// Combinators

func Join(docs []Doc, sep Doc) Doc {
	out := make([]Doc, 0, 2*len(docs))
	for idx, doc := range docs {
		if idx > 0 {
			out = append(out, sep)
		}
		out = append(out, doc)
	}
	return Seq(out)
}

var CommaSpace = Text(", ")

// Lines puts each doc on its own line.
func Lines(docs []Doc) Doc {
	return Join(docs, Newline)
}

// Call renders functor(arg, ...), or just the functor when there are no
// arguments.
func Call(functor string, args []Doc) Doc {
	if len(args) == 0 {
		return Text(functor)
	}
	return Seq([]Doc{
		Text(functor),
		Text("("),
		Join(args, CommaSpace),
		Text(")"),
	})
}
