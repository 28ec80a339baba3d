package parse

import (
	"github.com/vilterp/treelog/pkg/term"
)

// AnonymousVariable is fresh at every occurrence.
const AnonymousVariable = "_"

// NamedVar is a variable as written in the source, and the cell it became.
type NamedVar struct {
	Name string
	Ref  term.Ref
}

// Clause is a parsed term written into a heap.
type Clause struct {
	Root term.Ref
	// Vars in order of first appearance. Anonymous variables are left out.
	Vars []NamedVar
}

// Names maps each variable cell back to its source name, for printing.
func (c *Clause) Names() map[term.Ref]string {
	names := make(map[term.Ref]string, len(c.Vars))
	for _, v := range c.Vars {
		names[v.Ref] = v.Name
	}
	return names
}

// Build writes t into h. Every occurrence of a variable name within t
// becomes the same cell, which is what lets unification connect argument
// positions: p(Z, Z) gets one variable, not two.
func Build(h *term.Heap, t *Term) *Clause {
	b := &builder{
		heap:   h,
		clause: &Clause{},
		byName: map[string]term.Ref{},
	}
	b.clause.Root = b.build(t)
	return b.clause
}

type builder struct {
	heap   *term.Heap
	clause *Clause
	byName map[string]term.Ref
}

func (b *builder) build(t *Term) term.Ref {
	if t.IsVariable() {
		return b.variable(t.Variable)
	}
	if len(t.Args) == 0 {
		return b.heap.NewAtom(t.Functor)
	}
	args := make([]term.Ref, len(t.Args))
	for idx, arg := range t.Args {
		args[idx] = b.build(arg)
	}
	return b.heap.NewStruct(t.Functor, args)
}

func (b *builder) variable(name string) term.Ref {
	if name == AnonymousVariable {
		return b.heap.NewVar()
	}
	if ref, ok := b.byName[name]; ok {
		return ref
	}
	ref := b.heap.NewVar()
	b.byName[name] = ref
	b.clause.Vars = append(b.clause.Vars, NamedVar{Name: name, Ref: ref})
	return ref
}
