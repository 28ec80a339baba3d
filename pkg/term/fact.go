package term

import (
	pp "github.com/vilterp/treelog/pkg/prettyprint"
)

// Fact is a term frozen out of a heap. Its variables are numbered rather
// than allocated, so the fact is immutable and never shares cells with a
// query. Instantiate copies it into a heap with fresh variables each time.
type Fact struct {
	Indicator Indicator
	NumVars   int

	// nodes[0] is the root.
	nodes []node

	// syms is the table the node symbols were interned in. Instantiating
	// into a heap on a different table falls back to the names.
	syms *Symbols
}

type node struct {
	tag   Tag
	name  string
	sym   Symbol
	args  []int // node indices
	varNo int
}

// Freeze copies the term at root out of h. Variables that are the same
// after dereferencing become the same numbered variable, so co-reference
// survives. Shared and cyclic substructure is copied once. The fact's names
// are interned in the shared table.
//
// root must dereference to an atom or a struct.
func Freeze(h *Heap, root Ref) (*Fact, error) {
	ind, ok := h.Indicator(root)
	if !ok {
		return nil, &NotCallableError{Term: h.String(root)}
	}
	f := &Fact{
		Indicator: ind,
		syms:      h.syms,
	}
	memo := map[Ref]int{}
	var pending []Ref

	visit := func(ref Ref) int {
		ref = h.Deref(ref)
		if idx, ok := memo[ref]; ok {
			return idx
		}
		idx := len(f.nodes)
		c := h.cells[ref]
		n := node{tag: c.tag}
		switch c.tag {
		case TagVar:
			n.varNo = f.NumVars
			f.NumVars++
		case TagAtom:
			n.name = h.symName(c.sym)
			n.sym = h.syms.Intern(n.name)
		case TagStruct:
			n.name = h.symName(c.sym)
			n.sym = h.syms.Intern(n.name)
			n.args = make([]int, c.arity)
			pending = append(pending, ref)
		}
		f.nodes = append(f.nodes, n)
		memo[ref] = idx
		return idx
	}

	visit(root)
	for len(pending) > 0 {
		ref := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		idx := memo[ref]
		c := h.cells[ref]
		for i := 0; i < c.arity; i++ {
			// visit may grow f.nodes, so index afresh each time.
			argIdx := visit(h.args[c.off+i])
			f.nodes[idx].args[i] = argIdx
		}
	}
	return f, nil
}

// Instantiate copies f into h with fresh variables and returns the root.
func (h *Heap) Instantiate(f *Fact) Ref {
	vars := make([]Ref, f.NumVars)
	for i := range vars {
		vars[i] = NoRef
	}
	refs := make([]Ref, len(f.nodes))

	sameTable := f.syms == h.syms

	// First allocate every cell, then wire up struct arguments. Two passes
	// because a cyclic fact has no bottom to build up from.
	for idx := range f.nodes {
		n := &f.nodes[idx]
		switch n.tag {
		case TagVar:
			if vars[n.varNo] == NoRef {
				vars[n.varNo] = h.NewVar()
			}
			refs[idx] = vars[n.varNo]
		case TagAtom:
			if sameTable {
				refs[idx] = h.newAtomSym(n.sym)
			} else {
				refs[idx] = h.NewAtom(n.name)
			}
		case TagStruct:
			sym := n.sym
			if !sameTable {
				sym = h.intern(n.name)
			}
			refs[idx] = h.allocStruct(sym, len(n.args))
		}
	}
	for idx := range f.nodes {
		n := &f.nodes[idx]
		if n.tag != TagStruct {
			continue
		}
		off := h.cells[refs[idx]].off
		for i, argIdx := range n.args {
			h.args[off+i] = refs[argIdx]
		}
	}
	return refs[0]
}

// Format renders the fact with its variables named _0, _1, ...
func (f *Fact) Format() pp.Doc {
	onPath := make([]bool, len(f.nodes))
	return f.format(0, onPath)
}

func (f *Fact) format(idx int, onPath []bool) pp.Doc {
	n := &f.nodes[idx]
	switch n.tag {
	case TagVar:
		return pp.Textf("_%d", n.varNo)
	case TagAtom:
		return pp.Text(n.name)
	}
	if onPath[idx] {
		return pp.Text("...")
	}
	onPath[idx] = true
	defer func() { onPath[idx] = false }()

	argDocs := make([]pp.Doc, len(n.args))
	for i, argIdx := range n.args {
		argDocs[i] = f.format(argIdx, onPath)
	}
	return pp.Call(n.name, argDocs)
}

func (f *Fact) String() string {
	return f.Format().String()
}
