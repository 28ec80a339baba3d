package term

import (
	pp "github.com/vilterp/treelog/pkg/prettyprint"
)

// Format renders the term at ref, following bindings. Unbound variables
// print as their entry in names, or _G<cell> if they have none. A struct
// reached again while printing itself prints as "...": without an occurs
// check, terms can be cyclic.
func (h *Heap) Format(ref Ref, names map[Ref]string) pp.Doc {
	return h.format(ref, names, map[Ref]bool{})
}

func (h *Heap) format(ref Ref, names map[Ref]string, onPath map[Ref]bool) pp.Doc {
	ref = h.Deref(ref)
	c := &h.cells[ref]
	switch c.tag {
	case TagVar:
		if name, ok := names[ref]; ok {
			return pp.Text(name)
		}
		return pp.Textf("_G%d", ref)
	case TagAtom:
		return pp.Text(h.symName(c.sym))
	}
	if onPath[ref] {
		return pp.Text("...")
	}
	onPath[ref] = true
	defer delete(onPath, ref)

	argDocs := make([]pp.Doc, c.arity)
	for i := 0; i < c.arity; i++ {
		argDocs[i] = h.format(h.args[c.off+i], names, onPath)
	}
	return pp.Call(h.symName(c.sym), argDocs)
}

func (h *Heap) String(ref Ref) string {
	return h.Format(ref, nil).String()
}
