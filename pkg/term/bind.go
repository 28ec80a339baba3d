package term

import "fmt"

// Deref follows variable bindings from ref until it reaches an atom, a
// struct or an unbound variable.
func (h *Heap) Deref(ref Ref) Ref {
	for {
		c := h.mustCell(ref)
		if c.tag != TagVar || c.binding == NoRef {
			return ref
		}
		ref = c.binding
	}
}

// IsUnbound reports whether ref dereferences to an unbound variable.
func (h *Heap) IsUnbound(ref Ref) bool {
	return h.cells[h.Deref(ref)].tag == TagVar
}

// Bind binds the unbound variable v to t and records v on the trail.
// Binding v to something that dereferences back to v does nothing.
// Panics with *RebindError if v is already bound.
func (h *Heap) Bind(v Ref, t Ref) {
	c := h.mustCell(v)
	if c.tag != TagVar {
		panic(fmt.Sprintf("cannot bind cell %d: it is an %s, not a variable", v, c.tag))
	}
	if c.binding != NoRef {
		panic(&RebindError{Var: v, BoundTo: c.binding})
	}
	if h.Deref(t) == v {
		return
	}
	c.binding = t
	h.trail = append(h.trail, v)
}

// TrailMark returns the current trail position, for UnbindTo.
func (h *Heap) TrailMark() int {
	return len(h.trail)
}

// TrailLen is the number of bindings currently recorded.
func (h *Heap) TrailLen() int {
	return len(h.trail)
}

// UnbindTo pops the trail back to mark, unbinding each popped variable.
func (h *Heap) UnbindTo(mark int) {
	if mark < 0 || mark > len(h.trail) {
		panic(fmt.Sprintf("trail mark %d out of range [0, %d]", mark, len(h.trail)))
	}
	for i := len(h.trail) - 1; i >= mark; i-- {
		h.cells[h.trail[i]].binding = NoRef
	}
	h.trail = h.trail[:mark]
}
