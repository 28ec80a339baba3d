package term

type pair struct {
	a, b Ref
}

// Unify tries to make a and b identical by binding variables. There is no
// occurs check, so a variable may end up bound to a struct that contains
// it.
//
// Bindings made before a failure are left in place. Take a TrailMark
// before calling and UnbindTo it once the result has been used.
func (h *Heap) Unify(a, b Ref) bool {
	work := append(h.work[:0], pair{a, b})
	defer func() {
		h.work = work[:0]
	}()

	// Struct pairs already taken apart. With cyclic terms on both sides the
	// same pair comes back around; assuming it unifies is what makes the
	// loop terminate.
	var seen map[pair]struct{}

	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]

		x := h.Deref(p.a)
		y := h.Deref(p.b)
		if x == y {
			continue
		}
		cx := &h.cells[x]
		cy := &h.cells[y]

		switch {
		case cx.tag == TagVar && cy.tag == TagVar:
			// Younger variable points at the older one.
			if x < y {
				h.Bind(y, x)
			} else {
				h.Bind(x, y)
			}

		case cx.tag == TagVar:
			h.Bind(x, y)

		case cy.tag == TagVar:
			h.Bind(y, x)

		case cx.tag == TagAtom && cy.tag == TagAtom:
			if !h.sameSymbol(cx.sym, cy.sym) {
				return false
			}

		case cx.tag == TagStruct && cy.tag == TagStruct:
			if cx.arity != cy.arity || !h.sameSymbol(cx.sym, cy.sym) {
				return false
			}
			key := pair{x, y}
			if seen == nil {
				seen = make(map[pair]struct{})
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			// Pushed backwards so they pop in argument order.
			for i := cx.arity - 1; i >= 0; i-- {
				work = append(work, pair{h.args[cx.off+i], h.args[cy.off+i]})
			}

		default:
			// atom against struct
			return false
		}
	}
	return true
}
