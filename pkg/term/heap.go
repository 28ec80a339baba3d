// Package term holds the term store and the unification engine.
//
// Terms live in a Heap: a slice of tagged cells addressed by Ref. A variable
// cell is either unbound or bound to another Ref, so a chain of bindings is
// a chain of indices rather than pointers, and undoing a binding is just
// resetting one cell. Every binding goes onto the heap's trail, which is
// what makes rollback possible.
//
// A heap is not safe for concurrent use. Give each query (or each session
// running queries one at a time) its own heap, and share only the Symbols
// table.
//
// Names the shared table has never seen are interned into the heap alone,
// as negative symbols, and Reset forgets them along with their cells. Only
// Freeze moves a name into the shared table, so a stream of queries with
// fresh atoms does not grow it.
package term

import (
	"fmt"
)

// Ref addresses a cell in a Heap.
type Ref int

// NoRef marks an unbound variable cell.
const NoRef Ref = -1

type Tag uint8

const (
	TagVar Tag = iota
	TagAtom
	TagStruct
)

func (t Tag) String() string {
	switch t {
	case TagVar:
		return "var"
	case TagAtom:
		return "atom"
	case TagStruct:
		return "struct"
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

type cell struct {
	tag Tag

	// var: what this variable is bound to; NoRef while unbound.
	binding Ref

	// atom: its name. struct: its functor.
	sym Symbol

	// struct: arguments are args[off : off+arity].
	off   int
	arity int
}

type Heap struct {
	syms  *Symbols
	cells []cell
	args  []Ref
	trail []Ref

	// names not in syms, as symbol -1-idx
	localNames []string
	localIDs   map[string]Symbol

	// scratch space reused across Unify calls
	work []pair
}

func NewHeap(syms *Symbols) *Heap {
	if syms == nil {
		syms = NewSymbols()
	}
	return &Heap{
		syms:  syms,
		cells: make([]cell, 0, 64),
		args:  make([]Ref, 0, 64),
	}
}

func (h *Heap) Symbols() *Symbols {
	return h.syms
}

// Len returns the number of cells allocated so far.
func (h *Heap) Len() int {
	return len(h.cells)
}

// NewVar allocates a fresh unbound variable.
func (h *Heap) NewVar() Ref {
	ref := Ref(len(h.cells))
	h.cells = append(h.cells, cell{tag: TagVar, binding: NoRef})
	return ref
}

func (h *Heap) NewAtom(name string) Ref {
	return h.newAtomSym(h.intern(name))
}

func (h *Heap) newAtomSym(sym Symbol) Ref {
	ref := Ref(len(h.cells))
	h.cells = append(h.cells, cell{tag: TagAtom, binding: NoRef, sym: sym})
	return ref
}

// NewStruct builds functor(args...). With no args the result is an atom,
// so a zero-arity struct and an atom of the same name unify.
func (h *Heap) NewStruct(functor string, args []Ref) Ref {
	if len(args) == 0 {
		return h.NewAtom(functor)
	}
	for idx, arg := range args {
		if !h.valid(arg) {
			panic(&MalformedTermError{
				Functor: functor,
				Arity:   len(args),
				Reason:  fmt.Sprintf("argument %d refers to cell %d outside the heap", idx, arg),
			})
		}
	}
	ref := h.allocStruct(h.intern(functor), len(args))
	copy(h.args[h.cells[ref].off:], args)
	return ref
}

// allocStruct reserves a struct cell and its argument slots. The slots
// start out as NoRef and must be filled before the struct is used.
func (h *Heap) allocStruct(sym Symbol, arity int) Ref {
	ref := Ref(len(h.cells))
	off := len(h.args)
	for i := 0; i < arity; i++ {
		h.args = append(h.args, NoRef)
	}
	h.cells = append(h.cells, cell{
		tag:     TagStruct,
		binding: NoRef,
		sym:     sym,
		off:     off,
		arity:   arity,
	})
	return ref
}

func (h *Heap) valid(ref Ref) bool {
	return ref >= 0 && int(ref) < len(h.cells)
}

func (h *Heap) mustCell(ref Ref) *cell {
	if !h.valid(ref) {
		panic(fmt.Sprintf("cell %d outside heap of %d cells", ref, len(h.cells)))
	}
	return &h.cells[ref]
}

// Tag reports what kind of cell ref is, without dereferencing.
func (h *Heap) Tag(ref Ref) Tag {
	return h.mustCell(ref).tag
}

// Name returns the name of an atom or the functor of a struct.
func (h *Heap) Name(ref Ref) string {
	c := h.mustCell(ref)
	if c.tag == TagVar {
		panic(fmt.Sprintf("cell %d is a variable and has no name", ref))
	}
	return h.symName(c.sym)
}

// Arity is 0 for atoms and variables.
func (h *Heap) Arity(ref Ref) int {
	return h.mustCell(ref).arity
}

func (h *Heap) Arg(ref Ref, idx int) Ref {
	c := h.mustCell(ref)
	if c.tag != TagStruct || idx < 0 || idx >= c.arity {
		panic(fmt.Sprintf("cell %d has no argument %d", ref, idx))
	}
	return h.args[c.off+idx]
}

// Indicator dereferences ref and returns its functor/arity key. Variables
// have none.
func (h *Heap) Indicator(ref Ref) (Indicator, bool) {
	ref = h.Deref(ref)
	c := h.mustCell(ref)
	if c.tag == TagVar {
		return Indicator{}, false
	}
	return Indicator{Name: h.symName(c.sym), Arity: c.arity}, true
}

// Mark records how far the heap has grown, for Reset.
type Mark struct {
	cells int
	args  int
	trail int
	names int
}

func (h *Heap) Mark() Mark {
	return Mark{
		cells: len(h.cells),
		args:  len(h.args),
		trail: len(h.trail),
		names: len(h.localNames),
	}
}

// Reset undoes every binding made since m and throws away every cell
// allocated since m.
func (h *Heap) Reset(m Mark) {
	h.UnbindTo(m.trail)
	h.cells = h.cells[:m.cells]
	h.args = h.args[:m.args]
	for _, name := range h.localNames[m.names:] {
		delete(h.localIDs, name)
	}
	h.localNames = h.localNames[:m.names]
}

func (h *Heap) intern(name string) Symbol {
	if sym, ok := h.syms.Lookup(name); ok {
		return sym
	}
	if sym, ok := h.localIDs[name]; ok {
		return sym
	}
	if h.localIDs == nil {
		h.localIDs = make(map[string]Symbol)
	}
	sym := Symbol(-1 - len(h.localNames))
	h.localNames = append(h.localNames, name)
	h.localIDs[name] = sym
	return sym
}

func (h *Heap) symName(sym Symbol) string {
	if sym < 0 {
		return h.localNames[-1-int(sym)]
	}
	return h.syms.Name(sym)
}

// sameSymbol compares two symbols of this heap. A name can be local here
// and shared at the same time if another session stored it after this heap
// interned it, so local symbols are compared by name.
func (h *Heap) sameSymbol(a, b Symbol) bool {
	if a == b {
		return true
	}
	if a >= 0 && b >= 0 {
		return false
	}
	return h.symName(a) == h.symName(b)
}

// LocalSymbols is how many names this heap holds outside the shared table.
func (h *Heap) LocalSymbols() int {
	return len(h.localNames)
}
