package term

// builder makes test terms readable: variables with the same name share a
// cell, the way the parser resolves them within one clause.
type builder struct {
	h    *Heap
	vars map[string]Ref
}

func newBuilder(h *Heap) *builder {
	return &builder{h: h, vars: map[string]Ref{}}
}

func (b *builder) v(name string) Ref {
	if ref, ok := b.vars[name]; ok {
		return ref
	}
	ref := b.h.NewVar()
	b.vars[name] = ref
	return ref
}

func (b *builder) a(name string) Ref {
	return b.h.NewAtom(name)
}

func (b *builder) s(functor string, args ...Ref) Ref {
	return b.h.NewStruct(functor, args)
}

func (b *builder) names() map[Ref]string {
	names := map[Ref]string{}
	for name, ref := range b.vars {
		names[ref] = name
	}
	return names
}
