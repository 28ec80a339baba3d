package term

import (
	"fmt"
	"sync"
)

// Symbol is an interned atom or functor name.
type Symbol int32

// Symbols interns names. One table is shared by every heap that talks to
// the same fact database, so it is safe for concurrent use.
type Symbols struct {
	mu    sync.RWMutex
	ids   map[string]Symbol
	names []string
}

func NewSymbols() *Symbols {
	return &Symbols{
		ids: make(map[string]Symbol),
	}
}

func (s *Symbols) Intern(name string) Symbol {
	s.mu.RLock()
	sym, ok := s.ids[name]
	s.mu.RUnlock()
	if ok {
		return sym
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Somebody may have beaten us to it between the two locks.
	if sym, ok := s.ids[name]; ok {
		return sym
	}
	sym = Symbol(len(s.names))
	s.names = append(s.names, name)
	s.ids[name] = sym
	return sym
}

// Lookup returns the symbol for name without interning it.
func (s *Symbols) Lookup(name string) (Symbol, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sym, ok := s.ids[name]
	return sym, ok
}

func (s *Symbols) Name(sym Symbol) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(sym) < 0 || int(sym) >= len(s.names) {
		panic(fmt.Sprintf("unknown symbol %d", sym))
	}
	return s.names[sym]
}

func (s *Symbols) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// Indicator is the functor/arity key facts are indexed by.
type Indicator struct {
	Name  string
	Arity int
}

func (i Indicator) String() string {
	return fmt.Sprintf("%s/%d", i.Name, i.Arity)
}
