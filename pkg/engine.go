package treelog

import (
	"github.com/vilterp/treelog/pkg/factdb"
	"github.com/vilterp/treelog/pkg/parse"
	pp "github.com/vilterp/treelog/pkg/prettyprint"
	"github.com/vilterp/treelog/pkg/term"
)

// Evaluator answers queries against a fact database. It holds no per-query
// state; the heap passed to each call does.
type Evaluator struct {
	facts *factdb.Database
}

func NewEvaluator(facts *factdb.Database) *Evaluator {
	return &Evaluator{facts: facts}
}

// Binding is a named query variable and what it was bound to, printed.
type Binding struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Answer struct {
	Yes      bool      `json:"yes"`
	Bindings []Binding `json:"bindings,omitempty"`
}

// Format puts each binding on its own line, then yes or no.
func (a *Answer) Format() pp.Doc {
	lines := make([]pp.Doc, 0, len(a.Bindings)+1)
	for _, b := range a.Bindings {
		lines = append(lines, pp.Textf("%s = %s", b.Name, b.Value))
	}
	if a.Yes {
		lines = append(lines, pp.Text("yes"))
	} else {
		lines = append(lines, pp.Text("no"))
	}
	return pp.Lines(lines)
}

func (a *Answer) String() string {
	return a.Format().String()
}

// Assert freezes the clause and stores it, replacing whatever was stored
// under the same functor/arity.
func (e *Evaluator) Assert(h *term.Heap, clause *parse.Clause) (*term.Fact, error) {
	if _, ok := h.Indicator(clause.Root); !ok {
		return nil, notCallable(h, clause)
	}
	fact, err := term.Freeze(h, clause.Root)
	if err != nil {
		return nil, err
	}
	if err := e.facts.Store(fact); err != nil {
		return nil, err
	}
	return fact, nil
}

// Query unifies the clause with a fresh copy of the fact stored under its
// functor/arity. A missing fact is a "no", not an error. Whatever the
// outcome, h is left as it was before the call except for the clause's own
// cells.
func (e *Evaluator) Query(h *term.Heap, clause *parse.Clause) (*Answer, error) {
	ind, ok := h.Indicator(clause.Root)
	if !ok {
		return nil, notCallable(h, clause)
	}
	fact, ok := e.facts.Lookup(ind)
	if !ok {
		return &Answer{}, nil
	}

	mark := h.Mark()
	defer h.Reset(mark)

	instance := h.Instantiate(fact)
	if !h.Unify(clause.Root, instance) {
		return &Answer{}, nil
	}
	answer := &Answer{Yes: true}
	names := clause.Names()
	for _, v := range clause.Vars {
		if h.Deref(v.Ref) == v.Ref {
			continue
		}
		answer.Bindings = append(answer.Bindings, Binding{
			Name:  v.Name,
			Value: h.Format(v.Ref, names).String(),
		})
	}
	return answer, nil
}

func notCallable(h *term.Heap, clause *parse.Clause) error {
	return &term.NotCallableError{Term: h.Format(clause.Root, clause.Names()).String()}
}
