package treelog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	clog "github.com/vilterp/treelog/pkg/log"
	"github.com/vilterp/treelog/pkg/parse"
	"github.com/vilterp/treelog/pkg/term"
)

// ListFactsCommand asks a session for every stored fact.
const ListFactsCommand = `\d`

// Session runs statements one at a time against the shared database. Its
// heap is private: nothing a session binds is visible to another.
type Session struct {
	id      uuid.UUID
	db      *Database
	heap    *term.Heap
	context context.Context
}

func (db *Database) NewSession(ctx context.Context) *Session {
	id := uuid.New()
	return &Session{
		id:      id,
		db:      db,
		heap:    term.NewHeap(db.facts.Symbols()),
		context: context.WithValue(ctx, clog.SessionIDKey, id.String()),
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Ctx() context.Context {
	return s.context
}

// Result is what a statement produced. Exactly one field is set.
type Result struct {
	Ack    string
	Answer *Answer
	Facts  []string
}

// Exec runs one statement: a fact to store, a query, or ListFactsCommand.
func (s *Session) Exec(statement string) (*Result, error) {
	if strings.TrimSpace(statement) == ListFactsCommand {
		return &Result{Facts: s.db.listFacts()}, nil
	}
	parsed, err := parse.Parse(statement)
	if err != nil {
		return nil, &parseError{error: err}
	}

	// The statement's own cells only live as long as the statement.
	mark := s.heap.Mark()
	defer s.heap.Reset(mark)

	if parsed.Query != nil {
		return s.query(parsed.Query)
	}
	return s.assert(parsed.Fact)
}

func (s *Session) assert(t *parse.Term) (*Result, error) {
	startTime := time.Now()
	clause := parse.Build(s.heap, t)
	fact, err := s.db.evaluator.Assert(s.heap, clause)
	if err != nil {
		return nil, err
	}
	s.db.metrics.assertLatency.Observe(float64(time.Since(startTime).Nanoseconds()))
	clog.Println(s, "stored", fact.Indicator)
	return &Result{Ack: fmt.Sprintf("stored %s", fact.Indicator)}, nil
}

func (s *Session) query(t *parse.Term) (*Result, error) {
	startTime := time.Now()
	clause := parse.Build(s.heap, t)
	answer, err := s.db.evaluator.Query(s.heap, clause)
	if err != nil {
		return nil, err
	}
	s.db.metrics.queryLatency.Observe(float64(time.Since(startTime).Nanoseconds()))
	if answer.Yes {
		s.db.metrics.answers.WithLabelValues("yes").Inc()
	} else {
		s.db.metrics.answers.WithLabelValues("no").Inc()
	}
	return &Result{Answer: answer}, nil
}
