package parse

import (
	"errors"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
)

var (
	termLexer = lexer.Must(
		lexer.Regexp(`(\s+)` +
			`|(%[^\n]*)` +
			`|(?P<Variable>[A-Z_][a-zA-Z0-9_]*)` +
			`|(?P<Atom>[a-z][a-zA-Z0-9_]*)` +
			`|(?P<Operators>\?-|[(),.])`,
		),
	)
	termParser = participle.MustBuild(&Statement{}, termLexer)
)

// Statement is either a fact to store or a query to answer:
//
//	p(Z, h(Z, W), f(W)).
//	?- p(z, h(z, w), f(w)).
type Statement struct {
	Query *Term `  "?-" @@ "."`
	Fact  *Term `| @@ "."`
}

// Term is an atom, a variable, or a compound term. Arguments are only
// present for compound terms, so p() is not valid syntax.
type Term struct {
	Variable string  `  @Variable`
	Functor  string  `| @Atom`
	Args     []*Term `  [ "(" @@ { "," @@ } ")" ]`
}

func (t *Term) IsVariable() bool {
	return t.Variable != ""
}

// Parse parses one statement.
func Parse(src string) (*Statement, error) {
	result := &Statement{}
	if err := termParser.ParseString(src, result); err != nil {
		return nil, err
	}
	if result.Query == nil && result.Fact == nil {
		return nil, errors.New("empty statement")
	}
	return result, nil
}
