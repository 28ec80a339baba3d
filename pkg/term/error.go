package term

import (
	"fmt"
	"strings"
)

// RebindError is raised (as a panic) when something tries to bind a
// variable that is already bound. Going through Unify and the trail never
// does this.
type RebindError struct {
	Var     Ref
	BoundTo Ref
}

func (e *RebindError) Error() string {
	return fmt.Sprintf("variable _G%d is already bound to cell %d", e.Var, e.BoundTo)
}

// MalformedTermError means a struct's declared arity disagrees with the
// arguments it actually carries.
type MalformedTermError struct {
	Functor string
	Arity   int
	Reason  string
}

func (e *MalformedTermError) Error() string {
	return fmt.Sprintf("malformed term %s/%d: %s", e.Functor, e.Arity, e.Reason)
}

// NotCallableError means a variable was used where a fact or query, which
// need a functor, was expected.
type NotCallableError struct {
	Term string
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("not callable: %s (facts and queries must be atoms or compound terms)", strings.TrimSpace(e.Term))
}
