package horn

import (
	"fmt"
	"strings"
)

// Term is an open value: a Variable, a Constant (wrapping a ground Value),
// or a Constructor applied to further terms. It is the pattern half of
// spec.md §3/§4.A — patterns are matched against already-ground Values by
// match.go, never unified against one another.
type Term interface {
	isTerm()
	String() string
}

// Variable is a named placeholder in a clause. Two Variables with the same
// Name are the same variable within one clause; Variable identity is by
// name, not by pointer, since clauses are data values shared read-only
// across the clause index and the evaluator.
type Variable struct {
	Name string
}

func (Variable) isTerm()          {}
func (v Variable) String() string { return v.Name }

// Constant wraps an already-ground Value as a term.
type Constant struct {
	Value Value
}

func (Constant) isTerm()          {}
func (c Constant) String() string { return c.Value.String() }

// Constructor applies a named constructor to argument terms, e.g.
// Constructor{"SP", []Term{Variable{"S"}, Variable{"P"}}} for the product
// lattice element SP(S, P).
type Constructor struct {
	Name string
	Args []Term
}

func (Constructor) isTerm() {}
func (c Constructor) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Substitution maps variable names to ground Values. The zero value is the
// empty substitution.
type Substitution struct {
	bindings map[string]Value
}

// NewSubstitution returns an empty substitution.
func NewSubstitution() Substitution {
	return Substitution{bindings: make(map[string]Value)}
}

// Lookup returns the value bound to name and whether it was bound.
func (s Substitution) Lookup(name string) (Value, bool) {
	if s.bindings == nil {
		return Value{}, false
	}
	v, ok := s.bindings[name]
	return v, ok
}

// Extend returns a new substitution with name bound to v, leaving s
// unmodified. Substitutions are treated as persistent values throughout
// match.go and eval.go so that a failed branch never corrupts a sibling's
// bindings.
func (s Substitution) Extend(name string, v Value) Substitution {
	out := make(map[string]Value, len(s.bindings)+1)
	for k, val := range s.bindings {
		out[k] = val
	}
	out[name] = v
	return Substitution{bindings: out}
}

// Substitute applies s to t, replacing every bound Variable with its Value
// (as a Constant) and recursing into Constructor arguments. It is total:
// unbound variables are left as Variable terms in the result.
func Substitute(t Term, s Substitution) Term {
	switch x := t.(type) {
	case Variable:
		if v, ok := s.Lookup(x.Name); ok {
			return Constant{Value: v}
		}
		return x
	case Constant:
		return x
	case Constructor:
		args := make([]Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = Substitute(a, s)
		}
		return Constructor{Name: x.Name, Args: args}
	default:
		panic(fmt.Sprintf("horn: unknown term type %T", t))
	}
}

// IsGround reports whether every variable mentioned in t is bound under s.
func IsGround(t Term, s Substitution) bool {
	switch x := t.(type) {
	case Variable:
		_, ok := s.Lookup(x.Name)
		return ok
	case Constant:
		return true
	case Constructor:
		for _, a := range x.Args {
			if !IsGround(a, s) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("horn: unknown term type %T", t))
	}
}

// Groundify converts t to a Value under s, failing if t is not ground under
// s (spec.md §4.A).
func Groundify(t Term, s Substitution) (Value, bool) {
	switch x := t.(type) {
	case Variable:
		return s.Lookup(x.Name)
	case Constant:
		return x.Value, true
	case Constructor:
		args := make([]Value, len(x.Args))
		for i, a := range x.Args {
			v, ok := Groundify(a, s)
			if !ok {
				return Value{}, false
			}
			args[i] = v
		}
		return NewCtor(x.Name, args...), true
	default:
		panic(fmt.Sprintf("horn: unknown term type %T", t))
	}
}

// Vars appends the names of every variable mentioned in t to out (with
// duplicates, in left-to-right order of occurrence) and returns the result.
func Vars(t Term, out []string) []string {
	switch x := t.(type) {
	case Variable:
		return append(out, x.Name)
	case Constant:
		return out
	case Constructor:
		for _, a := range x.Args {
			out = Vars(a, out)
		}
		return out
	default:
		panic(fmt.Sprintf("horn: unknown term type %T", t))
	}
}
