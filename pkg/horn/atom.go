package horn

import "strings"

// Atom is Predicate(t1..tn): a predicate symbol applied to argument terms
// (spec.md §3).
type Atom struct {
	Symbol PredicateSymbol
	Args   []Term
}

func (a Atom) String() string {
	parts := make([]string, len(a.Args))
	for i, t := range a.Args {
		parts[i] = t.String()
	}
	return a.Symbol.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Clause is a Horn clause: a head atom implied by a conjunction of body
// atoms (spec.md §3). An empty Body is a fact.
type Clause struct {
	Head PredicateAtom
	Body []PredicateAtom
}

// PredicateAtom is an alias of Atom, kept only so that the naming in
// atom.go / eval.go stays close to spec.md's "head atom" / "body atom"
// vocabulary. The two are the same type.
type PredicateAtom = Atom

// rangeRestricted reports whether every variable in c.Head also appears in
// some atom of c.Body (spec.md §4.E "range restricted").
func rangeRestricted(c Clause) bool {
	bodyVars := make(map[string]bool)
	for _, atom := range c.Body {
		for _, arg := range atom.Args {
			for _, name := range Vars(arg, nil) {
				bodyVars[name] = true
			}
		}
	}
	for _, arg := range c.Head.Args {
		for _, name := range Vars(arg, nil) {
			if !bodyVars[name] {
				return false
			}
		}
	}
	return true
}
