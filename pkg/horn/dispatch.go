package horn

// CodeFunc is a user-registered total function backing a Code-interpreted
// predicate, or the Code form of a lattice's leq/join (spec.md §3 "Code
// representation"). It is called with every argument already grounded
// except the designated output argument, and reports whether it produced a
// value: ok is false to signal failure for boolean predicates (conventional
// arity-2 leq checks), and must always be true for total functions such as
// join.
type CodeFunc func(args []Value) (Value, bool)

// AtomResolver evaluates a single body atom against an accumulating
// substitution, returning every extension of subst that satisfies it. It is
// the one piece of matching logic shared by the bottom-up semi-naive
// evaluator (eval.go, scanning db) and the lattice runtime's recursive
// leq/join solver (lattice.go, scanning the same db for any Relation atoms a
// lattice definition happens to consult), per spec.md §4.G's interpretation
// dispatch table.
type AtomResolver struct {
	symbols *SymbolTable
	db      *Database
	runtime *LatticeRuntime
	budget  *int
}

// Resolve dispatches atom by its symbol's declared interpretation.
func (r *AtomResolver) Resolve(atom Atom, subst Substitution) ([]Substitution, error) {
	switch r.symbols.Interpretation(atom.Symbol) {
	case Relation:
		return r.resolveRelation(atom, subst)
	case PartialFunction:
		return r.resolvePartialFunction(atom, subst)
	case LatticeLeq, LatticeJoin:
		return r.runtime.solveGoal(atom, subst, r.budget)
	case Code:
		return r.resolveCode(atom, subst)
	default:
		return nil, &EvalError{Kind: EvalArityMismatch, Symbol: atom.Symbol, Position: -1, Subst: subst, Message: "predicate has no recognized interpretation"}
	}
}

// resolveRelation matches atom's argument terms against every tuple
// currently stored for atom.Symbol, binding unbound variables and checking
// already-bound ones (spec.md §4.G "Relation: scan, matching each tuple
// against the pattern").
func (r *AtomResolver) resolveRelation(atom Atom, subst Substitution) ([]Substitution, error) {
	var out []Substitution
	r.db.Scan(atom.Symbol, func(tuple Tuple) bool {
		if ext, ok := Match(atom.Args, tuple, subst); ok {
			out = append(out, ext)
		}
		return true
	})
	return out, nil
}

// resolvePartialFunction looks up atom's key columns (all but the last
// argument) in the lattice-map store. A fully-ground key is resolved by
// direct point lookup, defaulting to the declared ⊥ when absent (spec.md
// §4.G "Partial-function: point lookup on the key; a missing entry binds ⊥");
// a key that is not yet fully ground falls back to a full scan, exactly as
// for a Relation.
func (r *AtomResolver) resolvePartialFunction(atom Atom, subst Substitution) ([]Substitution, error) {
	keyArity := r.symbols.KeyArity(atom.Symbol)
	if len(atom.Args) != keyArity+1 {
		return nil, &EvalError{Kind: EvalArityMismatch, Symbol: atom.Symbol, Position: -1, Subst: subst, Message: "partial-function atom arity disagrees with declared key arity"}
	}
	key := make(Tuple, keyArity)
	ground := true
	for i := 0; i < keyArity; i++ {
		v, ok := Groundify(Substitute(atom.Args[i], subst), subst)
		if !ok {
			ground = false
			break
		}
		key[i] = v
	}
	if !ground {
		return r.resolveRelation(atom, subst)
	}
	value, ok := r.db.Lookup(atom.Symbol, key)
	if !ok {
		value, ok = r.symbols.Bottom(atom.Symbol)
		if !ok {
			return nil, &EvalError{Kind: UngroundFunctionInput, Symbol: atom.Symbol, Position: -1, Subst: subst, Message: "no entry and no declared bottom"}
		}
	}
	ext, ok := matchOne(atom.Args[keyArity], value, subst)
	if !ok {
		return nil, nil
	}
	return []Substitution{ext}, nil
}

// resolveCode invokes the registered CodeFunc for atom.Symbol with every
// argument but the last grounded, binding the last argument to the result
// (spec.md §4.G "Code: invoke the registered function on the ground input;
// bind the output").
func (r *AtomResolver) resolveCode(atom Atom, subst Substitution) ([]Substitution, error) {
	fn, ok := r.runtime.codeFuncs[atom.Symbol.Name]
	if !ok {
		return nil, &EvalError{Kind: UngroundFunctionInput, Symbol: atom.Symbol, Position: -1, Subst: subst, Message: "no Code function registered"}
	}
	if len(atom.Args) == 0 {
		return nil, &EvalError{Kind: EvalArityMismatch, Symbol: atom.Symbol, Position: -1, Subst: subst, Message: "Code predicate must have at least one argument"}
	}
	inputs := make([]Value, len(atom.Args)-1)
	for i, a := range atom.Args[:len(atom.Args)-1] {
		v, ok := Groundify(Substitute(a, subst), subst)
		if !ok {
			return nil, &EvalError{Kind: UngroundFunctionInput, Symbol: atom.Symbol, Position: i, Subst: subst, Message: "Code input argument is not ground"}
		}
		inputs[i] = v
	}
	result, ok := fn(inputs)
	if !ok {
		return nil, nil
	}
	ext, ok := matchOne(atom.Args[len(atom.Args)-1], result, subst)
	if !ok {
		return nil, nil
	}
	return []Substitution{ext}, nil
}

// resolveBody evaluates body left-to-right starting from the single
// substitution seed, threading every satisfying substitution from one atom
// into the next. lattice.go uses it over the body of a clause defining a
// recursive leq/join; eval.go's step runs its own equivalent loop so that
// it can skip the delta-bound position and count body matches.
func resolveBody(r *AtomResolver, body []Atom, seed Substitution) ([]Substitution, error) {
	substs := []Substitution{seed}
	for _, atom := range body {
		var next []Substitution
		for _, s := range substs {
			ext, err := r.Resolve(atom, s)
			if err != nil {
				return nil, err
			}
			next = append(next, ext...)
		}
		substs = next
		if len(substs) == 0 {
			return nil, nil
		}
	}
	return substs, nil
}
