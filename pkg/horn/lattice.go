package horn

import (
	"fmt"
	"strconv"
)

// latticeOutputPos is the body/goal argument position that a LatticeJoin
// atom binds as its result; LatticeLeq has no output position, since it is
// a pure boolean test (spec.md §3 "leq(x, y)" / "join(x, y, z)").
const latticeOutputPos = 2

// LatticeRuntime computes leq and join for every lattice-valued predicate
// declared in a Program, either by invoking a registered CodeFunc or by
// recursively solving the symbol's own Horn clauses top-down, one goal at a
// time, the way a single-answer query driver resolves a goal against a
// fixed set of clauses (spec.md §4.H; the single-answer, ground-input shape
// mirrors a top-down SLD-resolution driver rather than the bottom-up
// worklist used for ordinary relations).
type LatticeRuntime struct {
	symbols *SymbolTable
	index   *ClauseIndex
	db      *Database

	codeFuncs map[string]CodeFunc

	queryBudget int
	renameSeq   int
}

// NewLatticeRuntime returns a runtime over the clauses indexed by index. The
// owning Database must be attached with SetDatabase before any Leq/Join
// call that needs to consult ordinary relations from within a lattice
// definition's body.
func NewLatticeRuntime(symbols *SymbolTable, index *ClauseIndex, queryBudget int) *LatticeRuntime {
	if queryBudget <= 0 {
		queryBudget = 10000
	}
	return &LatticeRuntime{
		symbols:     symbols,
		index:       index,
		codeFuncs:   make(map[string]CodeFunc),
		queryBudget: queryBudget,
	}
}

// SetDatabase attaches the database a recursive lattice definition's
// Relation body atoms, if any, are evaluated against.
func (lr *LatticeRuntime) SetDatabase(db *Database) { lr.db = db }

// RegisterCode installs fn as sym's Code implementation, overriding any
// clause-driven definition (spec.md §3 "Code representation").
func (lr *LatticeRuntime) RegisterCode(sym PredicateSymbol, fn CodeFunc) {
	lr.codeFuncs[sym.Name] = fn
}

// Leq reports whether x leq y under the lattice sym belongs to.
func (lr *LatticeRuntime) Leq(sym PredicateSymbol, x, y Value) (bool, error) {
	budget := lr.queryBudget
	goal := Atom{Symbol: sym, Args: []Term{Constant{Value: x}, Constant{Value: y}}}
	results, err := lr.solveGoal(goal, NewSubstitution(), &budget)
	if err != nil {
		return false, err
	}
	return len(results) > 0, nil
}

// Join returns x join y under the lattice sym belongs to. Join is expected
// to be total; if neither a Code function nor any clause produces an
// answer, that is reported as a NonMonotoneJoin error (spec.md §7).
func (lr *LatticeRuntime) Join(sym PredicateSymbol, x, y Value) (Value, error) {
	budget := lr.queryBudget
	out := Variable{Name: "$join"}
	goal := Atom{Symbol: sym, Args: []Term{Constant{Value: x}, Constant{Value: y}, out}}
	results, err := lr.solveGoal(goal, NewSubstitution(), &budget)
	if err != nil {
		return Value{}, err
	}
	if len(results) == 0 {
		return Value{}, &EvalError{
			Kind:    NonMonotoneJoin,
			Symbol:  sym,
			Position: -1,
			Message: fmt.Sprintf("join(%s, %s) produced no result", x, y),
		}
	}
	v, ok := results[0].Lookup(out.Name)
	if !ok {
		return Value{}, &EvalError{Kind: NonMonotoneJoin, Symbol: sym, Position: -1, Message: "join clause did not bind its output argument"}
	}
	return v, nil
}

// solveGoal satisfies goal (a LatticeLeq or LatticeJoin atom whose input
// positions are already ground under subst) and returns every extension of
// subst binding goal's output position, or - for LatticeLeq, which has no
// output position - subst itself once per satisfying derivation.
func (lr *LatticeRuntime) solveGoal(goal Atom, subst Substitution, budget *int) ([]Substitution, error) {
	*budget--
	if *budget <= 0 {
		return nil, &EvalError{Kind: LatticeTimeoutOrOverflow, Symbol: goal.Symbol, Position: -1, Subst: subst, Message: "lattice query budget exhausted"}
	}

	if fn, ok := lr.codeFuncs[goal.Symbol.Name]; ok {
		return lr.solveCode(fn, goal, subst)
	}

	outputPos := outputPosition(lr.symbols.Interpretation(goal.Symbol))
	var results []Substitution
	resolver := &AtomResolver{symbols: lr.symbols, db: lr.db, runtime: lr, budget: budget}

	for _, clause := range lr.index.ClausesHeaded(goal.Symbol) {
		lr.renameSeq++
		fresh := renameClause(clause, strconv.Itoa(lr.renameSeq))

		local := NewSubstitution()
		matched := true
		for i, headArg := range fresh.Head.Args {
			if i == outputPos {
				continue
			}
			goalVal, ok := Groundify(goal.Args[i], subst)
			if !ok {
				matched = false
				break
			}
			var ok2 bool
			local, ok2 = matchOne(headArg, goalVal, local)
			if !ok2 {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}

		bodyResults, err := resolveBody(resolver, fresh.Body, local)
		if err != nil {
			return nil, err
		}
		for _, bs := range bodyResults {
			if outputPos < 0 {
				results = append(results, subst)
				continue
			}
			outVal, ok := Groundify(fresh.Head.Args[outputPos], bs)
			if !ok {
				continue
			}
			ext, ok := matchOne(goal.Args[outputPos], outVal, subst)
			if !ok {
				continue
			}
			results = append(results, ext)
		}
	}
	return results, nil
}

func (lr *LatticeRuntime) solveCode(fn CodeFunc, goal Atom, subst Substitution) ([]Substitution, error) {
	outputPos := outputPosition(lr.symbols.Interpretation(goal.Symbol))
	inputs := make([]Value, 0, len(goal.Args))
	for i, a := range goal.Args {
		if i == outputPos {
			continue
		}
		v, ok := Groundify(a, subst)
		if !ok {
			return nil, &EvalError{Kind: UngroundFunctionInput, Symbol: goal.Symbol, Position: i, Subst: subst, Message: "lattice Code input is not ground"}
		}
		inputs = append(inputs, v)
	}
	result, ok := fn(inputs)
	if !ok {
		return nil, nil
	}
	if outputPos < 0 {
		return []Substitution{subst}, nil
	}
	ext, ok := matchOne(goal.Args[outputPos], result, subst)
	if !ok {
		return nil, nil
	}
	return []Substitution{ext}, nil
}

func outputPosition(interp Interpretation) int {
	if interp == LatticeJoin {
		return latticeOutputPos
	}
	return -1
}

// renameClause returns a copy of c with every variable name suffixed by
// "#"+suffix, so that each recursive invocation of a lattice's defining
// clause gets its own, non-colliding set of local variables.
func renameClause(c Clause, suffix string) Clause {
	return Clause{
		Head: renameAtom(c.Head, suffix),
		Body: renameAtoms(c.Body, suffix),
	}
}

func renameAtoms(atoms []Atom, suffix string) []Atom {
	out := make([]Atom, len(atoms))
	for i, a := range atoms {
		out[i] = renameAtom(a, suffix)
	}
	return out
}

func renameAtom(a Atom, suffix string) Atom {
	args := make([]Term, len(a.Args))
	for i, t := range a.Args {
		args[i] = renameTerm(t, suffix)
	}
	return Atom{Symbol: a.Symbol, Args: args}
}

func renameTerm(t Term, suffix string) Term {
	switch x := t.(type) {
	case Variable:
		if x.Name == "_" {
			return x
		}
		return Variable{Name: x.Name + "#" + suffix}
	case Constant:
		return x
	case Constructor:
		args := make([]Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = renameTerm(a, suffix)
		}
		return Constructor{Name: x.Name, Args: args}
	default:
		panic(fmt.Sprintf("horn: unknown term type %T", t))
	}
}

// CheckLatticeLaws samples commutativity, associativity and idempotence of
// join, reflexivity of leq, leq's upper-bound law (x leq join(x,y)), and
// bottom's least-element law (bottom leq x), over the given sample elements,
// returning the first counterexample found (spec.md §8 invariant 5 "lattice
// laws hold on sampled elements"). It is meant for use in tests and at
// program-load time for user-supplied Code lattices, not on every
// evaluation step. The upper-bound sample is the one that catches a
// non-monotone user join (spec.md §7 NonMonotoneJoin).
func CheckLatticeLaws(lr *LatticeRuntime, leqSym, joinSym PredicateSymbol, bottom Value, samples []Value) error {
	for _, a := range samples {
		ok, err := lr.Leq(leqSym, a, a)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("horn: leq not reflexive at %s", a)
		}
		ok, err = lr.Leq(leqSym, bottom, a)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("horn: bottom %s is not leq %s", bottom, a)
		}
	}
	for _, a := range samples {
		for _, b := range samples {
			ab, err := lr.Join(joinSym, a, b)
			if err != nil {
				return err
			}
			ba, err := lr.Join(joinSym, b, a)
			if err != nil {
				return err
			}
			if !ab.Equal(ba) {
				return fmt.Errorf("horn: join not commutative at (%s, %s)", a, b)
			}
			aa, err := lr.Join(joinSym, a, a)
			if err != nil {
				return err
			}
			if !aa.Equal(a) {
				return fmt.Errorf("horn: join not idempotent at %s", a)
			}
			ok, err := lr.Leq(leqSym, a, ab)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("horn: %s is not leq join(%s, %s)", a, a, b)
			}
		}
	}
	for _, a := range samples {
		for _, b := range samples {
			for _, c := range samples {
				ab, err := lr.Join(joinSym, a, b)
				if err != nil {
					return err
				}
				abc1, err := lr.Join(joinSym, ab, c)
				if err != nil {
					return err
				}
				bc, err := lr.Join(joinSym, b, c)
				if err != nil {
					return err
				}
				abc2, err := lr.Join(joinSym, a, bc)
				if err != nil {
					return err
				}
				if !abc1.Equal(abc2) {
					return fmt.Errorf("horn: join not associative at (%s, %s, %s)", a, b, c)
				}
			}
		}
	}
	return nil
}
