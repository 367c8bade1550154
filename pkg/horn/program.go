package horn

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// SymbolSpec declares one predicate symbol for a Program: its name, fixed
// arity, interpretation, and (for lattice-map symbols) the width of its key
// prefix and its lattice's declared ⊥ (spec.md §6 "a list of
// predicate-symbol declarations").
type SymbolSpec struct {
	Name           string
	Arity          int
	Interpretation Interpretation

	// KeyArity is required (and must be < Arity) when Interpretation is
	// PartialFunction; it is ignored otherwise.
	KeyArity int

	// LeqSymbol and JoinSymbol name the already-declared LatticeLeq and
	// LatticeJoin predicates a PartialFunction symbol merges its inserts
	// with. Both are required when Interpretation is PartialFunction;
	// ignored otherwise.
	LeqSymbol, JoinSymbol string

	// Bottom is the declared ⊥ for this symbol's lattice, if it belongs to
	// one. A PartialFunction symbol with no Bottom fails to load with
	// MissingBottom: Load checks this eagerly instead of waiting for a
	// query of a never-inserted key to hit it at runtime.
	Bottom *Value
}

// AtomSpec names a predicate by its declared symbol name rather than an
// already-interned PredicateSymbol, since a Program is resolved against its
// own SymbolSpecs at load time.
type AtomSpec struct {
	Predicate string
	Args      []Term
}

// ClauseSpec is one Horn clause in a Program, head and body given by name.
type ClauseSpec struct {
	Head AtomSpec
	Body []AtomSpec
}

// FactSpec is one initial ground fact (spec.md §6 "an optional list of
// initial ground facts").
type FactSpec struct {
	Predicate string
	Args      []Value
}

// CodeSpec binds a Code-interpreted predicate symbol (or a clause-free
// leq/join) to its host-language implementation (spec.md §6 "for each Code
// interpretation, a callable ... accepting ground values and returning a
// ground value").
type CodeSpec struct {
	Predicate string
	Func      CodeFunc
}

// Program is the one value the surrounding system hands to this package:
// everything needed to load and run a solver, with no parsing or
// elaboration performed here (spec.md §6 "inward interface").
type Program struct {
	Symbols []SymbolSpec
	Clauses []ClauseSpec
	Facts   []FactSpec
	Code    []CodeSpec
}

// Load resolves p against a fresh SymbolTable, builds its clause index,
// constructs an Evaluator, registers every CodeSpec, and inserts every
// FactSpec, in that order. Multiple independent problems are reported
// together via a *multierror.Error (so a caller fixing a Program can see
// every declaration mistake in one pass) rather than stopping at the
// first; per spec.md §7, any such LoadError means evaluation never starts
// and Load returns a nil *Evaluator.
func Load(p Program, options ...EvalOption) (*Evaluator, error) {
	symbols := NewSymbolTable()
	var errs *multierror.Error

	for _, spec := range p.Symbols {
		sym, err := symbols.Declare(spec.Name, spec.Arity, spec.Interpretation)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if spec.Interpretation == PartialFunction {
			if spec.KeyArity <= 0 || spec.KeyArity >= spec.Arity {
				errs = multierror.Append(errs, &LoadError{
					Kind:    ArityMismatch,
					Symbol:  sym,
					Clause:  -1,
					Message: fmt.Sprintf("partial-function %q declares key arity %d, arity %d", spec.Name, spec.KeyArity, spec.Arity),
				})
			} else {
				symbols.SetKeyArity(sym, spec.KeyArity)
			}
		}
		if spec.Bottom != nil {
			symbols.SetBottom(sym, *spec.Bottom)
		} else if spec.Interpretation == PartialFunction {
			errs = multierror.Append(errs, &LoadError{
				Kind:    MissingBottom,
				Symbol:  sym,
				Clause:  -1,
				Message: fmt.Sprintf("lattice-map symbol %q has no declared bottom", spec.Name),
			})
		}
	}

	for _, spec := range p.Symbols {
		if spec.Interpretation != PartialFunction {
			continue
		}
		sym, ok := symbols.Lookup(spec.Name)
		if !ok {
			continue // already reported above
		}
		leqSym, ok := symbols.Lookup(spec.LeqSymbol)
		if !ok || symbols.Interpretation(leqSym) != LatticeLeq {
			errs = multierror.Append(errs, &LoadError{
				Kind:    MissingInterpretation,
				Symbol:  sym,
				Clause:  -1,
				Message: fmt.Sprintf("partial-function %q names unknown or non-Leq leq symbol %q", spec.Name, spec.LeqSymbol),
			})
			continue
		}
		joinSym, ok := symbols.Lookup(spec.JoinSymbol)
		if !ok || symbols.Interpretation(joinSym) != LatticeJoin {
			errs = multierror.Append(errs, &LoadError{
				Kind:    MissingInterpretation,
				Symbol:  sym,
				Clause:  -1,
				Message: fmt.Sprintf("partial-function %q names unknown or non-Join join symbol %q", spec.Name, spec.JoinSymbol),
			})
			continue
		}
		symbols.SetLattice(sym, leqSym, joinSym)
	}

	clauses := make([]Clause, 0, len(p.Clauses))
	for ci, cs := range p.Clauses {
		head, ok := resolveAtom(symbols, cs.Head)
		if !ok {
			errs = multierror.Append(errs, &LoadError{
				Kind:    UnknownSymbol,
				Clause:  ci,
				Message: fmt.Sprintf("clause head predicate %q was not declared", cs.Head.Predicate),
			})
			continue
		}
		if len(head.Args) != symbols.Arity(head.Symbol) {
			errs = multierror.Append(errs, &LoadError{
				Kind:    ArityMismatch,
				Symbol:  head.Symbol,
				Clause:  ci,
				Message: fmt.Sprintf("clause head for %q has %d argument(s), declared arity is %d", cs.Head.Predicate, len(head.Args), symbols.Arity(head.Symbol)),
			})
			continue
		}
		body := make([]Atom, 0, len(cs.Body))
		bodyOK := true
		for _, bs := range cs.Body {
			atom, ok := resolveAtom(symbols, bs)
			if !ok {
				errs = multierror.Append(errs, &LoadError{
					Kind:    UnknownSymbol,
					Symbol:  head.Symbol,
					Clause:  ci,
					Message: fmt.Sprintf("clause body predicate %q was not declared", bs.Predicate),
				})
				bodyOK = false
				continue
			}
			if len(atom.Args) != symbols.Arity(atom.Symbol) {
				errs = multierror.Append(errs, &LoadError{
					Kind:    ArityMismatch,
					Symbol:  atom.Symbol,
					Clause:  ci,
					Message: fmt.Sprintf("clause body atom %q has %d argument(s), declared arity is %d", bs.Predicate, len(atom.Args), symbols.Arity(atom.Symbol)),
				})
				bodyOK = false
				continue
			}
			body = append(body, atom)
		}
		if !bodyOK {
			continue
		}
		clause := Clause{Head: head, Body: body}
		if !rangeRestricted(clause) {
			errs = multierror.Append(errs, &LoadError{
				Kind:    NonRangeRestricted,
				Symbol:  head.Symbol,
				Clause:  ci,
				Message: "a head variable does not appear in the body",
			})
			continue
		}
		clauses = append(clauses, clause)
	}

	if errs.ErrorOrNil() != nil {
		return nil, errs.ErrorOrNil()
	}

	index := NewClauseIndex(clauses)
	eval := NewEvaluator(symbols, index, options...)

	for _, cs := range p.Code {
		sym, ok := symbols.Lookup(cs.Predicate)
		if !ok {
			return nil, &LoadError{Kind: UnknownSymbol, Clause: -1, Message: fmt.Sprintf("code binding for undeclared predicate %q", cs.Predicate)}
		}
		eval.LatticeRuntime().RegisterCode(sym, cs.Func)
	}

	for _, fs := range p.Facts {
		sym, ok := symbols.Lookup(fs.Predicate)
		if !ok {
			return nil, &LoadError{Kind: UnknownSymbol, Clause: -1, Message: fmt.Sprintf("initial fact for undeclared predicate %q", fs.Predicate)}
		}
		if err := eval.Insert(sym, fs.Args...); err != nil {
			return nil, err
		}
	}

	// A clause with an empty body is an unconditional fact; range
	// restriction guarantees its head is ground.
	for _, c := range clauses {
		if len(c.Body) != 0 {
			continue
		}
		args := make([]Value, len(c.Head.Args))
		for k, t := range c.Head.Args {
			args[k], _ = Groundify(t, NewSubstitution())
		}
		if err := eval.Insert(c.Head.Symbol, args...); err != nil {
			return nil, err
		}
	}

	return eval, nil
}

func resolveAtom(symbols *SymbolTable, spec AtomSpec) (Atom, bool) {
	sym, ok := symbols.Lookup(spec.Predicate)
	if !ok {
		return Atom{}, false
	}
	return Atom{Symbol: sym, Args: spec.Args}, true
}
