package testlattice

import "github.com/hornkit/hornfix/pkg/horn"

// ConstProp is the classic constant-propagation lattice: Bottom below every
// Const(n), which are pairwise incomparable, below Top. Joining two
// different constants (or either with Top) loses precision to Top - the
// standard "may have multiple values" dataflow fact.
var (
	ConstBottom = horn.NewCtor("Bottom")
	ConstTop    = horn.NewCtor("Top")
)

// Const constructs the constant-propagation fact "is exactly n".
func Const(n int64) horn.Value {
	return horn.NewCtor("Const", horn.Int64(n))
}

func constPropLeq(a, b horn.Value) bool {
	if a.CtorName() == "Bottom" {
		return true
	}
	if b.CtorName() == "Top" {
		return true
	}
	if a.CtorName() == "Const" && b.CtorName() == "Const" {
		return a.Args()[0].Int64() == b.Args()[0].Int64()
	}
	return a.CtorName() == b.CtorName()
}

func constPropJoin(a, b horn.Value) horn.Value {
	if a.CtorName() == "Bottom" {
		return b
	}
	if b.CtorName() == "Bottom" {
		return a
	}
	if a.CtorName() == "Const" && b.CtorName() == "Const" && a.Args()[0].Int64() == b.Args()[0].Int64() {
		return a
	}
	if a.CtorName() == b.CtorName() && a.CtorName() != "Const" {
		return a
	}
	return ConstTop
}

// ConstPropLeqCode is the Code implementation of ConstProp's leq predicate.
func ConstPropLeqCode(args []horn.Value) (horn.Value, bool) {
	if !constPropLeq(args[0], args[1]) {
		return horn.Value{}, false
	}
	return horn.Bool(true), true
}

// ConstPropJoinCode is the Code implementation of ConstProp's join predicate.
func ConstPropJoinCode(args []horn.Value) (horn.Value, bool) {
	return constPropJoin(args[0], args[1]), true
}

const (
	ConstPropLeqName  = "ConstProp.Leq"
	ConstPropJoinName = "ConstProp.Join"
)

// ConstPropFragment returns the symbol declarations and Code bindings for
// the constant-propagation lattice's leq/join.
func ConstPropFragment() ([]horn.SymbolSpec, []horn.CodeSpec) {
	symbols := []horn.SymbolSpec{
		{Name: ConstPropLeqName, Arity: 2, Interpretation: horn.LatticeLeq},
		{Name: ConstPropJoinName, Arity: 3, Interpretation: horn.LatticeJoin},
	}
	code := []horn.CodeSpec{
		{Predicate: ConstPropLeqName, Func: ConstPropLeqCode},
		{Predicate: ConstPropJoinName, Func: ConstPropJoinCode},
	}
	return symbols, code
}
