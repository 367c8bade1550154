package testlattice

import "github.com/hornkit/hornfix/pkg/horn"

// Parity lattice elements: the same flat shape as Sign, over Even/Odd.
var (
	ParityBottom = horn.NewCtor("Bottom")
	ParityEven   = horn.NewCtor("Even")
	ParityOdd    = horn.NewCtor("Odd")
	ParityTop    = horn.NewCtor("Top")
)

// ParityElements lists every Parity value, for lattice-law sampling.
var ParityElements = []horn.Value{ParityBottom, ParityEven, ParityOdd, ParityTop}

func parityLeq(a, b horn.Value) bool {
	if a.CtorName() == b.CtorName() {
		return true
	}
	if a.CtorName() == "Bottom" {
		return true
	}
	if b.CtorName() == "Top" {
		return true
	}
	return false
}

func parityJoin(a, b horn.Value) horn.Value {
	if a.CtorName() == b.CtorName() {
		return a
	}
	if a.CtorName() == "Bottom" {
		return b
	}
	if b.CtorName() == "Bottom" {
		return a
	}
	return ParityTop
}

// ParityLeqCode is the Code implementation of Parity's leq predicate.
func ParityLeqCode(args []horn.Value) (horn.Value, bool) {
	if !parityLeq(args[0], args[1]) {
		return horn.Value{}, false
	}
	return horn.Bool(true), true
}

// ParityJoinCode is the Code implementation of Parity's join predicate.
func ParityJoinCode(args []horn.Value) (horn.Value, bool) {
	return parityJoin(args[0], args[1]), true
}

const (
	ParityLeqName  = "Parity.Leq"
	ParityJoinName = "Parity.Join"
)

// ParityFragment returns the symbol declarations and Code bindings needed
// to use the Parity lattice's leq/join as Code-interpreted predicates.
func ParityFragment() ([]horn.SymbolSpec, []horn.CodeSpec) {
	symbols := []horn.SymbolSpec{
		{Name: ParityLeqName, Arity: 2, Interpretation: horn.LatticeLeq},
		{Name: ParityJoinName, Arity: 3, Interpretation: horn.LatticeJoin},
	}
	code := []horn.CodeSpec{
		{Predicate: ParityLeqName, Func: ParityLeqCode},
		{Predicate: ParityJoinName, Func: ParityJoinCode},
	}
	return symbols, code
}
