// Package testlattice supplies the small, concrete lattices spec.md's
// end-to-end scenarios exercise (Sign, Parity, their product, and an
// unbounded Interval lattice used to demonstrate cancellation). None of
// this is imported by pkg/horn: the core package works over any lattice a
// caller declares, and a standard library of concrete lattices is out of
// its scope. This package plays the role of that external caller, the way
// a concrete analysis built on the core would.
package testlattice

import "github.com/hornkit/hornfix/pkg/horn"

// Sign lattice elements: a flat lattice of height 3, Bottom below the
// three incomparable signs, Top above all of them.
var (
	SignBottom = horn.NewCtor("Bottom")
	SignNeg    = horn.NewCtor("Neg")
	SignZero   = horn.NewCtor("Zero")
	SignPos    = horn.NewCtor("Pos")
	SignTop    = horn.NewCtor("Top")
)

// SignElements lists every Sign value, for lattice-law sampling.
var SignElements = []horn.Value{SignBottom, SignNeg, SignZero, SignPos, SignTop}

func signLeq(a, b horn.Value) bool {
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

func signJoin(a, b horn.Value) horn.Value {
	if a.CtorName() == b.CtorName() {
		return a
	}
	if a.CtorName() == "Bottom" {
		return b
	}
	if b.CtorName() == "Bottom" {
		return a
	}
	return SignTop
}

// SignLeqCode is the Code implementation of Sign's leq predicate.
func SignLeqCode(args []horn.Value) (horn.Value, bool) {
	if !signLeq(args[0], args[1]) {
		return horn.Value{}, false
	}
	return horn.Bool(true), true
}

// SignJoinCode is the Code implementation of Sign's join predicate.
func SignJoinCode(args []horn.Value) (horn.Value, bool) {
	return signJoin(args[0], args[1]), true
}

// SignLeqName and SignJoinName are the two predicate names Sign's leq/join
// are registered under, so callers composing a product lattice (see
// signparity.go) can refer to them without repeating string literals.
const (
	SignLeqName  = "Sign.Leq"
	SignJoinName = "Sign.Join"
)

// SignFragment returns the symbol declarations and Code bindings needed to
// use the Sign lattice's leq/join as Code-interpreted predicates.
func SignFragment() ([]horn.SymbolSpec, []horn.CodeSpec) {
	symbols := []horn.SymbolSpec{
		{Name: SignLeqName, Arity: 2, Interpretation: horn.LatticeLeq},
		{Name: SignJoinName, Arity: 3, Interpretation: horn.LatticeJoin},
	}
	code := []horn.CodeSpec{
		{Predicate: SignLeqName, Func: SignLeqCode},
		{Predicate: SignJoinName, Func: SignJoinCode},
	}
	return symbols, code
}
