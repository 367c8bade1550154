package testlattice

import "github.com/hornkit/hornfix/pkg/horn"

// Interval is an unbounded interval-of-integers lattice: Bottom below every
// Interval(lo, hi), ordered by set inclusion, joined by convex hull. Unlike
// Sign and Parity it has no Top and no ascending-chain condition - exactly
// the shape spec.md §8 scenario 6 needs to exercise cancellation of a
// fixpoint computation that never terminates on its own.
var IntervalBottom = horn.NewCtor("Bottom")

// NewInterval constructs the interval [lo, hi].
func NewInterval(lo, hi int64) horn.Value {
	return horn.NewCtor("Interval", horn.Int64(lo), horn.Int64(hi))
}

func intervalLeq(a, b horn.Value) bool {
	if a.CtorName() == "Bottom" {
		return true
	}
	if b.CtorName() == "Bottom" {
		return false
	}
	return b.Args()[0].Int64() <= a.Args()[0].Int64() && a.Args()[1].Int64() <= b.Args()[1].Int64()
}

func intervalJoin(a, b horn.Value) horn.Value {
	if a.CtorName() == "Bottom" {
		return b
	}
	if b.CtorName() == "Bottom" {
		return a
	}
	lo := a.Args()[0].Int64()
	if o := b.Args()[0].Int64(); o < lo {
		lo = o
	}
	hi := a.Args()[1].Int64()
	if o := b.Args()[1].Int64(); o > hi {
		hi = o
	}
	return NewInterval(lo, hi)
}

// IntervalLeqCode is the Code implementation of Interval's leq predicate.
func IntervalLeqCode(args []horn.Value) (horn.Value, bool) {
	if !intervalLeq(args[0], args[1]) {
		return horn.Value{}, false
	}
	return horn.Bool(true), true
}

// IntervalJoinCode is the Code implementation of Interval's join predicate.
func IntervalJoinCode(args []horn.Value) (horn.Value, bool) {
	return intervalJoin(args[0], args[1]), true
}

// WidenCode maps Interval(lo, hi) to Interval(lo-1, hi+1), one step of an
// ascending chain with no fixed point - used to build programs that would
// never reach quiescence on their own and therefore must rely on
// cancellation to terminate.
func WidenCode(args []horn.Value) (horn.Value, bool) {
	v := args[0]
	if v.CtorName() == "Bottom" {
		return NewInterval(0, 0), true
	}
	return NewInterval(v.Args()[0].Int64()-1, v.Args()[1].Int64()+1), true
}

const (
	IntervalLeqName  = "Interval.Leq"
	IntervalJoinName = "Interval.Join"
	WidenName        = "Interval.Widen"
)

// IntervalFragment returns the symbol declarations and Code bindings for
// the Interval lattice's leq/join, plus its widening step function.
func IntervalFragment() ([]horn.SymbolSpec, []horn.CodeSpec) {
	symbols := []horn.SymbolSpec{
		{Name: IntervalLeqName, Arity: 2, Interpretation: horn.LatticeLeq},
		{Name: IntervalJoinName, Arity: 3, Interpretation: horn.LatticeJoin},
		{Name: WidenName, Arity: 2, Interpretation: horn.Code},
	}
	code := []horn.CodeSpec{
		{Predicate: IntervalLeqName, Func: IntervalLeqCode},
		{Predicate: IntervalJoinName, Func: IntervalJoinCode},
		{Predicate: WidenName, Func: WidenCode},
	}
	return symbols, code
}
