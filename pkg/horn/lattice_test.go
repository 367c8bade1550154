package horn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatticeRuntimeCodeBackedLeqAndJoin(t *testing.T) {
	symbols := NewSymbolTable()
	leq, join, runtime := declareSignLikeLattice(t, symbols)

	pos, neg, top, bottom := NewCtor("Pos"), NewCtor("Neg"), NewCtor("Top"), NewCtor("Bottom")

	ok, err := runtime.Leq(leq, bottom, pos)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = runtime.Leq(leq, pos, neg)
	require.NoError(t, err)
	assert.False(t, ok)

	joined, err := runtime.Join(join, pos, neg)
	require.NoError(t, err)
	assert.True(t, joined.Equal(top))

	joined, err = runtime.Join(join, pos, pos)
	require.NoError(t, err)
	assert.True(t, joined.Equal(pos))
}

func TestLatticeRuntimeClauseBackedRecursion(t *testing.T) {
	symbols := NewSymbolTable()
	signLeq, signJoin, runtime := declareSignLikeLattice(t, symbols)

	spLeq, err := symbols.Declare("SPLeq", 2, LatticeLeq)
	require.NoError(t, err)
	spJoin, err := symbols.Declare("SPJoin", 3, LatticeJoin)
	require.NoError(t, err)

	s1, s2, s3 := Variable{Name: "S1"}, Variable{Name: "S2"}, Variable{Name: "S3"}
	p1, p2, p3 := Variable{Name: "P1"}, Variable{Name: "P2"}, Variable{Name: "P3"}

	sp := func(s, p Term) Term { return Constructor{Name: "SP", Args: []Term{s, p}} }

	clauses := []Clause{
		{
			Head: Atom{Symbol: spLeq, Args: []Term{sp(s1, p1), sp(s2, p2)}},
			Body: []Atom{
				{Symbol: signLeq, Args: []Term{s1, s2}},
				{Symbol: signLeq, Args: []Term{p1, p2}},
			},
		},
		{
			Head: Atom{Symbol: spJoin, Args: []Term{sp(s1, p1), sp(s2, p2), sp(s3, p3)}},
			Body: []Atom{
				{Symbol: signJoin, Args: []Term{s1, s2, s3}},
				{Symbol: signJoin, Args: []Term{p1, p2, p3}},
			},
		},
	}
	idx := NewClauseIndex(clauses)

	runtime2 := NewLatticeRuntime(symbols, idx, 1000)
	runtime2.RegisterCode(signLeq, func(args []Value) (Value, bool) {
		if args[0].CtorName() == args[1].CtorName() || args[0].CtorName() == "Bottom" || args[1].CtorName() == "Top" {
			return Bool(true), true
		}
		return Value{}, false
	})
	runtime2.RegisterCode(signJoin, func(args []Value) (Value, bool) {
		if args[0].CtorName() == args[1].CtorName() {
			return args[0], true
		}
		if args[0].CtorName() == "Bottom" {
			return args[1], true
		}
		if args[1].CtorName() == "Bottom" {
			return args[0], true
		}
		return NewCtor("Top"), true
	})
	db := NewDatabase(symbols, runtime2)
	runtime2.SetDatabase(db)

	posEven := NewCtor("SP", NewCtor("Pos"), NewCtor("Even"))
	posOdd := NewCtor("SP", NewCtor("Pos"), NewCtor("Odd"))

	ok, err := runtime2.Leq(spLeq, NewCtor("SP", NewCtor("Bottom"), NewCtor("Bottom")), posEven)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = runtime2.Leq(spLeq, posEven, posOdd)
	require.NoError(t, err)
	assert.False(t, ok)

	joined, err := runtime2.Join(spJoin, posEven, posOdd)
	require.NoError(t, err)
	assert.True(t, joined.Equal(NewCtor("SP", NewCtor("Pos"), NewCtor("Top"))))

	_ = runtime // declareSignLikeLattice's runtime is unused by this test
}

func TestLatticeRuntimeBudgetExhaustion(t *testing.T) {
	symbols := NewSymbolTable()
	loop, err := symbols.Declare("Loop", 2, LatticeLeq)
	require.NoError(t, err)
	x, y := Variable{Name: "X"}, Variable{Name: "Y"}
	clause := Clause{
		Head: Atom{Symbol: loop, Args: []Term{x, y}},
		Body: []Atom{{Symbol: loop, Args: []Term{x, y}}},
	}
	idx := NewClauseIndex([]Clause{clause})
	runtime := NewLatticeRuntime(symbols, idx, 5)
	db := NewDatabase(symbols, runtime)
	runtime.SetDatabase(db)

	_, err = runtime.Leq(loop, Int64(1), Int64(2))
	require.Error(t, err)
	evalErr, ok := err.(*EvalError)
	require.True(t, ok)
	assert.Equal(t, LatticeTimeoutOrOverflow, evalErr.Kind)
}

func TestCheckLatticeLaws(t *testing.T) {
	symbols := NewSymbolTable()
	leq, join, runtime := declareSignLikeLattice(t, symbols)
	db := NewDatabase(symbols, runtime)
	runtime.SetDatabase(db)

	bottom := NewCtor("Bottom")
	samples := []Value{bottom, NewCtor("Neg"), NewCtor("Pos"), NewCtor("Top")}
	assert.NoError(t, CheckLatticeLaws(runtime, leq, join, bottom, samples))
}
