package horn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T, symbols *SymbolTable) *LatticeRuntime {
	t.Helper()
	runtime := NewLatticeRuntime(symbols, NewClauseIndex(nil), 1000)
	return runtime
}

func declareSignLikeLattice(t *testing.T, symbols *SymbolTable) (leq, join PredicateSymbol, runtime *LatticeRuntime) {
	t.Helper()
	var err error
	leq, err = symbols.Declare("Leq", 2, LatticeLeq)
	require.NoError(t, err)
	join, err = symbols.Declare("Join", 3, LatticeJoin)
	require.NoError(t, err)

	runtime = newTestRuntime(t, symbols)
	bottom, top := NewCtor("Bottom"), NewCtor("Top")
	flatLeq := func(args []Value) (Value, bool) {
		a, b := args[0], args[1]
		if a.CtorName() == b.CtorName() || a.CtorName() == "Bottom" || b.CtorName() == "Top" {
			return Bool(true), true
		}
		return Value{}, false
	}
	flatJoin := func(args []Value) (Value, bool) {
		a, b := args[0], args[1]
		if a.CtorName() == b.CtorName() {
			return a, true
		}
		if a.CtorName() == "Bottom" {
			return b, true
		}
		if b.CtorName() == "Bottom" {
			return a, true
		}
		return top, true
	}
	runtime.RegisterCode(leq, flatLeq)
	runtime.RegisterCode(join, flatJoin)
	_ = bottom
	return leq, join, runtime
}

func TestDatabaseRelationInsertDedup(t *testing.T) {
	symbols := NewSymbolTable()
	e, err := symbols.Declare("E", 2, Relation)
	require.NoError(t, err)
	db := NewDatabase(symbols, nil)

	changed, _, err := db.Insert(e, Tuple{Str("a"), Str("b")})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, _, err = db.Insert(e, Tuple{Str("a"), Str("b")})
	require.NoError(t, err)
	assert.False(t, changed, "inserting the same tuple twice must not re-enqueue a delta")

	assert.Equal(t, 1, db.Count(e))
	assert.Equal(t, 1, db.QueueLen())
}

func TestDatabaseLatticeMapUsesDeclaredLeqJoinPair(t *testing.T) {
	symbols := NewSymbolTable()
	leq, join, runtime := declareSignLikeLattice(t, symbols)

	val, err := symbols.Declare("Val", 2, PartialFunction)
	require.NoError(t, err)
	symbols.SetKeyArity(val, 1)
	bottom := NewCtor("Bottom")
	symbols.SetBottom(val, bottom)
	symbols.SetLattice(val, leq, join)

	db := NewDatabase(symbols, runtime)
	runtime.SetDatabase(db)

	pos, neg, top := NewCtor("Pos"), NewCtor("Neg"), NewCtor("Top")

	changed, stored, err := db.Insert(val, Tuple{Str("x"), pos})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, stored[1].Equal(pos))

	changed, stored, err = db.Insert(val, Tuple{Str("x"), pos})
	require.NoError(t, err)
	assert.False(t, changed, "re-inserting the same already-joined value must not strictly increase")

	changed, stored, err = db.Insert(val, Tuple{Str("x"), neg})
	require.NoError(t, err)
	assert.True(t, changed, "joining Pos with Neg must strictly increase to Top")
	assert.True(t, stored[1].Equal(top))

	v, ok := db.Lookup(val, Tuple{Str("x")})
	require.True(t, ok)
	assert.True(t, v.Equal(top))
}

func TestDatabaseInsertWithoutDeclaredLatticeFails(t *testing.T) {
	symbols := NewSymbolTable()
	val, err := symbols.Declare("Val", 2, PartialFunction)
	require.NoError(t, err)
	symbols.SetKeyArity(val, 1)
	symbols.SetBottom(val, NewCtor("Bottom"))
	// deliberately never call SetLattice

	db := NewDatabase(symbols, NewLatticeRuntime(symbols, NewClauseIndex(nil), 100))
	_, _, err = db.Insert(val, Tuple{Str("x"), NewCtor("Pos")})
	require.Error(t, err)
	loadErr, ok := err.(*LoadError)
	require.True(t, ok)
	assert.Equal(t, MissingInterpretation, loadErr.Kind)
}

func TestDatabaseScanYieldsEveryStoredTuple(t *testing.T) {
	symbols := NewSymbolTable()
	e, err := symbols.Declare("E", 2, Relation)
	require.NoError(t, err)
	db := NewDatabase(symbols, nil)

	_, _, _ = db.Insert(e, Tuple{Str("a"), Str("b")})
	_, _, _ = db.Insert(e, Tuple{Str("b"), Str("c")})

	seen := 0
	db.Scan(e, func(Tuple) bool {
		seen++
		return true
	})
	assert.Equal(t, 2, seen)
}

func TestDatabasePopDeltaDrainsInOrder(t *testing.T) {
	symbols := NewSymbolTable()
	e, err := symbols.Declare("E", 1, Relation)
	require.NoError(t, err)
	db := NewDatabase(symbols, nil)

	_, _, _ = db.Insert(e, Tuple{Str("first")})
	_, _, _ = db.Insert(e, Tuple{Str("second")})

	d1, ok := db.PopDelta()
	require.True(t, ok)
	assert.True(t, d1.Tuple[0].Equal(Str("first")))

	d2, ok := db.PopDelta()
	require.True(t, ok)
	assert.True(t, d2.Tuple[0].Equal(Str("second")))

	_, ok = db.PopDelta()
	assert.False(t, ok)
}
