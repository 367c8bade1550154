package horn

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal ints", Int64(3), Int64(3), true},
		{"different ints", Int64(3), Int64(4), false},
		{"different widths never equal", Int64(3), Int32(3), false},
		{"equal strings", Str("x"), Str("x"), true},
		{"different strings", Str("x"), Str("y"), false},
		{"equal bigints", BigInt(big.NewInt(9000000000)), BigInt(big.NewInt(9000000000)), true},
		{"equal ctors", NewCtor("Pos"), NewCtor("Pos"), true},
		{"different ctor names", NewCtor("Pos"), NewCtor("Neg"), false},
		{"different ctor arity", NewCtor("Pair", Int64(1)), NewCtor("Pair", Int64(1), Int64(2)), false},
		{"nested ctors", NewCtor("SP", NewCtor("Pos"), NewCtor("Even")), NewCtor("SP", NewCtor("Pos"), NewCtor("Even")), true},
		{"nested ctors differ", NewCtor("SP", NewCtor("Pos"), NewCtor("Even")), NewCtor("SP", NewCtor("Neg"), NewCtor("Even")), false},
		{"tuple vs ctor never equal", NewTuple(Int64(1)), NewCtor("Const", Int64(1)), false},
		{"unit equals unit", Unit, Unit, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestValueHashKeyAgreesWithEqual(t *testing.T) {
	a := NewCtor("SP", NewCtor("Pos"), Int64(4))
	b := NewCtor("SP", NewCtor("Pos"), Int64(4))
	c := NewCtor("SP", NewCtor("Neg"), Int64(4))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.hashKey(), b.hashKey())
	assert.NotEqual(t, a.hashKey(), c.hashKey())
}

func TestTupleHashKeyDistinguishesOrder(t *testing.T) {
	t1 := Tuple{Str("a"), Str("b")}
	t2 := Tuple{Str("b"), Str("a")}
	assert.NotEqual(t, t1.hashKey(), t2.hashKey())
	assert.True(t, t1.equal(Tuple{Str("a"), Str("b")}))
	assert.False(t, t1.equal(t2))
}
