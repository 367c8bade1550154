// Package horn implements a bottom-up, semi-naive solver for programs
// expressed as Horn clauses over plain relations and lattice-valued
// predicates. Callers supply an already-elaborated Program (symbols,
// clauses, initial facts and any user-registered lattice functions); the
// package computes its least model and exposes the resulting facts.
//
// horn does not parse any surface syntax and does not perform open-term
// unification or backtracking search: every fact it ever stores is ground,
// and it always computes the smallest database that satisfies every clause,
// never searches for one among several.
package horn

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind discriminates the cases of Value.
type Kind int

const (
	// KindUnit is the nullary value, the package-level Unit.
	KindUnit Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindBigInt
	KindStr
	KindTuple
	KindCtor
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "Unit"
	case KindBool:
		return "Bool"
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindBigInt:
		return "BigInt"
	case KindStr:
		return "Str"
	case KindTuple:
		return "Tuple"
	case KindCtor:
		return "Ctor"
	default:
		return "Unknown"
	}
}

// Value is a ground, algebraic value: the disjoint union described in
// spec.md §3. Integer widths are distinct types; there is no implicit
// coercion between them, and none between a fixed-width int and BigInt.
//
// Value is comparable by Equal, not by Go's == operator: Tuple and Ctor
// carry slices, so a Value must never be used as a map key directly. Code
// that needs Value-keyed maps (the database's lattice-map storage included)
// keys on Value.hashKey instead.
type Value struct {
	kind Kind

	b     bool
	i8    int8
	i16   int16
	i32   int32
	i64   int64
	big   *big.Int
	str   string
	name  string  // constructor name, only for KindCtor
	elems []Value // Tuple/Ctor arguments
}

// Unit is the sole value of Go's nullary case.
var Unit = Value{kind: KindUnit}

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int8, Int16, Int32 and Int64 construct fixed-width integer values.
func Int8(v int8) Value   { return Value{kind: KindInt8, i8: v} }
func Int16(v int16) Value { return Value{kind: KindInt16, i16: v} }
func Int32(v int32) Value { return Value{kind: KindInt32, i32: v} }
func Int64(v int64) Value { return Value{kind: KindInt64, i64: v} }

// BigInt constructs an arbitrary-precision integer value. The argument is
// copied so the caller may keep mutating its own *big.Int afterward.
func BigInt(v *big.Int) Value {
	return Value{kind: KindBigInt, big: new(big.Int).Set(v)}
}

// Str constructs a string value.
func Str(s string) Value { return Value{kind: KindStr, str: s} }

// NewTuple constructs a fixed-arity tuple value.
func NewTuple(elems ...Value) Value {
	return Value{kind: KindTuple, elems: append([]Value(nil), elems...)}
}

// NewCtor constructs a named constructor value, e.g. NewCtor("Pos") for a
// nullary sign constant or NewCtor("Cons", head, tail) for a list cell.
func NewCtor(name string, args ...Value) Value {
	return Value{kind: KindCtor, name: name, elems: append([]Value(nil), args...)}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) Bool() bool { return v.b }
func (v Value) Int64() int64 {
	switch v.kind {
	case KindInt8:
		return int64(v.i8)
	case KindInt16:
		return int64(v.i16)
	case KindInt32:
		return int64(v.i32)
	case KindInt64:
		return v.i64
	}
	return 0
}
func (v Value) BigInt() *big.Int { return v.big }
func (v Value) Str() string      { return v.str }

// CtorName returns the constructor name, or "" if v is not a constructor.
func (v Value) CtorName() string { return v.name }

// Args returns the Tuple or Ctor arguments of v, or nil for any other kind.
// The returned slice must not be mutated.
func (v Value) Args() []Value { return v.elems }

// Arity returns len(v.Args()); 0 for scalar kinds.
func (v Value) Arity() int { return len(v.elems) }

// Equal reports whether v and w are structurally equal. Constructors (and
// tuples) compare equal iff their name (tuples have none), arity and
// argument values all match; integer widths never compare equal across
// kinds, matching spec.md §4.A "no implicit coercion".
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindUnit:
		return true
	case KindBool:
		return v.b == w.b
	case KindInt8:
		return v.i8 == w.i8
	case KindInt16:
		return v.i16 == w.i16
	case KindInt32:
		return v.i32 == w.i32
	case KindInt64:
		return v.i64 == w.i64
	case KindBigInt:
		return v.big.Cmp(w.big) == 0
	case KindStr:
		return v.str == w.str
	case KindTuple:
		return equalElems(v.elems, w.elems)
	case KindCtor:
		return v.name == w.name && equalElems(v.elems, w.elems)
	}
	return false
}

func equalElems(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// hashKey returns a string that is equal for equal Values and (with
// overwhelming probability) distinct otherwise; it is used as the map key
// inside database.go, which needs Value-keyed maps that
// Go's native map cannot provide for slice-bearing Values.
func (v Value) hashKey() string {
	var sb strings.Builder
	v.writeHashKey(&sb)
	return sb.String()
}

func (v Value) writeHashKey(sb *strings.Builder) {
	fmt.Fprintf(sb, "%d|", v.kind)
	switch v.kind {
	case KindUnit:
	case KindBool:
		fmt.Fprintf(sb, "%t", v.b)
	case KindInt8:
		fmt.Fprintf(sb, "%d", v.i8)
	case KindInt16:
		fmt.Fprintf(sb, "%d", v.i16)
	case KindInt32:
		fmt.Fprintf(sb, "%d", v.i32)
	case KindInt64:
		fmt.Fprintf(sb, "%d", v.i64)
	case KindBigInt:
		sb.WriteString(v.big.String())
	case KindStr:
		fmt.Fprintf(sb, "%q", v.str)
	case KindTuple:
		sb.WriteByte('(')
		for _, e := range v.elems {
			e.writeHashKey(sb)
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case KindCtor:
		sb.WriteString(v.name)
		sb.WriteByte('(')
		for _, e := range v.elems {
			e.writeHashKey(sb)
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	}
}

// String renders v for diagnostics and log messages.
func (v Value) String() string {
	switch v.kind {
	case KindUnit:
		return "()"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return fmt.Sprintf("%d", v.Int64())
	case KindBigInt:
		return v.big.String()
	case KindStr:
		return fmt.Sprintf("%q", v.str)
	case KindTuple:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindCtor:
		if len(v.elems) == 0 {
			return v.name
		}
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}
		return v.name + "(" + strings.Join(parts, ", ") + ")"
	default:
		return "<invalid value>"
	}
}
