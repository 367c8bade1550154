package testlattice

import "github.com/hornkit/hornfix/pkg/horn"

// SP builds a SignAndParity element from a Sign and a Parity value.
func SP(sign, parity horn.Value) horn.Value {
	return horn.NewCtor("SP", sign, parity)
}

const (
	SPLeqName  = "SP.Leq"
	SPJoinName = "SP.Join"
)

// SignAndParityFragment returns the declarations, Code bindings and clauses
// for the SignAndParity product lattice: its leq and join are themselves
// Horn clauses whose bodies call the component lattices' leq/join,
// matching spec.md §4.G's own product-lattice example almost literally -
// `Leq(SP(s1,p1), SP(s2,p2))` reduces to `Sign.Leq(s1,s2) ∧
// Parity.Leq(p1,p2)`. Both components happen to be Code-backed here; the
// dispatcher does not care either way (spec.md §4.G "mixing is
// permitted").
func SignAndParityFragment() ([]horn.SymbolSpec, []horn.CodeSpec, []horn.ClauseSpec) {
	signSymbols, signCode := SignFragment()
	paritySymbols, parityCode := ParityFragment()

	symbols := append(signSymbols, paritySymbols...)
	symbols = append(symbols,
		horn.SymbolSpec{Name: SPLeqName, Arity: 2, Interpretation: horn.LatticeLeq},
		horn.SymbolSpec{Name: SPJoinName, Arity: 3, Interpretation: horn.LatticeJoin},
	)
	code := append(signCode, parityCode...)

	s1, p1 := horn.Variable{Name: "S1"}, horn.Variable{Name: "P1"}
	s2, p2 := horn.Variable{Name: "S2"}, horn.Variable{Name: "P2"}
	s3, p3 := horn.Variable{Name: "S3"}, horn.Variable{Name: "P3"}

	spLeq := horn.ClauseSpec{
		Head: horn.AtomSpec{
			Predicate: SPLeqName,
			Args: []horn.Term{
				horn.Constructor{Name: "SP", Args: []horn.Term{s1, p1}},
				horn.Constructor{Name: "SP", Args: []horn.Term{s2, p2}},
			},
		},
		Body: []horn.AtomSpec{
			{Predicate: SignLeqName, Args: []horn.Term{s1, s2}},
			{Predicate: ParityLeqName, Args: []horn.Term{p1, p2}},
		},
	}

	spJoin := horn.ClauseSpec{
		Head: horn.AtomSpec{
			Predicate: SPJoinName,
			Args: []horn.Term{
				horn.Constructor{Name: "SP", Args: []horn.Term{s1, p1}},
				horn.Constructor{Name: "SP", Args: []horn.Term{s2, p2}},
				horn.Constructor{Name: "SP", Args: []horn.Term{s3, p3}},
			},
		},
		Body: []horn.AtomSpec{
			{Predicate: SignJoinName, Args: []horn.Term{s1, s2, s3}},
			{Predicate: ParityJoinName, Args: []horn.Term{p1, p2, p3}},
		},
	}

	return symbols, code, []horn.ClauseSpec{spLeq, spJoin}
}
