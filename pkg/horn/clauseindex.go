package horn

// bodyOccurrence records that clause Clauses[ClauseIdx]'s body mentions a
// symbol at body position Position.
type bodyOccurrence struct {
	ClauseIdx int
	Position  int
}

// ClauseIndex holds, for every predicate symbol, the clauses whose body
// mentions it (with the body position) and the clauses whose head is it
// (spec.md §4.E). Clauses themselves are stored once, in Clauses, and
// referenced by index so the index and the clauses stay immutable and
// shared after load (spec.md §9 "Shared, immutable clause / symbol graph").
type ClauseIndex struct {
	Clauses []Clause

	bodyOccurrences map[string][]bodyOccurrence
	headClauses     map[string][]int
}

// NewClauseIndex builds an index over clauses. It does not validate range
// restriction; callers should run that check (see atom.go rangeRestricted)
// before relying on the index for evaluation.
func NewClauseIndex(clauses []Clause) *ClauseIndex {
	idx := &ClauseIndex{
		Clauses:         clauses,
		bodyOccurrences: make(map[string][]bodyOccurrence),
		headClauses:     make(map[string][]int),
	}
	for ci, c := range clauses {
		idx.headClauses[c.Head.Symbol.Name] = append(idx.headClauses[c.Head.Symbol.Name], ci)
		for pos, atom := range c.Body {
			name := atom.Symbol.Name
			idx.bodyOccurrences[name] = append(idx.bodyOccurrences[name], bodyOccurrence{ClauseIdx: ci, Position: pos})
		}
	}
	return idx
}

// ClausesMentioning returns every (clause, body position) pair where sym
// occurs in the clause's body.
func (idx *ClauseIndex) ClausesMentioning(sym PredicateSymbol) []bodyOccurrence {
	return idx.bodyOccurrences[sym.Name]
}

// ClausesHeaded returns the clauses whose head predicate is sym.
func (idx *ClauseIndex) ClausesHeaded(sym PredicateSymbol) []Clause {
	out := make([]Clause, 0, len(idx.headClauses[sym.Name]))
	for _, ci := range idx.headClauses[sym.Name] {
		out = append(out, idx.Clauses[ci])
	}
	return out
}
