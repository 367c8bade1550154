package horn

// Tuple is a ground argument list for one fact of some predicate symbol.
type Tuple []Value

func (t Tuple) hashKey() string {
	var key string
	for _, v := range t {
		key += v.hashKey() + "\x00"
	}
	return key
}

func (t Tuple) equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if !t[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Delta is a newly-inserted ground atom awaiting propagation through the
// clause body positions it can satisfy (spec.md §3 "Delta").
type Delta struct {
	Symbol PredicateSymbol
	Tuple  Tuple
}

// cell is the per-symbol storage. Exactly one of relation/latticeMap is
// non-nil, chosen at construction time by the symbol's declared
// interpretation (spec.md §4.C "Two storage shapes").
type cell struct {
	keyArity int

	// relation storage: a deduplicated set of tuples.
	relation map[string]Tuple

	// latticeMap storage: key-tuple -> current joined value.
	latticeMap map[string]latticeEntry
}

type latticeEntry struct {
	key   Tuple
	value Value
}

func newSetCell() *cell {
	return &cell{relation: make(map[string]Tuple)}
}

func newLatticeCell(keyArity int) *cell {
	return &cell{keyArity: keyArity, latticeMap: make(map[string]latticeEntry)}
}

// Database is the per-predicate relational store shared by a running
// Evaluator: a set-relation shape for Relation symbols, a lattice-map shape
// for LatticeLeq/LatticeJoin/PartialFunction symbols (spec.md §4.C).
//
// Database is not safe for concurrent use from multiple goroutines
// (internal/shard serializes every step on one shared Database behind a
// single mutex).
type Database struct {
	symbols *SymbolTable
	runtime *LatticeRuntime
	cells   map[string]*cell
	queue   []Delta
	counts  map[string]int
}

// NewDatabase returns an empty database for the given symbol table. runtime
// supplies the join operation used to merge lattice-map inserts; it may be
// nil if the program declares no lattice-map symbols.
func NewDatabase(symbols *SymbolTable, runtime *LatticeRuntime) *Database {
	return &Database{
		symbols: symbols,
		runtime: runtime,
		cells:   make(map[string]*cell),
		counts:  make(map[string]int),
	}
}

func (db *Database) cellFor(sym PredicateSymbol) *cell {
	c, ok := db.cells[sym.Name]
	if ok {
		return c
	}
	if db.symbols.Interpretation(sym).IsLatticeMap() {
		c = newLatticeCell(db.symbols.KeyArity(sym))
	} else {
		c = newSetCell()
	}
	db.cells[sym.Name] = c
	return c
}

// Insert adds tuple as a fact of sym, applying the symbol's storage shape.
// For a Relation symbol it returns (true, tuple) iff the tuple was not
// already present. For a lattice-map symbol it joins tuple's trailing value
// argument into whatever is already stored at the leading key columns and
// returns (true, joined) iff the joined value strictly increased under leq
// (spec.md §3 "Database cell lifecycle"); a successful insert appends a
// Delta to the work queue.
func (db *Database) Insert(sym PredicateSymbol, tuple Tuple) (changed bool, stored Tuple, err error) {
	if len(tuple) != db.symbols.Arity(sym) {
		return false, nil, &EvalError{
			Kind:    EvalArityMismatch,
			Symbol:  sym,
			Position: -1,
			Message: "derived tuple arity disagrees with symbol arity",
		}
	}
	c := db.cellFor(sym)
	if c.relation != nil {
		key := tuple.hashKey()
		if _, exists := c.relation[key]; exists {
			return false, tuple, nil
		}
		c.relation[key] = tuple
		db.counts[sym.Name]++
		db.queue = append(db.queue, Delta{Symbol: sym, Tuple: tuple})
		return true, tuple, nil
	}

	leqSym, joinSym, hasLattice := db.symbols.Lattice(sym)
	if !hasLattice {
		return false, nil, &LoadError{
			Kind:    MissingInterpretation,
			Symbol:  sym,
			Clause:  -1,
			Message: "lattice-map symbol has no declared leq/join pair",
		}
	}

	keyArity := c.keyArity
	key := Tuple(tuple[:keyArity])
	keyHash := key.hashKey()
	incoming := tuple[keyArity]

	existing, ok := c.latticeMap[keyHash]
	var joined Value
	if !ok {
		joined = incoming
	} else {
		j, err := db.runtime.Join(joinSym, existing.value, incoming)
		if err != nil {
			return false, nil, err
		}
		joined = j
	}

	if ok {
		leqOld, err := db.runtime.Leq(leqSym, joined, existing.value)
		if err != nil {
			return false, nil, err
		}
		if leqOld {
			// joined is <= existing.value, i.e. no strict increase.
			return false, append(append(Tuple{}, key...), existing.value), nil
		}
	}

	merged := append(append(Tuple{}, key...), joined)
	c.latticeMap[keyHash] = latticeEntry{key: append(Tuple{}, key...), value: joined}
	if !ok {
		db.counts[sym.Name]++
	}
	db.queue = append(db.queue, Delta{Symbol: sym, Tuple: merged})
	return true, merged, nil
}

// Contains reports whether tuple is already a known fact of sym (used by
// invariant checks; the evaluator relies on Insert's changed result
// instead).
func (db *Database) Contains(sym PredicateSymbol, tuple Tuple) bool {
	c, ok := db.cells[sym.Name]
	if !ok {
		return false
	}
	if c.relation != nil {
		_, exists := c.relation[tuple.hashKey()]
		return exists
	}
	keyArity := c.keyArity
	entry, ok := c.latticeMap[Tuple(tuple[:keyArity]).hashKey()]
	if !ok {
		return false
	}
	return entry.value.Equal(tuple[keyArity])
}

// Scan calls yield for every tuple currently stored for sym. For a
// lattice-map symbol, each yielded tuple is key...++value.
func (db *Database) Scan(sym PredicateSymbol, yield func(Tuple) bool) {
	c, ok := db.cells[sym.Name]
	if !ok {
		return
	}
	if c.relation != nil {
		for _, t := range c.relation {
			if !yield(t) {
				return
			}
		}
		return
	}
	for _, e := range c.latticeMap {
		full := append(append(Tuple{}, e.key...), e.value)
		if !yield(full) {
			return
		}
	}
}

// Lookup performs a lattice-map point lookup by key prefix, returning the
// stored value and whether an entry exists. A missing entry is ⊥ by
// convention (spec.md §4.F "a missing entry is treated as ⊥"); the caller
// decides what "missing" means using the symbol's declared bottom.
func (db *Database) Lookup(sym PredicateSymbol, key Tuple) (Value, bool) {
	c, ok := db.cells[sym.Name]
	if !ok {
		return Value{}, false
	}
	e, ok := c.latticeMap[key.hashKey()]
	return e.value, ok
}

// PopDelta removes and returns the oldest pending delta, and whether the
// queue was non-empty (spec.md §4.F "Step. Pop a delta").
func (db *Database) PopDelta() (Delta, bool) {
	if len(db.queue) == 0 {
		return Delta{}, false
	}
	d := db.queue[0]
	db.queue = db.queue[1:]
	return d, true
}

// QueueLen reports the number of pending deltas.
func (db *Database) QueueLen() int { return len(db.queue) }

// Count returns the total number of derived tuples stored for sym (spec.md
// §6 "ask for the total count of derived tuples per symbol").
func (db *Database) Count(sym PredicateSymbol) int { return db.counts[sym.Name] }

// EstimateFactCount returns the total number of derived tuples across all
// symbols, used to enforce EvalOptions fact-count budgets.
func (db *Database) EstimateFactCount() int {
	total := 0
	for _, n := range db.counts {
		total += n
	}
	return total
}
