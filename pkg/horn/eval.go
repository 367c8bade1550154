package horn

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutcomeKind is the termination reason Solve reports, per spec.md §6
// "Fixpoint, Cancelled, Error(kind, diagnostic)".
type OutcomeKind int

const (
	Fixpoint OutcomeKind = iota
	Cancelled
	Errored
)

func (k OutcomeKind) String() string {
	switch k {
	case Fixpoint:
		return "Fixpoint"
	case Cancelled:
		return "Cancelled"
	case Errored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// Stats records bookkeeping about one Solve run, mirroring the shape of
// Mangle's engine.Stats (google-mangle/engine/seminaivebottomup.go): round
// counts and timing, plus the body-match counter spec.md §8 scenario 4
// requires to demonstrate the semi-naive property is actually in effect.
type Stats struct {
	RunID string

	DeltasProcessed int
	ClauseActivations int
	BodyMatchesAttempted int
	FactsDerived      int

	Duration time.Duration
}

// Result is what Solve returns: the termination reason, the error that
// caused it (non-nil only when Outcome == Errored), and run statistics. The
// Database itself is retrieved separately from the Evaluator, since it
// remains valid (and inspectable) even after a Cancelled or Errored run
// (spec.md §7 "eval errors ... return the partial database plus the
// diagnostic").
type Result struct {
	Outcome OutcomeKind
	Err     error
	Stats   Stats
}

// Evaluator drives the single-threaded, semi-naive bottom-up fixpoint
// computation described in spec.md §4.F over one Database. Construct one
// via Load or NewEvaluator; do not share an Evaluator's Database across
// goroutines (spec.md §5 "single-threaded cooperative within one solver
// instance") except through internal/shard's Run, which serializes every
// step behind one mutex.
type Evaluator struct {
	symbols *SymbolTable
	index   *ClauseIndex
	db      *Database
	runtime *LatticeRuntime
	opts    *EvalOptions
}

// NewEvaluator wires a fresh, empty Database and LatticeRuntime over index
// and returns an Evaluator; initial facts are added with Insert before
// Solve. Callers normally go through Load, which also registers Code
// functions and inserts facts, instead of calling this directly.
func NewEvaluator(symbols *SymbolTable, index *ClauseIndex, options ...EvalOption) *Evaluator {
	opts := defaultEvalOptions()
	for _, o := range options {
		o(opts)
	}
	runtime := NewLatticeRuntime(symbols, index, opts.latticeQueryBudget)
	db := NewDatabase(symbols, runtime)
	runtime.SetDatabase(db)
	return &Evaluator{symbols: symbols, index: index, db: db, runtime: runtime, opts: opts}
}

// Database returns the evaluator's store, readable at any point (including
// after a Cancelled or Errored Solve).
func (e *Evaluator) Database() *Database { return e.db }

// LatticeRuntime returns the evaluator's lattice runtime, so callers can
// register Code functions before Solve runs.
func (e *Evaluator) LatticeRuntime() *LatticeRuntime { return e.runtime }

// Symbols returns the evaluator's symbol table, so callers that only hold a
// predicate name (as Load's caller does) can recover its interned
// PredicateSymbol to query the Database directly.
func (e *Evaluator) Symbols() *SymbolTable { return e.symbols }

// Insert stages an initial fact, per spec.md §4.F step 1. It is meant to be
// called before Solve; calling it afterward simply resumes the fixpoint
// computation from wherever it left off.
func (e *Evaluator) Insert(sym PredicateSymbol, args ...Value) error {
	_, _, err := e.db.Insert(sym, Tuple(args))
	return err
}

// Solve drains the delta queue until it is empty (Fixpoint), ctx is
// cancelled (Cancelled), or a runtime error occurs (Errored), implementing
// the algorithm of spec.md §4.F. Cancellation is polled once per delta pop,
// matching spec.md §5's "only suspension point is the evaluator's own
// work-queue pop".
func (e *Evaluator) Solve(ctx context.Context) Result {
	start := time.Now()
	stats := Stats{RunID: uuid.NewString()}
	logger := e.opts.logger
	budget := e.opts.latticeQueryBudget
	resolver := &AtomResolver{symbols: e.symbols, db: e.db, runtime: e.runtime, budget: &budget}

	for {
		select {
		case <-ctx.Done():
			stats.Duration = time.Since(start)
			logger.Debug("horn: solve cancelled", zap.String("run_id", stats.RunID), zap.Int("deltas_processed", stats.DeltasProcessed))
			return Result{Outcome: Cancelled, Stats: stats}
		default:
		}

		d, ok := e.db.PopDelta()
		if !ok {
			stats.Duration = time.Since(start)
			logger.Debug("horn: solve reached fixpoint", zap.String("run_id", stats.RunID), zap.Int("deltas_processed", stats.DeltasProcessed), zap.Duration("duration", stats.Duration))
			return Result{Outcome: Fixpoint, Stats: stats}
		}
		stats.DeltasProcessed++

		if err := e.step(d, resolver, &stats); err != nil {
			stats.Duration = time.Since(start)
			logger.Debug("horn: solve errored", zap.String("run_id", stats.RunID), zap.Error(err))
			return Result{Outcome: Errored, Err: err, Stats: stats}
		}

		if e.opts.totalFactLimit > 0 && e.db.EstimateFactCount() > e.opts.totalFactLimit {
			err := &EvalError{Kind: EvalArityMismatch, Position: -1, Message: "total-fact limit exceeded"}
			stats.Duration = time.Since(start)
			return Result{Outcome: Errored, Err: err, Stats: stats}
		}
	}
}

// StepOnce pops and fully processes a single delta, returning drained=true
// if the queue was already empty. It is the unit of work internal/shard's
// concurrent runner schedules across goroutines. Unlike Solve's own loop,
// it keeps no Stats across calls and does not enforce the total-fact
// limit.
func (e *Evaluator) StepOnce(ctx context.Context) (drained bool, err error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	d, ok := e.db.PopDelta()
	if !ok {
		return true, nil
	}
	budget := e.opts.latticeQueryBudget
	resolver := &AtomResolver{symbols: e.symbols, db: e.db, runtime: e.runtime, budget: &budget}
	var stats Stats
	return false, e.step(d, resolver, &stats)
}

// step propagates one popped delta through every clause that mentions its
// symbol in the body, per spec.md §4.F step 2.
func (e *Evaluator) step(d Delta, resolver *AtomResolver, stats *Stats) error {
	createdThisStep := 0
	for _, occ := range e.index.ClausesMentioning(d.Symbol) {
		clause := e.index.Clauses[occ.ClauseIdx]
		stats.ClauseActivations++

		boundAtom := clause.Body[occ.Position]
		seed, ok := Match(boundAtom.Args, d.Tuple, NewSubstitution())
		if !ok {
			continue
		}

		substs := []Substitution{seed}
		for j, atom := range clause.Body {
			if j == occ.Position {
				continue
			}
			stats.BodyMatchesAttempted++
			var next []Substitution
			for _, s := range substs {
				// Each body query gets the full lattice query budget.
				*resolver.budget = e.opts.latticeQueryBudget
				ext, err := resolver.Resolve(atom, s)
				if err != nil {
					return err
				}
				next = append(next, ext...)
			}
			substs = next
			if len(substs) == 0 {
				break
			}
		}

		for _, s := range substs {
			args := make(Tuple, len(clause.Head.Args))
			for k, t := range clause.Head.Args {
				v, ok := Groundify(t, s)
				if !ok {
					return &EvalError{Kind: UngroundFunctionInput, Symbol: clause.Head.Symbol, Position: k, Subst: s, Message: "head argument is not ground after body evaluation"}
				}
				args[k] = v
			}
			changed, _, err := e.db.Insert(clause.Head.Symbol, args)
			if err != nil {
				return err
			}
			if changed {
				stats.FactsDerived++
				createdThisStep++
				if e.opts.createdFactLimit > 0 && createdThisStep > e.opts.createdFactLimit {
					return &EvalError{Kind: EvalArityMismatch, Symbol: clause.Head.Symbol, Position: -1, Message: "created-fact limit exceeded within one delta"}
				}
			}
		}
	}
	return nil
}
