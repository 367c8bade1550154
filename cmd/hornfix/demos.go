package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hornkit/hornfix/internal/shard"
	"github.com/hornkit/hornfix/internal/testlattice"
	"github.com/hornkit/hornfix/pkg/horn"
)

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func printTuples(ev *horn.Evaluator, names ...string) {
	db := ev.Database()
	for _, name := range names {
		sym, ok := lookupPrinted(ev, name)
		if !ok {
			continue
		}
		fmt.Printf("%s:\n", name)
		db.Scan(sym, func(t horn.Tuple) bool {
			fmt.Printf("  %v\n", []horn.Value(t))
			return true
		})
	}
}

func lookupPrinted(ev *horn.Evaluator, name string) (horn.PredicateSymbol, bool) {
	return ev.Symbols().Lookup(name)
}

func reportResult(cmd *cobra.Command, result horn.Result) {
	cmd.Printf("outcome: %s (deltas=%d facts=%d clause-activations=%d body-matches=%d duration=%s)\n",
		result.Outcome, result.Stats.DeltasProcessed, result.Stats.FactsDerived,
		result.Stats.ClauseActivations, result.Stats.BodyMatchesAttempted, result.Stats.Duration)
	if result.Err != nil {
		cmd.Printf("error: %v\n", result.Err)
	}
}

var closureCmd = &cobra.Command{
	Use:   "closure",
	Short: "Compute the transitive closure of a small edge relation",
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, z := horn.Variable{Name: "X"}, horn.Variable{Name: "Y"}, horn.Variable{Name: "Z"}
		program := horn.Program{
			Symbols: []horn.SymbolSpec{
				{Name: "E", Arity: 2, Interpretation: horn.Relation},
				{Name: "T", Arity: 2, Interpretation: horn.Relation},
			},
			Clauses: []horn.ClauseSpec{
				{
					Head: horn.AtomSpec{Predicate: "T", Args: []horn.Term{x, y}},
					Body: []horn.AtomSpec{{Predicate: "E", Args: []horn.Term{x, y}}},
				},
				{
					Head: horn.AtomSpec{Predicate: "T", Args: []horn.Term{x, z}},
					Body: []horn.AtomSpec{
						{Predicate: "E", Args: []horn.Term{x, y}},
						{Predicate: "T", Args: []horn.Term{y, z}},
					},
				},
			},
			Facts: edgeFacts("a", "b", "b", "c", "c", "d", "d", "a"),
		}
		ev, err := horn.Load(program, horn.WithLogger(logger), horn.WithLatticeQueryBudget(cfg.LatticeQueryBudget))
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		result := shard.Run(ctx, ev, cfg.ShardWorkers)
		reportResult(cmd, result)
		printTuples(ev, "T")
		return nil
	},
}

func edgeFacts(pairs ...string) []horn.FactSpec {
	facts := make([]horn.FactSpec, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		facts = append(facts, horn.FactSpec{Predicate: "E", Args: []horn.Value{horn.Str(pairs[i]), horn.Str(pairs[i+1])}})
	}
	return facts
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Merge conflicting sign facts about a set of variables through the Sign lattice",
	RunE: func(cmd *cobra.Command, args []string) error {
		signSymbols, signCode := testlattice.SignFragment()
		program := horn.Program{
			Symbols: append(signSymbols, horn.SymbolSpec{
				Name: "Val", Arity: 2, Interpretation: horn.PartialFunction,
				KeyArity: 1, LeqSymbol: testlattice.SignLeqName, JoinSymbol: testlattice.SignJoinName,
				Bottom: &testlattice.SignBottom,
			}),
			Code: signCode,
			Facts: []horn.FactSpec{
				{Predicate: "Val", Args: []horn.Value{horn.Str("x"), testlattice.SignPos}},
				{Predicate: "Val", Args: []horn.Value{horn.Str("x"), testlattice.SignNeg}},
				{Predicate: "Val", Args: []horn.Value{horn.Str("y"), testlattice.SignZero}},
			},
		}
		ev, err := horn.Load(program, horn.WithLogger(logger))
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		result := ev.Solve(ctx)
		reportResult(cmd, result)
		printTuples(ev, "Val")
		return nil
	},
}

var signParityCmd = &cobra.Command{
	Use:   "signparity",
	Short: "Merge facts through the product of the Sign and Parity lattices",
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols, code, clauses := testlattice.SignAndParityFragment()
		bottom := testlattice.SP(testlattice.SignBottom, testlattice.ParityBottom)
		program := horn.Program{
			Symbols: append(symbols, horn.SymbolSpec{
				Name: "Typed", Arity: 2, Interpretation: horn.PartialFunction,
				KeyArity: 1, LeqSymbol: testlattice.SPLeqName, JoinSymbol: testlattice.SPJoinName,
				Bottom: &bottom,
			}),
			Code:    code,
			Clauses: clauses,
			Facts: []horn.FactSpec{
				{Predicate: "Typed", Args: []horn.Value{horn.Str("n"), testlattice.SP(testlattice.SignPos, testlattice.ParityEven)}},
				{Predicate: "Typed", Args: []horn.Value{horn.Str("n"), testlattice.SP(testlattice.SignPos, testlattice.ParityOdd)}},
			},
		}
		ev, err := horn.Load(program, horn.WithLogger(logger))
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		result := ev.Solve(ctx)
		reportResult(cmd, result)
		printTuples(ev, "Typed")
		return nil
	},
}

var intervalCmd = &cobra.Command{
	Use:   "interval",
	Short: "Widen an interval bound forever, demonstrating cancellation",
	Long: `Bound(n, V) is seeded with Interval(0, 0) and a clause repeatedly
widens it by one on either side; the Interval lattice has no Top, so this program never
reaches a fixpoint on its own. It terminates only because --timeout cancels
the solve; expect outcome: Cancelled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		intervalSymbols, intervalCode := testlattice.IntervalFragment()
		k, v, w := horn.Variable{Name: "K"}, horn.Variable{Name: "V"}, horn.Variable{Name: "W"}
		program := horn.Program{
			Symbols: append(intervalSymbols, horn.SymbolSpec{
				Name: "Bound", Arity: 2, Interpretation: horn.PartialFunction,
				KeyArity: 1, LeqSymbol: testlattice.IntervalLeqName, JoinSymbol: testlattice.IntervalJoinName,
				Bottom: &testlattice.IntervalBottom,
			}),
			Code: intervalCode,
			Clauses: []horn.ClauseSpec{
				{
					Head: horn.AtomSpec{Predicate: "Bound", Args: []horn.Term{k, w}},
					Body: []horn.AtomSpec{
						{Predicate: "Bound", Args: []horn.Term{k, v}},
						{Predicate: testlattice.WidenName, Args: []horn.Term{v, w}},
					},
				},
			},
			Facts: []horn.FactSpec{
				{Predicate: "Bound", Args: []horn.Value{horn.Str("n"), testlattice.NewInterval(0, 0)}},
			},
		}
		ev, err := horn.Load(program, horn.WithLogger(logger), horn.WithCreatedFactLimit(0))
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		result := ev.Solve(ctx)
		reportResult(cmd, result)
		if result.Outcome != horn.Cancelled {
			logger.Warn("expected the interval demo to be cancelled", zap.String("outcome", result.Outcome.String()))
		}
		printTuples(ev, "Bound")
		return nil
	},
}
