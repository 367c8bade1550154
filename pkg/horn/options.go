package horn

import "go.uber.org/zap"

// EvalOptions configures a Solve call. Construct it with defaultEvalOptions
// and apply any EvalOption values passed by the caller; this mirrors the
// functional-options shape used for Mangle's engine.EvalOption (see
// google-mangle/engine/seminaivebottomup.go's EvalOptions/WithCreatedFactLimit).
type EvalOptions struct {
	logger *zap.Logger

	// createdFactLimit caps the number of new tuples a single delta may
	// cause to be derived (google-mangle/engine/seminaivebottomup.go's own
	// createdFactLimit, checked against one round's delta store rather than
	// the whole database); Solve aborts with EvalError once exceeded within
	// one step. Zero means no limit.
	createdFactLimit int

	// totalFactLimit caps the database's cumulative tuple count across the
	// entire Solve run (Mangle's totalFactLimit, an absolute ceiling rather
	// than createdFactLimit's per-round one); Solve aborts with EvalError
	// once exceeded. Zero means no limit.
	totalFactLimit int

	// latticeQueryBudget bounds the number of goal-solving steps a single
	// recursive leq/join query may take before reporting
	// LatticeTimeoutOrOverflow (spec.md §7).
	latticeQueryBudget int

	// shardWorkers records the requested number of concurrent shards.
	// Solve does not read it and always runs on one goroutine; concurrent
	// draining is done by internal/shard.Run, which takes its worker count
	// as an argument.
	shardWorkers int
}

// EvalOption mutates an EvalOptions value.
type EvalOption func(*EvalOptions)

func defaultEvalOptions() *EvalOptions {
	return &EvalOptions{
		logger:             zap.NewNop(),
		latticeQueryBudget: 10000,
		shardWorkers:       1,
	}
}

// WithLogger installs a *zap.Logger; Solve emits one Debug record when it
// terminates, with the run id and the number of deltas processed (plus the
// duration at a fixpoint, or the error). Unset defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) EvalOption {
	return func(o *EvalOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCreatedFactLimit aborts Solve if processing a single popped delta
// derives more than n new tuples, guarding against a single clause blowing
// up combinatorially in one round.
func WithCreatedFactLimit(n int) EvalOption {
	return func(o *EvalOptions) { o.createdFactLimit = n }
}

// WithTotalFactLimit aborts Solve once the database holds more than n
// tuples in total, guarding against a runaway program regardless of how
// the growth is distributed across rounds.
func WithTotalFactLimit(n int) EvalOption {
	return func(o *EvalOptions) { o.totalFactLimit = n }
}

// WithLatticeQueryBudget bounds recursive leq/join solving (spec.md §7
// "LatticeTimeoutOrOverflow"). The default is 10000 goal-solving steps.
func WithLatticeQueryBudget(n int) EvalOption {
	return func(o *EvalOptions) {
		if n > 0 {
			o.latticeQueryBudget = n
		}
	}
}

// WithShardWorkers records a requested number of concurrent shards
// (values <= 0 are ignored). Solve does not use it and always runs
// single-threaded.
func WithShardWorkers(n int) EvalOption {
	return func(o *EvalOptions) {
		if n > 0 {
			o.shardWorkers = n
		}
	}
}
