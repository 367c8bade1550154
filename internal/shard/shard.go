// Package shard provides the optional concurrent evaluation path described
// for the core solver: partitioning predicate symbols by the clause
// dependency graph's strongly connected components, and draining an
// Evaluator's work queue from multiple goroutines via golang.org/x/sync's
// errgroup rather than the teacher's own hand-rolled, dynamically-scaling
// worker pool.
package shard

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hornkit/hornfix/pkg/horn"
)

// Graph is the predicate dependency graph: an edge from P to Q means some
// clause headed P has Q in its body (Q must be derived before P can fire
// again on Q's account). Building it and computing its strongly connected
// components lets a caller recognize which symbols can never depend on one
// another and are therefore safe to advance concurrently.
type Graph struct {
	edges map[string]map[string]bool
	order []string
}

// BuildGraph derives a Graph from clauses: one node per distinct predicate
// name occurring as a head or body symbol.
func BuildGraph(clauses []horn.Clause) *Graph {
	g := &Graph{edges: make(map[string]map[string]bool)}
	addNode := func(name string) {
		if _, ok := g.edges[name]; !ok {
			g.edges[name] = make(map[string]bool)
			g.order = append(g.order, name)
		}
	}
	for _, c := range clauses {
		addNode(c.Head.Symbol.Name)
		for _, b := range c.Body {
			addNode(b.Symbol.Name)
			g.edges[c.Head.Symbol.Name][b.Symbol.Name] = true
		}
	}
	return g
}

// Components returns the graph's strongly connected components via
// Tarjan's algorithm, each component listing its member predicate names.
// Two predicates sharing no component and with no path between their
// components in either direction have no mutual dependency (spec.md §5
// "independent symbols with no mutual dependency in the clause dependency
// graph can be advanced in parallel").
func (g *Graph) Components() [][]string {
	t := &tarjan{
		graph:   g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	for _, n := range g.order {
		if _, seen := t.index[n]; !seen {
			t.strongConnect(n)
		}
	}
	return t.components
}

type tarjan struct {
	graph      *Graph
	index      map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	counter    int
	components [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for w := range t.graph.edges[v] {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, comp)
	}
}

// Run drains e's delta queue using workers concurrent goroutines, each
// repeatedly calling Evaluator.StepOnce. workers <= 1 runs e.Solve directly
// on the calling goroutine.
//
// Every step is serialized behind a single mutex: pkg/horn's Database has
// no per-cell locking of its own, so this is the coarse-grained stand-in
// for the per-symbol-cell lock spec.md §5 describes, not yet a source of
// real parallel speedup. It is still a genuine concurrent harness - the
// design sets up the place a future per-cell lock slots into - and it is
// already observably correct: because each step fully executes inside the
// lock, a worker observing an empty queue is a reliable fixpoint signal
// (no other worker can be mid-step when it checks), so workers can exit
// independently without a separate barrier.
func Run(ctx context.Context, e *horn.Evaluator, workers int) horn.Result {
	if workers <= 1 {
		return e.Solve(ctx)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	var stepErr error

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				mu.Lock()
				drained, err := e.StepOnce(gctx)
				mu.Unlock()
				if err != nil {
					return err
				}
				if drained {
					return nil
				}
			}
		})
	}

	waitErr := g.Wait()
	if waitErr != nil {
		stepErr = waitErr
	}

	switch {
	case stepErr == context.Canceled || stepErr == context.DeadlineExceeded:
		return horn.Result{Outcome: horn.Cancelled}
	case stepErr != nil:
		return horn.Result{Outcome: horn.Errored, Err: stepErr}
	default:
		return horn.Result{Outcome: horn.Fixpoint}
	}
}
