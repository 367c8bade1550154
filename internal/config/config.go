// Package config loads the solver's on-disk configuration, the way
// hemanta212-scaf/codenerd loads its own YAML settings file: a plain struct
// with yaml tags, unmarshaled with gopkg.in/yaml.v3 and defaulted in Go,
// not by a schema.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hornkit/hornfix/pkg/horn"
)

// Solver holds the tunables a caller of the CLI can set once instead of
// repeating on every invocation.
type Solver struct {
	CreatedFactLimit   int  `yaml:"created_fact_limit"`
	TotalFactLimit     int  `yaml:"total_fact_limit"`
	LatticeQueryBudget int  `yaml:"lattice_query_budget"`
	ShardWorkers       int  `yaml:"shard_workers"`
	Verbose            bool `yaml:"verbose"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Solver {
	return &Solver{LatticeQueryBudget: 10000, ShardWorkers: 1}
}

// Load reads and parses the YAML file at path, filling in Default() for any
// field the file does not set.
func Load(path string) (*Solver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return s, nil
}

// EvalOptions translates the configuration into the EvalOption values
// horn.Load / horn.NewEvaluator expect.
func (s *Solver) EvalOptions() []horn.EvalOption {
	var opts []horn.EvalOption
	if s.CreatedFactLimit > 0 {
		opts = append(opts, horn.WithCreatedFactLimit(s.CreatedFactLimit))
	}
	if s.TotalFactLimit > 0 {
		opts = append(opts, horn.WithTotalFactLimit(s.TotalFactLimit))
	}
	if s.LatticeQueryBudget > 0 {
		opts = append(opts, horn.WithLatticeQueryBudget(s.LatticeQueryBudget))
	}
	if s.ShardWorkers > 0 {
		opts = append(opts, horn.WithShardWorkers(s.ShardWorkers))
	}
	return opts
}
