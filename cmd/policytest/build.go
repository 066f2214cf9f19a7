package main

import (
	"math/rand"
	"os"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/config"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/dominance"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/engine"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/fdr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/fuzz"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/heuristic"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/novelty"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle/iterative"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle/unrelax"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/remotepolicy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

func loadTask(path string) (*task.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrap(perr.InputFormat, "opening input file", err)
	}
	defer f.Close()
	return fdr.Parse(f)
}

// buildDominance loads a compressed dominance table from cfg.File, or
// builds a table sized to size that carries no dominance information
// (NegativeInfinity off the diagonal, 0 on it) when cfg.File is empty.
func buildDominance(cfg config.DominanceConfig, size int) (dominance.Relation, error) {
	if cfg.File == "" {
		return dominance.NewTableDominance(size)
	}
	data, err := os.ReadFile(cfg.File)
	if err != nil {
		return nil, perr.Wrap(perr.InputFormat, "reading dominance file", err)
	}
	return dominance.Decode(data)
}

func buildBias(cfg config.BiasConfig, pc *policy.Cache) (fuzz.Bias, error) {
	switch cfg.Type {
	case "", "neutral":
		return fuzz.NeutralBias{}, nil
	case "loopiness":
		return fuzz.NewLoopinessBias(), nil
	case "plan_length":
		return &fuzz.PlanLengthBias{Cache: pc}, nil
	default:
		return nil, perr.New(perr.Configuration, "unknown bias type: "+cfg.Type)
	}
}

func buildGeneratorOptions(cfg *config.Config, t *task.Task) []fuzz.GeneratorOption {
	var opts []fuzz.GeneratorOption
	if cfg.MaxWalkLength > 0 {
		opts = append(opts, fuzz.WithMaxWalkLength(cfg.MaxWalkLength))
	}
	if cfg.BiasBudget > 0 {
		opts = append(opts, fuzz.WithBiasBudget(cfg.BiasBudget))
	}
	if cfg.NoveltyWidth > 0 {
		domains := make([]int, t.NumVariables())
		for v := range domains {
			domains[v] = t.VariableDomainSize(v)
		}
		store := novelty.NewStore(cfg.NoveltyWidth, domains)
		opts = append(opts, fuzz.WithFilter(novelty.Filter{Store: store}))
	}
	return opts
}

func buildLookahead(cfg config.LookaheadConfig) iterative.Option {
	comp := iterative.CompGPlusH
	if cfg.Comparator == "h" {
		comp = iterative.CompH
	}
	maxVisits, maxComparisons := cfg.MaxVisits, cfg.MaxComparisons
	if maxVisits <= 0 {
		maxVisits = 64
	}
	if maxComparisons <= 0 {
		maxComparisons = 8
	}
	return iterative.WithLookahead(heuristic.Blind{}, comp, maxVisits, maxComparisons)
}

// buildOracle constructs the engine.Driver named by cfg.Type, recursing
// for "composite".
func buildOracle(cfg config.OracleConfig, registry *task.StateRegistry, dom dominance.Relation, bugs oracle.Engine, rng *rand.Rand) (engine.Driver, error) {
	switch cfg.Type {
	case "", "iterative":
		opts := []iterative.Option{
			iterative.WithEngine(bugs),
			iterative.WithReportParents(cfg.ReportParents),
			iterative.WithConsiderIntermediateStates(cfg.ConsiderIntermediate),
			iterative.WithUpdateParents(cfg.UpdateParents),
		}
		if cfg.MaxStateComparisons > 0 {
			opts = append(opts, iterative.WithMaxStateComparisons(cfg.MaxStateComparisons))
		}
		if cfg.Lookahead.Enabled {
			opts = append(opts, buildLookahead(cfg.Lookahead))
		}
		return iterative.New(registry, dom, opts...), nil

	case "unrelax":
		perState := cfg.UnrelaxOperationsPerState
		if perState <= 0 {
			perState = 4
		}
		opts := []unrelax.Option{
			unrelax.WithReportParents(cfg.ReportParents),
			unrelax.WithConsiderIntermediateStates(cfg.ConsiderIntermediate),
		}
		if cfg.UnrelaxVariable >= 0 {
			opts = append(opts, unrelax.WithVariable(cfg.UnrelaxVariable))
		}
		return unrelax.New(registry, dom, rng, perState, opts...), nil

	case "composite":
		if len(cfg.Composite) == 0 {
			return nil, perr.New(perr.Configuration, "composite oracle requires at least one sub-oracle entry")
		}
		subs := make([]oracle.SubOracle, 0, len(cfg.Composite))
		for _, sub := range cfg.Composite {
			driver, err := buildOracle(sub, registry, dom, bugs, rng)
			if err != nil {
				return nil, err
			}
			if _, nested := driver.(*oracle.CompositeOracle); nested {
				return nil, perr.New(perr.Configuration, "composite sub-oracle type cannot nest a composite oracle")
			}
			so, ok := driver.(oracle.SubOracle)
			if !ok {
				return nil, perr.New(perr.Configuration, "composite sub-oracle does not implement oracle.SubOracle")
			}
			subs = append(subs, so)
		}
		return oracle.NewCompositeOracle(subs)

	default:
		return nil, perr.New(perr.Unsupported, "unknown oracle type: "+cfg.Type)
	}
}

// buildPolicy resolves the policy.Implementation under test: a remote
// WebSocket-backed policy when remoteURL is set, otherwise the built-in
// greedy local policy (SPEC_FULL.md's "CLI has something to run out of
// the box" note). The returned closer, if non-nil, must be closed by the
// caller once the run completes.
func buildPolicy(remoteURL string, registry *task.StateRegistry) (policy.Implementation, *remotepolicy.Client, error) {
	if remoteURL == "" {
		return greedyLocalPolicy{registry: registry}, nil, nil
	}
	client, err := remotepolicy.Dial(remoteURL, registry, dialTimeout)
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}
