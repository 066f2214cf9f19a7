package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugstore"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/config"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/engine"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/fuzz"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/remotepolicy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// watchdogInterval is how often the remote-policy heartbeat pings the
// server while a run is in progress (SPEC_FULL.md §A6).
const watchdogInterval = 5 * time.Second

func newRunCmd() *cobra.Command {
	var (
		inputFile    string
		remoteURL    string
		configFile   string
		maxSteps     int
		maxPoolSize  int
		timeLimit    time.Duration
		poolFilePath string
		bugFilePath  string
		seed         int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fuzz a task and report the bug states discovered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if configFile != "" {
				loaded, err := config.Load(configFile)
				if err != nil {
					return perr.Wrap(perr.Configuration, "loading config file", err)
				}
				cfg = loaded
			}

			t, err := loadTask(inputFile)
			if err != nil {
				return err
			}
			registry := task.NewStateRegistry(t)

			polImpl, remoteClient, err := buildPolicy(remoteURL, registry)
			if err != nil {
				return err
			}
			if remoteClient != nil {
				defer remoteClient.Close()
			}
			pc := policy.NewCache(registry, polImpl)

			dom, err := buildDominance(cfg.Dominance, registry.Size())
			if err != nil {
				return err
			}

			bugs := bugstore.New()
			rng := rand.New(rand.NewSource(seed))
			driver, err := buildOracle(cfg.Oracle, registry, dom, bugs, rng)
			if err != nil {
				return err
			}

			bias, err := buildBias(cfg.Bias, pc)
			if err != nil {
				return err
			}
			gen := fuzz.NewGenerator(registry, bias, rand.New(rand.NewSource(seed+1)), buildGeneratorOptions(cfg, t)...)

			var opts []engine.Option
			if cfg.MemoryPaddingBytes > 0 {
				opts = append(opts, engine.WithMemoryPadding(cfg.MemoryPaddingBytes))
			}
			if maxSteps > 0 {
				opts = append(opts, engine.WithMaxSteps(maxSteps))
			}
			if maxPoolSize > 0 {
				opts = append(opts, engine.WithMaxPoolSize(maxPoolSize))
			}

			if poolFilePath != "" {
				f, err := os.Create(poolFilePath)
				if err != nil {
					return perr.Wrap(perr.InputFormat, "creating pool file", err)
				}
				defer f.Close()
				pf, err := pool.NewFile(f, t)
				if err != nil {
					return err
				}
				opts = append(opts, engine.WithPoolFile(pf))
			}
			if bugFilePath != "" {
				f, err := os.Create(bugFilePath)
				if err != nil {
					return perr.Wrap(perr.InputFormat, "creating bug file", err)
				}
				defer f.Close()
				bf, err := bugstore.NewFile(f, t)
				if err != nil {
					return err
				}
				opts = append(opts, engine.WithBugFile(bf))
			}

			eng := engine.New(registry, pc, pool.New(), gen, driver, bugs, rng, opts...)

			ctx := cmd.Context()
			if timeLimit > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeLimit)
				defer cancel()
			}

			stats, err := runWithWatchdog(ctx, eng, remoteClient)
			if err != nil {
				return err
			}

			klog.InfoS("run complete",
				"steps", stats.Steps,
				"poolSize", stats.PoolSize,
				"bugs", stats.BugCount,
				"poolRegions", len(stats.PoolRegions),
				"bugRegions", len(stats.BugRegions),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input-file", "", "path to the FDR task file (required)")
	cmd.Flags().StringVar(&remoteURL, "remote-policy", "", "WebSocket URL of an external policy server")
	cmd.Flags().StringVar(&configFile, "config", "", "path to a YAML engine/oracle/bias configuration file")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "stop after this many step-loop iterations (0 = unbounded)")
	cmd.Flags().IntVar(&maxPoolSize, "max-pool-size", 0, "stop once the pool reaches this size (0 = unbounded)")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "stop after this much wall-clock time (0 = unbounded)")
	cmd.Flags().StringVar(&poolFilePath, "pool-file", "", "append-only pool file to write")
	cmd.Flags().StringVar(&bugFilePath, "bug-file", "", "append-only bug file to write")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the fuzzing walk and oracle tie-breaks")
	_ = cmd.MarkFlagRequired("input-file")

	return cmd
}

// runWithWatchdog drives the engine's step loop to completion alongside an
// optional remote-policy heartbeat goroutine (SPEC_FULL.md §A6): the two
// run under one errgroup so a dead connection cancels the engine promptly
// instead of leaving it to time out on its own. The core step loop itself
// never touches the errgroup or the watchdog; only this outer driver does.
func runWithWatchdog(ctx context.Context, eng *engine.Engine, remoteClient *remotepolicy.Client) (*engine.Statistics, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	runDone, cancelWatchdog := context.WithCancel(groupCtx)
	defer cancelWatchdog()

	var stats *engine.Statistics
	group.Go(func() error {
		defer cancelWatchdog()
		var err error
		stats, err = eng.Run(groupCtx)
		return err
	})

	if remoteClient != nil {
		group.Go(func() error {
			ticker := time.NewTicker(watchdogInterval)
			defer ticker.Stop()
			for {
				select {
				case <-runDone.Done():
					return nil
				case <-ticker.C:
					if err := remoteClient.Ping(groupCtx); err != nil {
						return err
					}
				}
			}
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
