package main

import (
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/pool"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/regions"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

func newReplayPoolCmd() *cobra.Command {
	var inputFile, poolFilePath string

	cmd := &cobra.Command{
		Use:   "replay-pool",
		Short: "Load and re-validate a pool file against a task, printing region statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := loadTask(inputFile)
			if err != nil {
				return err
			}
			registry := task.NewStateRegistry(t)

			p, err := pool.LoadFile(t, registry, poolFilePath)
			if err != nil {
				return err
			}

			poolRegions := regions.Compute(registry, p.States())
			klog.InfoS("pool replay complete",
				"poolSize", p.Len(),
				"poolRegions", len(poolRegions),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input-file", "", "path to the FDR task file (required)")
	cmd.Flags().StringVar(&poolFilePath, "pool-file", "", "path to the pool file to replay (required)")
	_ = cmd.MarkFlagRequired("input-file")
	_ = cmd.MarkFlagRequired("pool-file")

	return cmd
}
