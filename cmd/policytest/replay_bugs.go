package main

import (
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugstore"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/regions"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

func newReplayBugsCmd() *cobra.Command {
	var inputFile, bugFilePath string

	cmd := &cobra.Command{
		Use:   "replay-bugs",
		Short: "Load a bug file and log its bug count and bug-region count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := loadTask(inputFile)
			if err != nil {
				return err
			}
			registry := task.NewStateRegistry(t)

			bugs, err := bugstore.LoadFile(t, registry, bugFilePath)
			if err != nil {
				return err
			}

			bugStates := bugs.BugStates()
			bugRegions := regions.Compute(registry, bugStates)
			klog.InfoS("bug replay complete",
				"bugs", len(bugStates),
				"bugRegions", len(bugRegions),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input-file", "", "path to the FDR task file (required)")
	cmd.Flags().StringVar(&bugFilePath, "bug-file", "", "path to the bug file to replay (required)")
	_ = cmd.MarkFlagRequired("input-file")
	_ = cmd.MarkFlagRequired("bug-file")

	return cmd
}
