package main

import (
	"flag"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// newRootCmd assembles the policytest command tree. klog's own flag set is
// folded into cobra's persistent flags (the standard way to combine
// klog/glog-style flag.FlagSet globals with a cobra-based CLI), matching
// the klog.InitFlags(nil)+flag.Parse() idiom used throughout the
// intel-platform-aware-scheduling examples, adapted for cobra.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "policytest",
		Short:         "Metamorphic bug-state testing for FDR planning policies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(newRunCmd(), newReplayPoolCmd(), newReplayBugsCmd())
	return root
}
