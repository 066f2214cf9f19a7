// Command policytest is the CLI driver for the policy-testing framework:
// it loads an FDR task, wires a policy (local or remote), an oracle, and
// a fuzzing generator into internal/engine, and drives the step loop to
// completion or a configured limit.
package main

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
)

// Exit codes, one per perr.Kind member plus success and "unknown error",
// mirroring SPEC_FULL.md §6's "one named constant per taxonomy member".
const (
	exitOK = iota
	exitResourceExhausted
	exitConfiguration
	exitInputFormat
	exitPolicyTransport
	exitUnsupported
	exitUnknown
)

func main() {
	defer klog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	kind, ok := perr.KindOf(err)
	if !ok {
		return exitUnknown
	}
	switch kind {
	case perr.ResourceExhausted:
		return exitResourceExhausted
	case perr.Configuration:
		return exitConfiguration
	case perr.InputFormat:
		return exitInputFormat
	case perr.PolicyTransport:
		return exitPolicyTransport
	case perr.Unsupported:
		return exitUnsupported
	default:
		return exitUnknown
	}
}
