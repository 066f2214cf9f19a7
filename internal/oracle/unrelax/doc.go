// Package unrelax implements UnrelaxationOracle and, via the variable
// option, its atomic-variable-restricted variant: for a candidate state,
// enumerate single-variable unrelaxations that dominate it, probe the
// policy's solved cost on each under a dominance-compensated cost cap, and
// report a bug if some unrelaxation solves strictly cheaper than that cap
// permits.
//
// Grounded in
// original_source/src/search/policy_testing/metamorphic_oracles/unrelaxation_oracle.{h,cc}
// and atomic_unrelaxation_oracle.{h,cc}.
package unrelax
