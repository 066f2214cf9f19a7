// Package oracle defines the Oracle contract (TestDriver/Test), the
// TestResult combination rule, and CompositeOracle. See base.go for the
// contract and default test_driver algorithm, and composite.go for the
// sub-oracle combinator.
package oracle
