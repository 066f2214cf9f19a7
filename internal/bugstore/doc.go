// Package bugstore implements the write-once bug log: an in-memory
// StateID -> oracle.TestResult map with monotone upgrade, plus its on-disk
// three-line-record file format (shared header codec with internal/pool
// via internal/fdrfile).
//
// Grounded in original_source/src/search/policy_testing/bug_store.h/.cc.
package bugstore
