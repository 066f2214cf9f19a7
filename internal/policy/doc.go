// See cost.go for the PolicyCost lattice, insert_sorted.go for the sorted
// policy-parent edge helper, and policy.go for the memoising Cache.
package policy
