// Package task: see task.go and registry.go for the FDR task model and the
// state-interning registry.
package task
