// Package regions computes connected components ("regions") of a set of
// StateIDs under operator-application adjacency, grounded in the teacher's
// prim_kruskal/kruskal.go union-find (path compression plus union by
// rank), generalised from edge-list union to operator-successor union, and
// gridgraph/components.go's bucket-by-root final pass.
package regions
