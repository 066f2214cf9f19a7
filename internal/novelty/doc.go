// See store.go for the Store, varsetIterator, and the pool.Filter adapter.
package novelty
