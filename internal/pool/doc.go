// See pool.go for the Entry/Pool types and file.go for the pool file codec.
package pool
