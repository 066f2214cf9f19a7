// See relation.go for the Relation contract, table.go for the dense
// store, and codec.go for the zlib-compressed wire format.
package dominance
