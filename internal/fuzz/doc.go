// See bias.go for the Bias contract, weighted_choose.go for the sampling
// algorithm, and generator.go for the random-walk test generator.
package fuzz
