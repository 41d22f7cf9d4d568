// Package testutil provides deterministic test data for the store.
//
// This package is intended for use in tests, benchmarks and the orderstore
// generator only.
//
//	rng := testutil.NewRNG(42)
//	gen := testutil.NewOrderGenerator(rng, rng.Addresses(1000), 5000)
//	o := gen.Next()
package testutil
