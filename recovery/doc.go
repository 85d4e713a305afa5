// Package recovery implements threshold secret reconstruction with outlier
// detection for Shamir-style share sets.
//
// Given n shares and a threshold k, any k genuine shares determine the
// degree-(k-1) secret polynomial. When some shares may be corrupted, the
// package exhaustively evaluates every size-k subset of the set: each subset
// defines a candidate polynomial by Lagrange interpolation, and the candidate
// is scored by how many of the n shares lie exactly on it. The secret the
// largest consensus agrees on is reported, together with the shares that
// disagree with it.
//
// All arithmetic is exact. Interpolation accumulates the Lagrange sum in a
// big.Rat and extracts an integer only after verifying the final denominator
// divides the numerator; per-term truncating division would silently produce
// wrong secrets whenever an intermediate product is not evenly divisible.
//
// The search is deliberately brute force, O(C(n,k) * n * k) big-integer
// operations. It can be sharded across goroutines (see Reconstructor's
// worker setting); the parallel search returns bit-identical results to the
// sequential one. Cancellation is honored between subset evaluations through
// the context passed to Reconstruct.
package recovery
