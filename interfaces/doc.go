// Package interfaces defines the shared domain types, interfaces, and error
// values used across the share recovery backend.
//
// The package contains:
//
// - Share and ShareSet: the decoded (x, y) samples of a secret polynomial
// together with the reconstruction threshold. A ShareSet is validated on
// construction and never mutated afterwards.
//
// - Result: the outcome of a reconstruction run, carrying the recovered
// secret, the indices of shares that disagree with the consensus, and the
// size of the largest consistent group found.
//
// - ShareStore: the interface implemented by pluggable share-set document
// backends (local files, S3, Vault, IPFS).
//
// - Sentinel errors for the failure modes of parsing, storage, and the
// reconstruction core, intended for errors.Is checks after unwrapping.
//
// Keeping these definitions in a dedicated package avoids import cycles
// between the recovery core, the parsers, the storage backends, and the HTTP
// layer.
package interfaces
