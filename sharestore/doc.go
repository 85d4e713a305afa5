// Package sharestore provides pluggable storage backends for share-set
// documents.
//
// Documents are opaque JSON blobs keyed by a set name; decoding them is the
// shareparse package's concern. Backends are created from location URIs by
// StoreFactory:
//
//   - file:///var/lib/recovery — local filesystem
//   - s3://bucket/prefix?region=us-east-1 — Amazon S3 or compatible object
//     storage (credentials via access:secret@ userinfo or the default AWS
//     chain)
//   - vault://vault.example.com:8200/secret/recovery?token=... — HashiCorp
//     Vault KV v2
//   - ipfs://127.0.0.1:5001/sharesets — IPFS node MFS
//
// MultiStore aggregates several backends: fetches are served by the first
// backend that has the document, stores go to every available backend.
package sharestore
