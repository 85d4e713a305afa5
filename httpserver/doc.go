// Package httpserver provides the HTTP API for the share recovery service.
//
// Endpoints:
//
//	POST /api/recover
//	    Body: a share-set JSON document (see package shareparse).
//	    Response: JSON reconstruction result, or 400 for malformed
//	    documents and 422 when no sufficient consensus exists.
//
//	GET /api/sets/{set_name}/recover
//	    Fetches the named document from the configured share store, then
//	    reconstructs as above. 404 when the store has no such set.
//
//	GET /livez, /readyz, /drain, /undrain
//	    Lifecycle endpoints for load balancers and orchestration.
//
// All routes log through the structured request-logging middleware. A
// Prometheus metrics server and a pprof mount are available behind
// configuration.
package httpserver
