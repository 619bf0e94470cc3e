// Package client talks to the bookshelf resource server over HTTP.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Ping,
//     books list/get/create/update/delete, CSV export and import, and the
//     author, genre and publisher catalogs.
//  2. A concrete implementation (see HTTPClient) that builds URLs from
//     configured Endpoints, compiles list queries, and sends every request
//     through the authenticated pipeline.
//
// # Error Handling
//
// Conditions the CLI reacts to are exposed as sentinel errors matched with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound. The underlying
// pipeline error stays in the chain.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and timeouts.
package client
