// Package cli provides the interactive bookshelf command-line client.
//
// It wires configuration, the local session database, the authenticated
// request pipeline, API services, and an interactive REPL. Typical flow:
// log in once, browse and edit the catalog, and let the pipeline renew the
// access token in the background until the refresh token is rejected.
//
// Key features:
//   - Login / Logout / Status
//   - Books: list with filters and sorting, show, add, edit, delete
//   - CSV export and import
//   - Authors, genres and publishers: search and add
//   - Online/offline indicator driven by a health check
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
