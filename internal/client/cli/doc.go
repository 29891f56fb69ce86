// Package cli provides the interactive AuditDesk console.
//
// It wires configuration, the local database, the gRPC client and the
// register engine behind a small REPL. Typical flow: restore the stored
// session or prompt for credentials, load the register of the selected
// category, start a background connectivity watcher, then execute user
// commands until exit.
//
// Rows are numbered from 1 in the order of the current filtered view.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
