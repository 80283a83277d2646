// Package cli provides the interactive possync command-line client.
//
// It wires configuration, the local sqlite store, the request gateway, and
// an interactive REPL that keeps working offline. Typical flow: prompt for
// credentials, start a background connectivity watcher, and execute user
// commands. Mutations made while offline are captured in the sync queue and
// replayed automatically once the watcher sees the backend again.
//
// Key features:
//   - Login / Register / Logout
//   - List and add bills, products, and customers
//   - Update and delete records by id
//   - Status line showing connectivity mode and pending queue depth
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
