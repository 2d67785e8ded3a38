// Package cli provides the interactive TaskLane command-line client.
//
// It wires configuration, the API client and a REPL. A background watcher
// pings the server and flips the prompt between online and offline.
//
// Commands depend on the signed-in role: users list and update the tasks
// assigned to them, managers list users and create tasks. Everyone can
// upload a file, send a contact message and log out.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
