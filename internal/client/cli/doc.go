// Package cli provides the interactive todo command-line client.
//
// It wires configuration, the HTTP API client and the services into a REPL.
// Typical flow: prompt for credentials, start a background connectivity
// watcher, then execute user commands until exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or stdin closes. See runREPL for the command list.
package cli
