// Package daemon coordinates the long-running podforge process.
//
// It wires configuration, project storage, and the workflow manager into a
// single lifecycle with flock-based locking to prevent multiple instances.
// Pipeline and retry logic live in their own packages; the daemon focuses on
// startup, shutdown, and status reporting.
package daemon
