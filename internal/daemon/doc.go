// Package daemon assembles the maintenance pipeline into a single
// long-running process with flock-based locking so only one instance works
// on a library at a time.
package daemon
