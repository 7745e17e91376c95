// Package main hosts the Galleria CLI entrypoint and command graph.
//
// The Cobra-based command tree covers library inspection (status), bulk
// admission of image directories into quarantine (load), manual pipeline
// runs without the daemon (process, sweep, retag), filename migration for
// legacy libraries, and configuration scaffolding.
//
// Keep this package lean: new functionality belongs in the internal packages
// first, surfaced here through dedicated commands or flags.
package main
