// Package logging configures slog output for the daemon and CLI.
//
// It provides a compact console handler for interactive use, a JSON handler
// for machine consumption, attribute helper aliases so call sites stay terse,
// and context-derived fields (item_id, task) for correlating log lines with
// units of work.
package logging
