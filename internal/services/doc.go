// Package services holds cross-cutting helpers shared by the pipeline tasks:
// the error taxonomy used to classify item-level failures, and context
// annotation keys that thread item/task correlation into structured logs.
//
// The sentinel errors here are the single vocabulary for failure handling.
// Terminal markers (ErrCorruptMedia, ErrMissingSource) resolve by deleting
// the offending row; everything else is either degraded (ErrExternalService)
// or retried on the next tick (ErrTransient). No error here is ever fatal to
// the daemon process.
package services
