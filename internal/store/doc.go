// Package store persists media items, tags, and users in SQLite and exposes
// the narrow query surface the pipeline needs: first-pending and
// first-untagged pickers, single-transaction activation, tag get-or-create,
// and the referenced-filename set consumed by the cleanup sweep.
//
// The database is the single source of truth for item lifecycle: a row stays
// pending until Activate commits the whole promotion, so a crash mid-pipeline
// leaves the item eligible for a retry rather than half-promoted. Schema
// changes bump schemaVersion in schema.go; mismatched databases are refused
// rather than migrated.
package store
