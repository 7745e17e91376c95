package store

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a media item.
//
// Items enter as pending (untrusted, file in the quarantine holding area)
// and either become active (validated, file in the public media store) or
// have their row deleted. The persisted enum is deliberately closed; a
// rejected item leaves no row behind.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

var allStatuses = []Status{
	StatusPending,
	StatusActive,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Item represents a media item persisted in SQLite.
//
// Filename is volatile while pending: validation re-encodes the file under a
// fresh random name in the public store and rewrites this field. The original
// uploaded filename is preserved for provenance and title derivation.
type Item struct {
	ID                int64
	Title             string
	Filename          string
	ThumbnailFilename string
	Status            Status
	OriginalFilename  string
	Fingerprint       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	UserID            int64
}

// Tag is a normalized, lower-cased label attached to items many-to-many.
type Tag struct {
	ID   int64
	Name string
}

// User owns media items. The pipeline only ever reads the foreign key.
type User struct {
	ID       int64
	Username string
}

// HealthSummary describes aggregated item counts per lifecycle state.
type HealthSummary struct {
	Total   int
	Pending int
	Active  int
	Tags    int
}
