package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedExtensions lists the image formats accepted for ingestion. Keys are
// lower-case extensions without the leading dot.
var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// AllowedFile reports whether the filename carries an accepted image extension.
func AllowedFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	_, ok := allowedExtensions[ext]
	return ok
}

// RandomFilename returns an unguessable filename preserving the extension of
// the original: a 32-character hex stem plus the lower-cased extension.
func RandomFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	stem := strings.ReplaceAll(uuid.New().String(), "-", "")
	return stem + ext
}

// HoldingName returns the filename an item occupies while it waits in
// quarantine. The prefix keeps holding files visually distinct from
// normalized library files during manual inspection.
func HoldingName(original string) string {
	return "pending_" + RandomFilename(original)
}

// Stem returns the filename without its extension.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ThumbnailName derives the thumbnail filename for a normalized media file.
func ThumbnailName(mediaFilename string) string {
	return fmt.Sprintf("thumb_%s.jpg", Stem(mediaFilename))
}

// IsRandomStem reports whether the filename stem looks like one produced by
// RandomFilename: exactly 32 lower-case hex characters. The filename
// migration command uses this to find legacy names that predate the scheme.
func IsRandomStem(name string) bool {
	stem := Stem(filepath.Base(name))
	if len(stem) != 32 {
		return false
	}
	for _, r := range stem {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
