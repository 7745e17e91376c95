package media_test

import (
	"testing"

	"galleria/internal/media"
)

func TestAllowedFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"animation.gif", true},
		{"shot.png", true},
		{"document.pdf", false},
		{"script.sh", false},
		{"noext", false},
		{".hidden", false},
	}
	for _, tc := range cases {
		if got := media.AllowedFile(tc.name); got != tc.want {
			t.Errorf("AllowedFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRandomFilenameShape(t *testing.T) {
	name := media.RandomFilename("My Photo.JPG")
	if !media.IsRandomStem(name) {
		t.Fatalf("expected 32-hex stem, got %q", name)
	}
	if got := name[len(name)-4:]; got != ".jpg" {
		t.Fatalf("expected lower-cased extension, got %q", got)
	}

	other := media.RandomFilename("My Photo.JPG")
	if name == other {
		t.Fatal("expected distinct random filenames")
	}
}

func TestHoldingNamePrefix(t *testing.T) {
	name := media.HoldingName("cat.png")
	if len(name) < len("pending_") || name[:8] != "pending_" {
		t.Fatalf("expected pending_ prefix, got %q", name)
	}
	if media.IsRandomStem(name) {
		t.Fatalf("holding name should not look like a normalized name: %q", name)
	}
}

func TestThumbnailName(t *testing.T) {
	if got := media.ThumbnailName("deadbeef.png"); got != "thumb_deadbeef.jpg" {
		t.Fatalf("ThumbnailName = %q", got)
	}
}

func TestIsRandomStem(t *testing.T) {
	if !media.IsRandomStem("0123456789abcdef0123456789abcdef.jpg") {
		t.Fatal("expected hex stem to match")
	}
	if media.IsRandomStem("vacation.jpg") {
		t.Fatal("expected legacy name to miss")
	}
	if media.IsRandomStem("0123456789ABCDEF0123456789ABCDEF.jpg") {
		t.Fatal("expected upper-case stem to miss")
	}
}
