package media

import (
	"fmt"

	"github.com/corona10/goimagehash"
)

// Fingerprint computes the average-hash perceptual fingerprint of the image:
// an 8x8 grayscale reduction thresholded against its mean, encoded as sixteen
// hex digits. Visually similar images produce fingerprints within a small
// Hamming distance of each other.
func Fingerprint(path string) (string, error) {
	img, err := decodeFile(path)
	if err != nil {
		return "", err
	}
	hash, err := goimagehash.AverageHash(img)
	if err != nil {
		return "", fmt.Errorf("average hash: %w", err)
	}
	return fmt.Sprintf("%016x", hash.GetHash()), nil
}

// FingerprintDistance returns the Hamming distance between two fingerprints
// produced by Fingerprint.
func FingerprintDistance(a, b string) (int, error) {
	ha, err := parseFingerprint(a)
	if err != nil {
		return 0, err
	}
	hb, err := parseFingerprint(b)
	if err != nil {
		return 0, err
	}
	return ha.Distance(hb)
}

func parseFingerprint(digest string) (*goimagehash.ImageHash, error) {
	if len(digest) != 16 {
		return nil, fmt.Errorf("fingerprint %q: want 16 hex digits", digest)
	}
	var bits uint64
	if _, err := fmt.Sscanf(digest, "%016x", &bits); err != nil {
		return nil, fmt.Errorf("fingerprint %q: %w", digest, err)
	}
	return goimagehash.NewImageHash(bits, goimagehash.AHash), nil
}
