// Package media implements the image handling used by the quarantine
// pipeline: decode validation, normalization into the public library under a
// random filename, thumbnail generation, and perceptual fingerprinting.
package media
