// Package tagging infers descriptive tags for library images by chaining a
// vision model description with a text-model tag extraction, then sanitizing
// the result into a small canonical set.
package tagging
