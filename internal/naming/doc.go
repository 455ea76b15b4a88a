// Package naming derives everything the pipeline computes from a filename:
// the numeric sort index embedded in a picture name, and the deterministic
// paths of the raw frame and result file produced for it.
package naming
