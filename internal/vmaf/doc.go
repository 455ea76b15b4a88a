// Package vmaf scores a pair of raw frames with the external vmaf tool.
//
// The tool suppresses its console report when stdout is not a TTY, so the
// score is never scraped from captured output: every invocation writes a
// JSON result file (--json --output) which is then parsed.
package vmaf
