package ffmpeg

import "regexp"

// Pre-compiled regexes for classifying ffmpeg stderr output. Checked in
// order by [Diagnose]; the first matching pattern wins.
var (
	reMissingInput = regexp.MustCompile(
		`No such file or directory`)

	rePermission = regexp.MustCompile(
		`(?i)Permission denied|Operation not permitted`)

	reDiskFull = regexp.MustCompile(
		`(?i)No space left on device|Disk quota exceeded`)

	reInvalidInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|` +
			`could not find codec parameters|` +
			`Invalid PNG signature|` +
			`moov atom not found|` +
			`Error while decoding`)

	reBadOption = regexp.MustCompile(
		`(?i)Unrecognized option|Option not found|` +
			`Invalid pixel format|Invalid frame size`)
)

// Diagnose maps ffmpeg stderr to a short human-readable cause, or "" when
// nothing recognisable is found.
func Diagnose(stderr string) string {
	switch {
	case stderr == "":
		return ""
	case reMissingInput.MatchString(stderr):
		return "input or output path not found"
	case rePermission.MatchString(stderr):
		return "permission denied"
	case reDiskFull.MatchString(stderr):
		return "disk full"
	case reInvalidInput.MatchString(stderr):
		return "input is not a decodable picture"
	case reBadOption.MatchString(stderr):
		return "ffmpeg rejected the conversion options"
	}
	return ""
}
