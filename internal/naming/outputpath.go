package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FrameExt is the extension of converted raw frames.
const FrameExt = ".yuv"

// Stem returns name without its final extension ("a.b.png" -> "a.b").
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// FramePath returns where the raw frame converted from picture name lands:
//
//	<frameDir>/<stem>.yuv
//
// Names accepted by one extension filter share the same suffix, so distinct
// pictures always get distinct frame paths.
func FramePath(frameDir, name string) string {
	return filepath.Join(frameDir, Stem(name)+FrameExt)
}

// ResultPath returns the scorer result file for the pair (left, right),
// indexes into the ordered picture list:
//
//	<resultDir>/compare_<left>_<right>.json
func ResultPath(resultDir string, left, right int) string {
	return filepath.Join(resultDir, fmt.Sprintf("compare_%d_%d.json", left, right))
}
