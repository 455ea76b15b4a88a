package pipeline

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/backmassage/picvmaf/internal/report"
)

// RunStats describes a finished (or aborted) run.
type RunStats struct {
	Images    int // Pictures that matched the extension.
	Converted int
	Compared  int
	Rows      []report.Row
	Summary   report.Summary
	WorkBytes int64 // Bytes left in the frame and result directories.
	Elapsed   time.Duration
	RunID     string // History run ID; empty without --history.
}

// dirSize sums the sizes of the regular files under each dir. Missing
// directories count as empty.
func dirSize(dirs ...string) int64 {
	var total int64
	for _, dir := range dirs {
		filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.Type().IsRegular() {
				if fi, err := d.Info(); err == nil {
					total += fi.Size()
				}
			}
			return nil
		})
	}
	return total
}
