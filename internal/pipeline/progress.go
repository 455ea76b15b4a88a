package pipeline

import (
	"fmt"
	"io"
	"strings"
)

const progressWidth = 80

// progress draws an inline, \r-overwritten status line. A nil writer
// disables it (non-TTY output relies on the log lines instead).
type progress struct {
	w io.Writer
}

func (p progress) update(verb string, current, total int, name string) {
	if p.w == nil {
		return
	}
	pct := current * 100 / total
	status := fmt.Sprintf("  %s [%d/%d] %d%% ", verb, current, total, pct)

	maxName := 40
	if len(name) > maxName {
		name = name[:maxName-1] + "…"
	}
	status += name

	if len(status) < progressWidth {
		status += strings.Repeat(" ", progressWidth-len(status))
	}
	fmt.Fprintf(p.w, "\r%s", status)
}

func (p progress) clear() {
	if p.w == nil {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", progressWidth))
}
