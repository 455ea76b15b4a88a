package ffmpeg

import (
	"context"
	"errors"

	"github.com/backmassage/picvmaf/internal/process"
)

// Convert runs ffmpeg to write the raw frame dst from picture src,
// overwriting dst. A failed run returns a *process.ToolError (matching
// process.ErrExternalTool) whose Hint names the likely cause.
func (c *Converter) Convert(ctx context.Context, src, dst string) error {
	args := c.Args(src, dst)
	res, runErr := c.Runner.Run(ctx, c.Exe, args...)
	if err := process.Check(c.Exe, args, res, runErr); err != nil {
		var te *process.ToolError
		if errors.As(err, &te) {
			te.Hint = Diagnose(res.Stderr)
		}
		return err
	}
	return nil
}
