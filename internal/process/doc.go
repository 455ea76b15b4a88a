// Package process runs the external tools (converter and scorer) behind a
// small [Runner] interface so the pipeline can be exercised with fakes.
//
// A run reports its exit code in [Result]; only failures to start (missing
// binary, cancelled context, timeout) come back as an error. [Check] folds
// both cases into a [ToolError], which matches [ErrExternalTool].
package process
