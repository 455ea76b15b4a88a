// Package ffmpeg converts pictures into fixed-geometry raw frames with an
// external ffmpeg binary.
//
// Types:
//   - Converter (geometry, pixel layout, executable, injected process.Runner)
//
// Functions:
//   - (*Converter).Args(src, dst) → []string
//     Preamble (-hide_banner -nostdin -loglevel -y) plus the fixed
//     "-i src -s WxH -pix_fmt fmt dst" core.
//   - (*Converter).Convert(ctx, src, dst) → error
//     Runs ffmpeg; a non-zero exit becomes a *process.ToolError with a
//     stderr diagnosis hint (see errors.go).
package ffmpeg
