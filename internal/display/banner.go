package display

import (
	"fmt"
	"io"

	"github.com/backmassage/picvmaf/internal/term"
)

const banner = `       _
 _ __ (_) _____   ___ __ ___   __ _ / _|
| '_ \| |/ __\ \ / / '_ ` + "`" + ` _ \ / _` + "`" + ` | |_
| |_) | | (__ \ V /| | | | | | (_| |  _|
| .__/|_|\___| \_/ |_| |_| |_|\__,_|_|
|_|
`

// PrintBanner writes the ASCII art banner to w, in the banner color when
// colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Colors.Banner+banner+term.Colors.Reset)
	fmt.Fprintln(w)
}
