package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoIndex is returned when a filename carries no usable numeric index.
var ErrNoIndex = errors.New("no numeric index in filename")

var reDigits = regexp.MustCompile(`[0-9]+`)

// ParseIndex returns the value of the last contiguous run of ASCII digits in
// name. The ".<ext>" suffix is ignored when present, so extensions such as
// "jp2" never contribute the index; ext may be empty.
//
//	ParseIndex("shot-10.png", "png")  = 10
//	ParseIndex("v2_take007.png", "png") = 7
//	ParseIndex("cover.png", "png")    -> ErrNoIndex
func ParseIndex(name, ext string) (uint64, error) {
	stem := name
	if ext != "" {
		stem = strings.TrimSuffix(name, "."+ext)
	}

	runs := reDigits.FindAllString(stem, -1)
	if len(runs) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoIndex, name)
	}
	last := runs[len(runs)-1]

	n, err := strconv.ParseUint(last, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q index %s out of range", ErrNoIndex, name, last)
	}
	return n, nil
}
