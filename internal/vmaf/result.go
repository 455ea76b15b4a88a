package vmaf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrMalformedResult is returned when a result file is missing, is not
// valid JSON, or lacks frames[0].metrics[<key>].
var ErrMalformedResult = errors.New("malformed vmaf result")

// --- vmaf JSON wire types ---

type resultDoc struct {
	Frames []resultFrame `json:"frames"`
}

type resultFrame struct {
	FrameNum int                        `json:"frameNum"`
	Metrics  map[string]json.RawMessage `json:"metrics"`
}

// ReadResult loads the result file at path and extracts the score stored
// under key. See [ParseResult].
func ReadResult(path, key string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	score, err := ParseResult(data, key)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return score, nil
}

// ParseResult extracts frames[0].metrics[key] from a vmaf JSON document.
// Inputs are single pictures, so the document must hold exactly one frame;
// anything else is reported rather than silently reading the first entry.
func ParseResult(data []byte, key string) (float64, error) {
	var doc resultDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	if len(doc.Frames) != 1 {
		return 0, fmt.Errorf("%w: want exactly 1 frame, got %d", ErrMalformedResult, len(doc.Frames))
	}

	metrics := doc.Frames[0].Metrics
	if metrics == nil {
		return 0, fmt.Errorf("%w: frame has no metrics", ErrMalformedResult)
	}
	raw, ok := metrics[key]
	if !ok {
		return 0, fmt.Errorf("%w: metric %q not found", ErrMalformedResult, key)
	}

	var score *float64
	if err := json.Unmarshal(raw, &score); err != nil || score == nil {
		return 0, fmt.Errorf("%w: metric %q is not a number: %s", ErrMalformedResult, key, raw)
	}
	return *score, nil
}
