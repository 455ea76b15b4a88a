package pipeline

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/backmassage/picvmaf/internal/naming"
)

var (
	// ErrInvalidInput is returned when a matching picture has no numeric
	// index in its name.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotEnoughInputs is returned when fewer than two pictures match.
	// It ends the run cleanly.
	ErrNotEnoughInputs = errors.New("not enough images to compare")
)

// ImageEntry is one listed picture and its ordering key.
type ImageEntry struct {
	Name string
	Key  uint64
}

// Discover lists dir (non-recursively) and selects the pictures ending in
// "."+ext. See SelectImages for ordering and errors.
func Discover(dir, ext string) ([]ImageEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(dirEntries))
	for _, d := range dirEntries {
		if d.IsDir() {
			continue
		}
		names = append(names, d.Name())
	}
	return SelectImages(names, ext)
}

// SelectImages keeps the names ending in "."+ext (case-sensitive) and orders
// them by the last number embedded in each name. Equal keys keep their input
// order. With fewer than two matches the entries are returned together with
// ErrNotEnoughInputs.
func SelectImages(names []string, ext string) ([]ImageEntry, error) {
	suffix := "." + ext
	var entries []ImageEntry
	for _, name := range names {
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		key, err := naming.ParseIndex(name, ext)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
		}
		entries = append(entries, ImageEntry{Name: name, Key: key})
	}

	slices.SortStableFunc(entries, func(a, b ImageEntry) int {
		return cmp.Compare(a.Key, b.Key)
	})

	if len(entries) < 2 {
		return entries, ErrNotEnoughInputs
	}
	return entries, nil
}

func entryNames(entries []ImageEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
