package display

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/backmassage/picvmaf/internal/config"
	"github.com/backmassage/picvmaf/internal/term"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"one 1080p 4:2:2 frame", 1920 * 1080 * 2, "4.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{90, "90.0"},
		{95.5, "95.5"},
		{97.433662, "97.433662"},
		{0, "0.0"},
		{100, "100.0"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := FormatScore(tt.in); got != tt.want {
			t.Errorf("FormatScore(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{1400 * time.Millisecond, "1s"},
		{185 * time.Second, "3m05s"},
		{time.Hour + 2*time.Minute + 40*time.Second, "1h02m"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.in); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrintBanner(t *testing.T) {
	term.Configure(config.ColorNever, nil)
	var buf bytes.Buffer
	PrintBanner(&buf)
	if strings.Contains(buf.String(), "\033[") {
		t.Error("banner must be plain with colors off")
	}
	if !strings.Contains(buf.String(), "|_|") {
		t.Errorf("banner = %q", buf.String())
	}
}
