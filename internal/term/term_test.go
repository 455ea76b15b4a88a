package term

import (
	"bytes"
	"os"
	"testing"

	"github.com/backmassage/picvmaf/internal/config"
)

func TestConfigure(t *testing.T) {
	defer Configure(config.ColorNever, nil)

	Configure(config.ColorAlways, nil)
	if !Enabled() || Colors.Error == "" {
		t.Fatal("ColorAlways should enable colors")
	}
	if got := Paint(Colors.Success, "ok"); got != Colors.Success+"ok"+Colors.Reset {
		t.Errorf("Paint = %q", got)
	}

	Configure(config.ColorNever, nil)
	if Enabled() || Colors.Error != "" || Colors.Banner != "" {
		t.Fatal("ColorNever should clear colors")
	}
	if got := Paint(Colors.Success, "ok"); got != "ok" {
		t.Errorf("Paint with colors off = %q, want plain", got)
	}
}

func TestConfigure_AutoNeedsTerminal(t *testing.T) {
	defer Configure(config.ColorNever, nil)

	Configure(config.ColorAuto, &bytes.Buffer{})
	if Enabled() {
		t.Error("a buffer is not a terminal; auto should stay off")
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("nil writer is not a terminal")
	}
	f, err := os.CreateTemp(t.TempDir(), "plain")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file is not a terminal")
	}
}
