package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	orig := Version
	Version = v
	t.Cleanup(func() { Version = orig })
}

func withColor(t *testing.T, enabled bool) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = !enabled
	t.Cleanup(func() { color.NoColor = orig })
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestString(t *testing.T) {
	withVersion(t, "  1.2.3 ")
	if got := String(); got != "1.2.3" {
		t.Fatalf("String() = %q", got)
	}
	Version = ""
	if got := String(); got != "dev" {
		t.Fatalf("String() = %q, want dev", got)
	}
}

func TestColoredPlain(t *testing.T) {
	withColor(t, false)
	for _, v := range []string{"0.1.0-dev", "1.2.3", "1.2.3-rc.1+build.123", "nightly"} {
		withVersion(t, v)
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestColoredWithColor(t *testing.T) {
	withColor(t, true)
	withVersion(t, "1.2.3-dev")
	got := Colored()
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected escape sequences in %q", got)
	}
	if !strings.HasSuffix(got, "-dev") {
		t.Fatalf("suffix lost: %q", got)
	}
}
