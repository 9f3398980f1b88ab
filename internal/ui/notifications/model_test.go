package notifications

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateShortStringUntouched(t *testing.T) {
	if got := truncate("hello", 40); got != "hello" {
		t.Fatalf("truncate = %q, want %q", got, "hello")
	}
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	// 50 two-byte runes: byte-index slicing at 40 would split one.
	long := strings.Repeat("é", 50)

	got := truncate(long, 40)

	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	want := strings.Repeat("é", 40) + "…"
	if got != want {
		t.Fatalf("truncate = %q, want %q", got, want)
	}
}

func TestTruncateExactLength(t *testing.T) {
	s := strings.Repeat("x", 40)
	if got := truncate(s, 40); got != s {
		t.Fatalf("truncate altered a string at the limit: %q", got)
	}
}
