package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateUTF8KeepsRuneBoundary(t *testing.T) {
	// "é" is two bytes, so byte 5 falls inside the third rune.
	got := truncateUTF8("ééééé", 5)
	if got != "éé" {
		t.Fatalf("truncateUTF8 = %q, want %q", got, "éé")
	}

	long := strings.Repeat("a", maxEmbedBytes-1) + "日本"
	got = truncateUTF8(long, maxEmbedBytes)
	if !utf8.ValidString(got) {
		t.Fatal("truncated text is not valid UTF-8")
	}
	if len(got) != maxEmbedBytes-1 {
		t.Fatalf("len = %d, want %d", len(got), maxEmbedBytes-1)
	}

	if got := truncateUTF8("short", maxEmbedBytes); got != "short" {
		t.Fatalf("short text changed: %q", got)
	}
}
