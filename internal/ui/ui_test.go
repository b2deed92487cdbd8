package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/zq535228/UptimeGuard/internal/state"
)

func TestPadOrTrim(t *testing.T) {
	cases := []struct {
		value string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 3, "abc"},
		{"abc", 3, "abc"},
		{"", 2, "  "},
		{"abc", 0, ""},
		{"héllo", 4, "héll"},
	}
	for _, tc := range cases {
		if got := padOrTrim(tc.value, tc.width); got != tc.want {
			t.Fatalf("padOrTrim(%q, %d) = %q, want %q", tc.value, tc.width, got, tc.want)
		}
	}
}

func TestFormatLatency(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "-"},
		{-5, "-"},
		{1, "1ms"},
		{999, "999ms"},
		{1000, "1.0s"},
		{2500, "2.5s"},
	}
	for _, tc := range cases {
		if got := formatLatency(tc.ms); got != tc.want {
			t.Fatalf("formatLatency(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestFormatHTTPCode(t *testing.T) {
	if got := formatHTTPCode(0); got != "-" {
		t.Fatalf("expected '-' for no status, got %q", got)
	}
	if got := formatHTTPCode(200); got != "200" {
		t.Fatalf("expected '200', got %q", got)
	}
}

func TestStatusStyle(t *testing.T) {
	if statusStyle(state.StatusUp) != tcell.StyleDefault.Foreground(tcell.ColorGreen) {
		t.Fatalf("up must render green")
	}
	if statusStyle(state.StatusDown) != tcell.StyleDefault.Foreground(tcell.ColorRed) {
		t.Fatalf("down must render red")
	}
	if statusStyle(state.StatusUnknown) != tcell.StyleDefault.Foreground(tcell.ColorGray) {
		t.Fatalf("unknown must render gray")
	}
}

func TestFlattenStyledTextTruncates(t *testing.T) {
	parts := []styledText{
		{text: "abcd", style: tcell.StyleDefault},
		{text: "efgh", style: tcell.StyleDefault.Bold(true)},
	}
	flat := flattenStyledText(parts, 6)

	total := 0
	for _, part := range flat {
		total += len(part.r)
	}
	if total != 6 {
		t.Fatalf("expected 6 runes after truncation, got %d", total)
	}
	if string(flat[1].r) != "ef" {
		t.Fatalf("expected second part truncated to 'ef', got %q", string(flat[1].r))
	}
}
