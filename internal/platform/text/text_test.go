package text

import "testing"

func TestSanitize(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"plain":               "plain",
		"\x1b[2Jcleared":      "[2Jcleared",
		"bell\a and null\x00": "bell and null",
		"keep\nlines\tand":    "keep\nlines\tand",
		"\u009bcsi":           "csi",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSingleLineAndCapitalize(t *testing.T) {
	t.Parallel()
	if got := SingleLine("a\n  b\tc"); got != "a b c" {
		t.Fatalf("SingleLine = %q", got)
	}
	if got := Capitalize("élevé"); got != "Élevé" {
		t.Fatalf("Capitalize multibyte = %q", got)
	}
	if got := Capitalize("admin"); got != "Admin" {
		t.Fatalf("Capitalize = %q", got)
	}
	if got := Capitalize(""); got != "" {
		t.Fatalf("Capitalize empty = %q", got)
	}
}
