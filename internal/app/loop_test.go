package app

import "testing"

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		input string
		cmd   string
		arg   string
	}{
		{"capture", "capture", ""},
		{"  SUBMIT  ", "submit", ""},
		{"url https://example.com", "url", "https://example.com"},
		{"file /tmp/my photo.png", "file", "/tmp/my photo.png"},
		{"delete  abc-123 ", "delete", "abc-123"},
		{"", "", ""},
		{"   \n", "", ""},
	}

	for _, tt := range tests {
		cmd, arg := splitCommand(tt.input)
		if cmd != tt.cmd || arg != tt.arg {
			t.Errorf("splitCommand(%q) = (%q, %q), expected (%q, %q)", tt.input, cmd, arg, tt.cmd, tt.arg)
		}
	}
}
