package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "cv.pdf", want: "cv.pdf"},
		{in: " dir/cv.pdf ", want: "dir_cv.pdf"},
		{in: `a\b.pdf`, want: "a_b.pdf"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestSanitizeTextarea(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "  Suggest skills\r\nfor Go  ", want: "Suggest skills\nfor Go"},
		{in: "<b>Bold</b> move", want: "Bold move"},
		{in: "tab\tkept\x07", want: "tab\tkept"},
		{in: "100%20done", want: "100done"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := SanitizeTextarea(tt.in); got != tt.want {
			t.Fatalf("SanitizeTextarea(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
