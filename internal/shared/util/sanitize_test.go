package util

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "banner.png", want: "banner.png"},
		{name: "separators", in: "a/b\\c.png", want: "a_b_c.png"},
		{name: "trims", in: "  logo.jpg ", want: "logo.jpg"},
		{name: "traversal", in: "../secret.png", wantErr: true},
		{name: "empty", in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFileName) {
					t.Fatalf("expected ErrInvalidFileName, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameCapsLength(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("a", 500) + ".png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != maxFileNameLength {
		t.Fatalf("expected length %d, got %d", maxFileNameLength, len(got))
	}
	if !strings.HasSuffix(got, ".png") {
		t.Fatalf("expected extension kept, got %q", got)
	}
}
