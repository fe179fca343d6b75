package utils

import (
	"testing"
)

func TestShortSHA(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0123456789abcdef", "0123456"},
		{"abc1234", "abc1234"},
		{"ab12", "ab12"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ShortSHA(tt.input)
			if got != tt.expected {
				t.Errorf("ShortSHA(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestImageTag(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"myregistry/web-app:v1.2.3", "v1.2.3"},
		{"web-app:latest", "latest"},
		{"web-app", "latest"},
		{"registry:5000/web-app", "latest"},
		{"registry:5000/web-app:v2", "v2"},
		{"", "latest"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ImageTag(tt.input)
			if got != tt.expected {
				t.Errorf("ImageTag(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}
