package logging_test

import (
	"reflect"
	"testing"

	"github.com/bbqsrc/cargo-pbuild/internal/cli/logging"
)

func TestSanitizeText(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "parse schema specs/main.toml", want: "parse schema specs/main.toml"},
		{
			name:  "inline token",
			input: "read document https://example.com?token=abc123 failed",
			want:  "read document https://example.com?token=*** failed",
		},
		{
			name:  "password assignment",
			input: "PASSWORD=hunter2 rejected",
			want:  "PASSWORD=*** rejected",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := logging.SanitizeText(tc.input); got != tc.want {
				t.Fatalf("SanitizeText(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeMetadata(t *testing.T) {
	got := logging.SanitizeMetadata(map[string]string{
		"PBUILD_CONFIG": "/home/user/pbuild",
		"api_token":     "abc123",
		"profile":       "dev",
		"detail":        "secret=s3cr3t trailing",
	})

	want := map[string]string{
		"PBUILD_CONFIG": "/home/user/pbuild",
		"api_token":     "***",
		"profile":       "dev",
		"detail":        "secret=*** trailing",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected metadata %v, want %v", got, want)
	}
}

func TestSanitizeMetadataEmpty(t *testing.T) {
	if got := logging.SanitizeMetadata(nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
