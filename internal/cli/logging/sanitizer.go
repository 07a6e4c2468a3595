// Package logging sanitizes diagnostic output before it reaches stderr.
package logging

import (
	"regexp"
	"strings"
)

const redactionPlaceholder = "***"

// allowlistedEnvKeys are environment variables safe to report verbatim in
// discovery diagnostics.
var allowlistedEnvKeys = map[string]struct{}{
	"HOME":            {},
	"PWD":             {},
	"CARGO":           {},
	"PBUILD_CONFIG":   {},
	"XDG_CONFIG_HOME": {},
}

var sensitivePattern = regexp.MustCompile(`(?i)(password|passphrase|secret|token|apikey|privatekey)=([^\s]{1,128})`)

// SanitizeText redacts sensitive key/value pairs inside freeform strings,
// such as error messages quoting document contents.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}
	return sensitivePattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := strings.SplitN(match, "=", 2)
		if len(parts) != 2 {
			return match
		}
		return parts[0] + "=" + redactionPlaceholder
	})
}

// SanitizeMetadata returns a sanitized copy of log metadata. Allowlisted
// environment keys pass through; values under sensitive keys are replaced
// with a placeholder and every value is scrubbed for inline secrets.
func SanitizeMetadata(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(metadata))
	for key, value := range metadata {
		if _, ok := allowlistedEnvKeys[key]; ok {
			out[key] = value
			continue
		}
		if isSensitiveKey(key) {
			out[key] = redactionPlaceholder
			continue
		}
		out[key] = SanitizeText(value)
	}
	return out
}

func isSensitiveKey(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "password") ||
		strings.Contains(lower, "passphrase") ||
		strings.Contains(lower, "secret") ||
		strings.Contains(lower, "token") ||
		strings.Contains(lower, "apikey") ||
		strings.Contains(lower, "privatekey")
}
