package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxSourceBytes bounds the size of a single layout description accepted by
// the CLI and the HTTP API.
const MaxSourceBytes = 64 << 10

// ValidateSource validates layout source text before it reaches the parser.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only sources
//   - Valid UTF-8 only
//   - No null bytes
//   - Maximum length of MaxSourceBytes
//
// Grammar conformance is checked by the parser, not here.
func ValidateSource(src string) error {
	if strings.TrimSpace(src) == "" {
		return New(ErrCodeInvalidInput, "layout source cannot be empty")
	}

	if len(src) > MaxSourceBytes {
		return New(ErrCodeInvalidInput, "layout source too long (max %d bytes)", MaxSourceBytes)
	}

	if !utf8.ValidString(src) {
		return New(ErrCodeInvalidInput, "layout source is not valid UTF-8")
	}

	if strings.ContainsRune(src, '\x00') {
		return New(ErrCodeInvalidInput, "layout source contains null bytes")
	}

	return nil
}

// ValidatePath validates a source file path given to the CLI.
// Relative and absolute paths are both allowed; "-" means stdin and is
// handled by the caller.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateRecordID validates a stored interpretation identifier.
func ValidateRecordID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "record id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid record id: %q", id)
	}
	return nil
}

// ValidateURL validates a backend connection URL for safety.
// Only the schemes listed in allowed are accepted.
func ValidateURL(rawURL string, allowed ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, scheme := range allowed {
		if strings.HasPrefix(rawURL, scheme+"://") {
			return nil
		}
	}

	return New(ErrCodeInvalidInput, "URL must use one of the schemes: %s", strings.Join(allowed, ", "))
}
