package errors

import (
	"strings"
	"unicode"
)

// maxItemIDLength bounds item and album identifiers.
const maxItemIDLength = 128

// ValidateItemID validates an item or album identifier taken from a manifest
// or an API request. Ids end up in cache keys, SVG element ids and Mongo
// documents, so control characters and whitespace are rejected.
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItemID, "id cannot be empty")
	}
	if len(id) > maxItemIDLength {
		return New(ErrCodeInvalidItemID, "id too long (max %d characters)", maxItemIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidItemID, "id %q contains whitespace or control characters", id)
		}
	}
	if strings.ContainsAny(id, `"'<>&`) {
		return New(ErrCodeInvalidItemID, "id %q contains markup characters", id)
	}
	return nil
}

// ValidateMediaPath validates a media file path referenced by a manifest.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateMediaPath(path string) error {
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateManifestFilename checks that a manifest file name has a supported
// extension (.toml or .json).
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".toml") && !strings.HasSuffix(lower, ".json") {
		return New(ErrCodeInvalidManifest, "unsupported manifest %q (must be .toml or .json)", filename)
	}
	return nil
}
