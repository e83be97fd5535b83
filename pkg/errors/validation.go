package errors

import (
	"strings"
	"unicode"
)

// fieldSep separates the fields of every line in a .graph file.
const fieldSep = ";"

// ValidateName validates an output filename stem (a graph ID or a --name
// override). The stem is joined onto a caller-chosen directory, so it must
// not escape it.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 255 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "output name cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "output name too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "output name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "output name cannot be %q", name)
	}

	return nil
}

// ValidateSeparator validates a label separator. The separator joins several
// labels inside one field, so it must differ from the field separator, from
// every reserved string (such as the multi-identifier separator) and must not
// break the line structure.
func ValidateSeparator(sep string, reserved ...string) error {
	if sep == "" {
		return New(ErrCodeInvalidSeparator, "label separator cannot be empty")
	}

	if strings.ContainsAny(sep, "\r\n") {
		return New(ErrCodeInvalidSeparator, "label separator cannot contain line breaks")
	}

	if strings.Contains(sep, fieldSep) {
		return New(ErrCodeInvalidSeparator, "label separator cannot contain the field separator %q", fieldSep)
	}

	for _, r := range reserved {
		if r != "" && strings.Contains(sep, r) {
			return New(ErrCodeInvalidSeparator, "label separator cannot contain reserved %q", r)
		}
	}

	return nil
}
