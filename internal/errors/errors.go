package errors

import (
	"errors"
	"fmt"
)

var (
	ErrorUnexpectedType     = errors.New("unexpected type")        // Static error for unexpected type.
	ErrorUnknownArchiveType = errors.New("unknown archive type")   // Static error for an unrecognised document discriminator.
	ErrorMissingField       = errors.New("missing required field") // Static error for documents without a required field.
)

// WrapUnexpectedType wraps the error for unexpected type.
func WrapUnexpectedType(expected string, actual interface{}) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrorUnexpectedType, expected, actual)
}

// WrapUnknownArchiveType wraps the error for an unrecognised archive type tag.
func WrapUnknownArchiveType(tag string) error {
	return fmt.Errorf("%w: %q", ErrorUnknownArchiveType, tag)
}

// WrapMissingField wraps the error for a document missing a required field.
func WrapMissingField(archiveType string, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrorMissingField, archiveType, field)
}
