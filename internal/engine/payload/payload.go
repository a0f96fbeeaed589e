// Package payload turns user input into the canonical string encoded into a
// QR code and enforces the payload-length policy.
package payload

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ContentType identifies what kind of content a QR code carries.
type ContentType string

const (
	TypeText  ContentType = "text"
	TypeURL   ContentType = "url"
	TypePhone ContentType = "phone"
	TypeEmail ContentType = "email"
	TypeImage ContentType = "image"
	TypeVideo ContentType = "video"
)

const (
	// MaxLength is the capacity ceiling for text-based QR payloads, counted
	// in characters (runes), not bytes.
	MaxLength = 2500

	// MaxFileBytes caps uploaded media at 2MB. Checked client-side before
	// any upload attempt and again server-side.
	MaxFileBytes = 2 * 1024 * 1024
)

var (
	ErrNoFileSelected = errors.New("no file selected")
	ErrFileTooLarge   = fmt.Errorf("file exceeds %d bytes", MaxFileBytes)
	ErrUnknownType    = errors.New("unknown content type")
)

// PayloadTooLargeError reports a formatted payload over MaxLength. Length is
// the character count, measured after type-specific prefixing.
type PayloadTooLargeError struct {
	Length int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload too large: %d characters (max %d)", e.Length, MaxLength)
}

// Valid reports whether t is one of the supported content types.
func (t ContentType) Valid() bool {
	switch t {
	case TypeText, TypeURL, TypePhone, TypeEmail, TypeImage, TypeVideo:
		return true
	}
	return false
}

// Media reports whether t requires an uploaded file.
func (t ContentType) Media() bool {
	return t == TypeImage || t == TypeVideo
}

// Format produces the canonical payload for a non-media type. For media
// types the payload is the uploaded URL; see FormatMedia.
func Format(t ContentType, raw string) (string, error) {
	if !t.Valid() {
		return "", ErrUnknownType
	}
	if t.Media() {
		return "", fmt.Errorf("media type %q requires an uploaded URL", t)
	}

	formatted := raw
	switch t {
	case TypePhone:
		formatted = "tel:" + raw
	case TypeEmail:
		formatted = "mailto:" + raw
	}

	if n := utf8.RuneCountInString(formatted); n > MaxLength {
		return "", &PayloadTooLargeError{Length: n}
	}
	return formatted, nil
}

// TooLong reports whether an already-formatted payload breaks the length
// policy; the render path re-checks because restores bypass Format.
func TooLong(formatted string) (int, bool) {
	n := utf8.RuneCountInString(formatted)
	return n, n > MaxLength
}

// FormatMedia returns the payload for an uploaded media file: the public URL
// itself, unprefixed.
func FormatMedia(t ContentType, uploadedURL string) (string, error) {
	if !t.Media() {
		return "", fmt.Errorf("type %q is not a media type", t)
	}
	return uploadedURL, nil
}

// CheckFile runs the client-side pre-upload validation. It fails fast so no
// network call is made for an unselectable or oversized file.
func CheckFile(name string, size int64) error {
	if name == "" {
		return ErrNoFileSelected
	}
	if size > MaxFileBytes {
		return ErrFileTooLarge
	}
	return nil
}
