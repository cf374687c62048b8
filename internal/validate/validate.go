// Package validate checks incoming image submissions before anything is
// written anywhere. Checks run in a fixed order so clients always see the
// most fundamental problem first: required fields, then field types, then
// the actual image content.
package validate

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes is the inclusive ceiling on decoded image payloads.
const MaxImageBytes = 5 * 1024 * 1024

// Error messages are part of the public API contract and are returned to
// clients verbatim.
var (
	ErrMissingFields = errors.New("Image, UUID, location, description and tags are required.")
	ErrInvalidTypes  = errors.New("Invalid data types provided.")
	ErrInvalidFormat = errors.New("Invalid image file format")
	ErrTooLarge      = errors.New("Image file exceeds size limit")
)

// allowedFormats maps accepted media types to the extension used for the
// storage key. Extensions come from the detected type, never from the caller.
var allowedFormats = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", "jpeg"},
	{"image/png", "png"},
	{"image/gif", "gif"},
	{"image/webp", "webp"},
}

// Submission is one well-typed item of an upload batch.
type Submission struct {
	Image       string   `json:"image"`
	UUID        string   `json:"uuid"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

var requiredFields = []string{"image", "uuid", "location", "description", "tags"}

// ParseSubmission checks field presence, then field types, on a raw batch
// item. Presence failures win over type failures.
func ParseSubmission(raw json.RawMessage) (*Submission, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// Not an object at all: every required field is absent.
		return nil, ErrMissingFields
	}
	for _, name := range requiredFields {
		value, ok := fields[name]
		if !ok || isEmpty(value) {
			return nil, ErrMissingFields
		}
	}

	var sub Submission
	for _, name := range []string{"image", "uuid", "location", "description"} {
		var dst *string
		switch name {
		case "image":
			dst = &sub.Image
		case "uuid":
			dst = &sub.UUID
		case "location":
			dst = &sub.Location
		case "description":
			dst = &sub.Description
		}
		if err := json.Unmarshal(fields[name], dst); err != nil {
			return nil, ErrInvalidTypes
		}
	}
	if err := json.Unmarshal(fields["tags"], &sub.Tags); err != nil {
		return nil, ErrInvalidTypes
	}
	return &sub, nil
}

// PeekUUID extracts a best-effort uuid from a raw item for error reporting,
// even when the item fails parsing.
func PeekUUID(raw json.RawMessage) string {
	var fields struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	return fields.UUID
}

// DecodeImage decodes the base64 payload. Undecodable input is treated as a
// format problem, the same as unrecognizable bytes.
func DecodeImage(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, ErrInvalidFormat
	}
	return data, nil
}

// SniffContent detects the true media type of the payload by magic-number
// inspection and enforces the size ceiling. On success it returns the
// detected media type and the extension to key the stored object with.
func SniffContent(data []byte) (mime string, ext string, err error) {
	detected := mimetype.Detect(data)
	for _, f := range allowedFormats {
		if detected.Is(f.mime) {
			if len(data) > MaxImageBytes {
				return "", "", ErrTooLarge
			}
			return f.mime, f.ext, nil
		}
	}
	return "", "", ErrInvalidFormat
}

// isEmpty reports whether a raw JSON value counts as absent for the
// presence check: null, empty string, zero, or false.
func isEmpty(value json.RawMessage) bool {
	switch strings.TrimSpace(string(value)) {
	case "", "null", `""`, "0", "false":
		return true
	}
	return false
}
