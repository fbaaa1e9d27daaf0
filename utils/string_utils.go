package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidDataURL is returned when an image data URL cannot be decoded.
var ErrInvalidDataURL = errors.New("invalid image data URL")

// ExtractJSON returns the outermost {...} object in raw, tolerating markdown
// fences and chatter around it. It returns "" when there is no object.
func ExtractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

// CollapseSpaces trims s and folds every run of whitespace into one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseDataURL splits "data:image/png;base64,...." into its mime type and
// decoded bytes.
func ParseDataURL(dataURL string) (string, []byte, error) {
	parts := strings.SplitN(strings.TrimSpace(dataURL), ";base64,", 2)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "data:") {
		return "", nil, ErrInvalidDataURL
	}

	mimeType := strings.ToLower(strings.TrimPrefix(parts[0], "data:"))
	if mimeTypeParts := strings.Split(mimeType, "/"); len(mimeTypeParts) != 2 || mimeTypeParts[1] == "" {
		return "", nil, ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, ErrInvalidDataURL
	}
	return mimeType, data, nil
}
