package helpers

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Image payloads arrive as data URIs ("data:image/png;base64,...."), the
// same wire shape the frontend has always sent.

var imageExtByMIME = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var ErrBadImagePayload = errors.New("image payload is not a base64 data URI")

// DecodeImageDataURI splits and decodes a base64 data URI. Returns the raw
// bytes, the content type, and a file extension for the stored object.
func DecodeImageDataURI(payload string) ([]byte, string, string, error) {
	if !strings.HasPrefix(payload, "data:") {
		return nil, "", "", ErrBadImagePayload
	}
	rest := payload[len("data:"):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return nil, "", "", ErrBadImagePayload
	}
	contentType := rest[:sep]
	ext, ok := imageExtByMIME[contentType]
	if !ok {
		return nil, "", "", ErrBadImagePayload
	}
	raw, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return nil, "", "", ErrBadImagePayload
	}
	if len(raw) == 0 {
		return nil, "", "", ErrBadImagePayload
	}
	return raw, contentType, ext, nil
}
