package core

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// DefaultMaxImageSize bounds photo uploads when no limit is configured.
const DefaultMaxImageSize = 5 << 20

// allowedImageTypes maps accepted extensions to the content types that
// http.DetectContentType may report for them.
var allowedImageTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
}

// ValidateImageFile checks a photo's extension, sniffed content type, and size.
// A maxSize of zero uses DefaultMaxImageSize.
func ValidateImageFile(fileName string, data []byte, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	types, ok := allowedImageTypes[ext]
	if !ok {
		return fmt.Errorf("%w: %q is not a jpg, jpeg, png, gif, or webp file", ErrInvalidImage, fileName)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidImage)
	}
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrInvalidImage, len(data), maxSize)
	}

	sniffed := http.DetectContentType(data)
	for _, t := range types {
		if sniffed == t {
			return nil
		}
	}
	return fmt.Errorf("%w: content is %s, not %s", ErrInvalidImage, sniffed, types[0])
}
