package utils

import "net/http"

// MaxDesignBytes is the largest design image accepted for upload.
const MaxDesignBytes = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// DetectImageType sniffs data and returns its mime type and whether it is
// an accepted design format. A client-declared type is never trusted.
func DetectImageType(data []byte) (string, bool) {
	sniffed := http.DetectContentType(data)
	return sniffed, allowedImageTypes[sniffed]
}
