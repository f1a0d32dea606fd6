package analysis

import "strings"

// IsSupportedImage reports whether contentType is one of the accepted
// radiograph formats (JPEG or PNG). Parameters such as charset are ignored.
func IsSupportedImage(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "image/jpeg", "image/png":
		return true
	default:
		return false
	}
}
