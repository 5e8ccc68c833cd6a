package utils

import (
	"strings"
)

const maxLoggedBody = 4 << 10

// SanitizeBody prepares a request or response body for the request log.
// Uploads and embedded binary payloads are replaced by a marker, and
// anything else is cut at maxLoggedBody bytes. The result never aliases b.
func SanitizeBody(contentType string, b []byte) string {
	if strings.Contains(contentType, "multipart/form-data") {
		return "[MULTIPART_FORM_DATA]"
	}
	if len(b) > 1000 {
		body := string(b)
		if strings.Contains(body, "data:image/") || isLikelyBase64(body) {
			return "[LARGE_BODY_WITH_POSSIBLE_FILE_CONTENT]"
		}
	}
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}

// isLikelyBase64 reports whether long content is mostly base64 alphabet.
func isLikelyBase64(content string) bool {
	if len(content) < 100 {
		return false
	}
	base64Chars := 0
	for _, char := range content {
		if (char >= 'A' && char <= 'Z') ||
			(char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '+' || char == '/' || char == '=' {
			base64Chars++
		}
	}
	return float64(base64Chars)/float64(len(content)) > 0.8
}
