package model

// TruncateString cuts s to at most maxLength bytes
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength]
}
