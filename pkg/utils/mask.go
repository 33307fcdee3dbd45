package utils

import "strings"

// MaskEmail keeps the first character of the local part.
// Example: abcd@domain.com -> a***@domain.com
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	switch {
	case email == "":
		return ""
	case at < 0:
		return "***"
	case at <= 1:
		return "***" + email[at:]
	default:
		return email[:1] + "***" + email[at:]
	}
}
