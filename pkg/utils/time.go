package utils

import (
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates, e.g. 2025-03-01.
const DateLayout = "2006-01-02"

func NowUnixMillis() int64 {
	return time.Now().UnixMilli()
}

// ParseDate parses a YYYY-MM-DD date in UTC. Surrounding space is ignored.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// IsDate reports whether s parses as a YYYY-MM-DD date.
func IsDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}
