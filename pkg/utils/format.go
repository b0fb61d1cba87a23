package utils

import (
	"fmt"
	"time"
)

// TimestampLayout is the display form of every catalog timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatSize formats bytes into a human readable string using binary units
// with one decimal place, e.g. 1536 -> "1.5 KB".
func FormatSize(bytes int64) string {
	size := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

// FormatFileSize is FormatSize under the name the metadata screens use.
func FormatFileSize(bytes int64) string {
	return FormatSize(bytes)
}

// FormatDuration renders d as hh:mm:ss.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatTimestamp normalizes a time.Time or an ISO-8601 string to
// TimestampLayout. Input it cannot interpret comes back in textual form.
func FormatTimestamp(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format(TimestampLayout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(TimestampLayout)
	case string:
		if parsed, ok := ParseTimestamp(t); ok {
			return parsed.Format(TimestampLayout)
		}
		return t
	}
	return fmt.Sprint(v)
}

// ParseTimestamp accepts the ISO-8601 shapes FormatTimestamp understands.
// Strings without a zone are read as local time.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
