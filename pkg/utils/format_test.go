package utils

import (
	"testing"
	"time"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{
			name:     "bytes",
			bytes:    500,
			expected: "500.0 B",
		},
		{
			name:     "kilobytes",
			bytes:    1536,
			expected: "1.5 KB",
		},
		{
			name:     "megabytes",
			bytes:    1500000,
			expected: "1.4 MB",
		},
		{
			name:     "gigabytes",
			bytes:    1500000000,
			expected: "1.4 GB",
		},
		{
			name:     "terabytes",
			bytes:    1500000000000,
			expected: "1.4 TB",
		},
		{
			name:     "zero bytes",
			bytes:    0,
			expected: "0.0 B",
		},
		{
			name:     "just under a kilobyte",
			bytes:    1023,
			expected: "1023.0 B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatFileSize(tt.bytes)
			if result != tt.expected {
				t.Errorf("FormatFileSize(%d) = %s; want %s", tt.bytes, result, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{"zero", 0, "00:00:00"},
		{"seconds", 42 * time.Second, "00:00:42"},
		{"rounding", 1500 * time.Millisecond, "00:00:02"},
		{"hours", 2*time.Hour + 3*time.Minute + 4*time.Second, "02:03:04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.expected {
				t.Errorf("FormatDuration(%v) = %s; want %s", tt.d, got, tt.expected)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 123000000, time.UTC)

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"time value", ts, "2024-03-05 14:07:09"},
		{"time pointer", &ts, "2024-03-05 14:07:09"},
		{"iso with T", "2024-03-05T14:07:09", "2024-03-05 14:07:09"},
		{"iso with space and fraction", "2024-03-05 14:07:09.5", "2024-03-05 14:07:09"},
		{"iso with offset", "2024-03-05T14:07:09+02:00", "2024-03-05 14:07:09"},
		{"date only", "2024-03-05", "2024-03-05 00:00:00"},
		{"driver format", "2024-03-05 14:07:09.123456789+00:00", "2024-03-05 14:07:09"},
		{"garbage", "not a date", "not a date"},
		{"placeholder", "YYYY-MM-DD", "YYYY-MM-DD"},
		{"number", 42, "42"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.input); got != tt.expected {
				t.Errorf("FormatTimestamp(%v) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}
