package timefmt_test

import (
	"testing"

	"podforge/internal/timefmt"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		opts    timefmt.Options
		want    string
	}{
		// A chapter starting at provider offset 12000ms.
		{12, timefmt.Options{PadHours: true, ForceHours: true}, "00:00:12"},
		{12, timefmt.Options{}, "00:12"},
		{754, timefmt.Options{}, "12:34"},
		{754, timefmt.Options{PadHours: true, ForceHours: true}, "00:12:34"},
		{3675, timefmt.Options{}, "1:01:15"},
		{3675, timefmt.Options{PadHours: true}, "01:01:15"},
		{-3, timefmt.Options{}, "00:00"},
	}
	for _, tc := range cases {
		if got := timefmt.FormatTimestamp(tc.seconds, tc.opts); got != tc.want {
			t.Fatalf("FormatTimestamp(%v, %+v) = %q, want %q", tc.seconds, tc.opts, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := timefmt.FormatDuration(65); got != "1:05" {
		t.Fatalf("FormatDuration(65) = %q", got)
	}
	if got := timefmt.FormatDuration(3600); got != "1:00:00" {
		t.Fatalf("FormatDuration(3600) = %q", got)
	}
}
