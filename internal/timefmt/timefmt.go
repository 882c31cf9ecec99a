// Package timefmt renders transcript offsets as human-readable timestamps.
package timefmt

import "fmt"

// Options controls timestamp rendering.
type Options struct {
	// PadHours zero-pads the hour component to two digits.
	PadHours bool
	// ForceHours includes the hour component even under one hour.
	ForceHours bool
}

// FormatTimestamp renders a second offset as "HH:MM:SS" or "MM:SS". Key
// moments force the hour component ("00:00:12"); YouTube chapter markers
// omit it under one hour ("00:12").
func FormatTimestamp(seconds float64, opts Options) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 || opts.ForceHours {
		if opts.PadHours {
			return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
		}
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatDuration renders a second count as "H:MM:SS" above an hour and
// "M:SS" below, the shape used in CLI listings.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
