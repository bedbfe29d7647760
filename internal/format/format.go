package format

import (
	"fmt"
	"time"
)

// NotAvailable marks a metric whose query completed without a usable value.
const NotAvailable = "N/A"

// Fixed2 formats v as a fixed-point decimal with two fractional digits.
func Fixed2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// BPM formats a heart rate with a bpm suffix.
func BPM(v float64) string {
	return fmt.Sprintf("%.2f bpm", v)
}

// FormatDuration renders whole hours and minutes, e.g. "1h 30m". Seconds are
// truncated. Negative durations are not expected and render as "0h 0m".
func FormatDuration(d time.Duration) string {
	seconds := int64(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, seconds%3600/60)
}

// FormatSeconds is FormatDuration for a raw second count.
func FormatSeconds(seconds float64) string {
	return FormatDuration(time.Duration(seconds * float64(time.Second)))
}
