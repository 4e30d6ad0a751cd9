package provid

import (
	"fmt"
	"strings"
)

// NormalizeDeviceInfo fixes capitalization for legacy descriptors such as
// "ios 26.0" and "android 14" written by early clients.
func NormalizeDeviceInfo(deviceInfo string) string {
	switch {
	case strings.HasPrefix(deviceInfo, "ios "):
		return "iOS " + strings.TrimPrefix(deviceInfo, "ios ")
	case strings.HasPrefix(deviceInfo, "android "):
		return "Android " + strings.TrimPrefix(deviceInfo, "android ")
	}
	return deviceInfo
}

// FormatElapsed renders an elapsed-seconds counter as MM:SS for recording
// indicators.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
