package xgo

import "time"

// ShortDuration 按量级取整后输出，如 1h5m0s、2m3s、1.25s、830ms
func ShortDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0"
	case d >= time.Hour:
		return d.Round(time.Minute).String()
	case d >= time.Minute:
		return d.Round(time.Second).String()
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(time.Millisecond).String()
	default:
		return d.String()
	}
}
