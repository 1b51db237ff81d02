// Package commas formats integers with thousands separators for log output.
package commas

import "strconv"

func Int(v int) string {
	return String(strconv.Itoa(v))
}

func String(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	for pos := len(s) - 3; pos > 0; pos -= 3 {
		s = s[:pos] + "," + s[pos:]
	}

	if neg {
		return "-" + s
	}
	return s
}
