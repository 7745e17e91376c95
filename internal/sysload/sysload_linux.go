//go:build linux

package sysload

import "golang.org/x/sys/unix"

// Average1 returns the one-minute system load average.
func Average1() (float64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	// Loads are fixed-point with 16 fractional bits.
	return float64(info.Loads[0]) / 65536.0, nil
}
