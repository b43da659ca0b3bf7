// Package envcfg centralizes the handful of environment variables cgpu
// reads.
package envcfg

import (
	"os"
	"strconv"
)

// DeviceIndexOverride reads GTL_DEVICE_INDEX_OVERRIDE. ok is false if the
// variable is unset or not a valid non-negative integer; callers clamp the
// returned index into [0, count-1] themselves, since the valid range
// depends on how many adapters were enumerated.
func DeviceIndexOverride() (index int, ok bool) {
	v, present := os.LookupEnv("GTL_DEVICE_INDEX_OVERRIDE")
	if !present {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// DumpMSL reports whether GTL_DUMP_MSL is set to any non-empty value. The
// Metal backend logs cross-compiled MSL source when this is true.
func DumpMSL() bool {
	v, present := os.LookupEnv("GTL_DUMP_MSL")
	return present && v != ""
}
