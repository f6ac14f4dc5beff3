// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a normalized float sample to 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// ClampInt16 saturates an int to the 16-bit PCM range.
func ClampInt16(x int) int16 {
	if x > 32767 {
		return 32767
	}
	if x < -32768 {
		return -32768
	}
	return int16(x)
}

// ClampInt32ToInt16 saturates a 32-bit intermediate to the 16-bit PCM range.
func ClampInt32ToInt16(x int32) int16 {
	if x > 32767 {
		return 32767
	}
	if x < -32768 {
		return -32768
	}
	return int16(x)
}
