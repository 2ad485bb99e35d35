package oto

// FloatBufferTo16BitLE appends the float32 buffer to dst as 16-bit
// little-endian samples, clamping to the valid range, and returns dst.
func FloatBufferTo16BitLE(src []float32, dst []byte) []byte {
	for _, v := range src {
		var uv int16
		switch {
		case v < -1.0:
			uv = -32768
		case v > 1.0:
			uv = 32767
		default:
			uv = int16(v * 32767)
		}
		dst = append(dst, byte(uv&255), byte(uv>>8))
	}
	return dst
}
