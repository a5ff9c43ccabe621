package form

import (
	"math"
	"strconv"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes renders a byte count in the largest unit that keeps the value
// at or above 1, rounded to two decimals. Units stop at GB.
func FormatBytes(b int64) string {
	if b <= 0 {
		return "0 Bytes"
	}

	value := float64(b)
	i := 0
	for value >= 1024 && i < len(byteUnits)-1 {
		value /= 1024
		i++
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[i]
}
