package analyzer

import "fmt"

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// BytesToHuman formats a byte count in the largest unit up to TB, with two
// decimals: 1536 is "1.50KB". Anything below one byte is "0 B".
func BytesToHuman(bytes float64) string {
	if !(bytes >= 1) {
		return "0 B"
	}

	value := bytes
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f%s", value, byteUnits[unit])
}
