package utils

import "fmt"

// Returns the average of all given numbers n (0 for none)
func Average(n ...int) int {
	if len(n) == 0 {
		return 0
	}

	var sum int
	for _, num := range n {
		sum += num
	}
	return sum / len(n)
}

// Returns part as a percentage of whole (0 when whole is empty)
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}

// Returns block with a 24-bit background color, for terminal output
func ColoredBlock(block string, red, green, blue byte) string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm%s\033[0m", red, green, blue, block)
}
