package chromosome

import (
	"fmt"
	"strconv"
	"strings"
)

func ValidListOfHumanChromosomes() []string {
	var humChroms []string
	for i := 1; i < 23; i++ {
		humChroms = append(humChroms, fmt.Sprint(i))
	}
	humChroms = append(humChroms, "X", "Y", "M")
	return humChroms
}

// Normalize strips any 'chr' prefix and upper-cases sex/mitochondrial
// chromosomes so that "chrx", "X" and "x" all key the same way
func Normalize(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) >= 3 && strings.EqualFold(trimmed[:3], "chr") {
		trimmed = trimmed[3:]
	}

	upper := strings.ToUpper(trimmed)
	if upper == "MT" {
		return "M"
	}
	return upper
}

func IsValidHumanChromosome(text string) bool {
	normalized := Normalize(text)

	// Check if number can be represented as an int and is non-zero
	chromNumber, convErr := strconv.Atoi(normalized)
	if convErr == nil {
		// It can..
		// Check if it in range 1-22
		return chromNumber > 0 && chromNumber < 23
	}

	// No it can't..
	// Check if it is an X, Y or M
	switch normalized {
	case "X", "Y", "M":
		return true
	}

	return false
}
