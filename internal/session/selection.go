package session

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidSelection is reported when a selection is empty or out of range
var ErrInvalidSelection = errors.New("invalid selection")

var selectionSeparators = regexp.MustCompile(`[,\s]+`)

// ParseSelection turns input like "1, 3 2" into a sorted, de-duplicated list of
// numbers. Tokens that are not integers are dropped; it never fails.
func ParseSelection(input string) []int {
	seen := make(map[int]bool)
	var numbers []int

	for _, token := range selectionSeparators.Split(strings.TrimSpace(input), -1) {
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}

	slices.Sort(numbers)
	return numbers
}

// ValidSelection requires at least one number and every number within [1, count]
func ValidSelection(selection []int, count int) bool {
	if len(selection) == 0 {
		return false
	}
	for _, n := range selection {
		if n < 1 || n > count {
			return false
		}
	}
	return true
}
