// Package options provides shared checks for input and option combinations.
package options

import (
	"fmt"
	"strings"
)

// ExactlyOne returns an error unless exactly one of set is true. names are
// the sources in the same order, used in the error message.
func ExactlyOne(names []string, set ...bool) error {
	count := 0
	for _, hasSource := range set {
		if hasSource {
			count++
		}
	}
	if count == 1 {
		return nil
	}
	return fmt.Errorf("exactly one of %s must be provided (got %d)", listNames(names), count)
}

// listNames joins names as "a, b, or c".
func listNames(names []string) string {
	switch len(names) {
	case 0:
		return "the inputs"
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
