package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidInput marks console input that could not be parsed.
var ErrInvalidInput = errors.New("invalid input")

// ParseIDList splits a comma separated list of ids.
func ParseIDList(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty id list", ErrInvalidInput)
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			return nil, fmt.Errorf("%w: empty entry in %q", ErrInvalidInput, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseIntList splits a comma separated list of integers.
func ParseIntList(s string) ([]int, error) {
	ids, err := ParseIDList(s)
	if err != nil {
		return nil, err
	}
	nums := make([]int, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a whole number", ErrInvalidInput, id)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// ParseIndex parses a zero-based position.
func ParseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a zero-based index", ErrInvalidInput, s)
	}
	return n, nil
}

// ParseMillis parses a duration in milliseconds. Negative values are
// allowed for relative seeks.
func ParseMillis(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number of milliseconds", ErrInvalidInput, s)
	}
	return n, nil
}
