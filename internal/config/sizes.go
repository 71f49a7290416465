package config

import (
	"fmt"
	"strconv"
	"strings"
)

// sizeList is a flag.Value holding a comma-separated list of dimensions.
type sizeList struct {
	values []int
}

// String implements flag.Value.
func (s *sizeList) String() string {
	if s == nil {
		return ""
	}
	parts := make([]string, len(s.values))
	for i, v := range s.values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value. Empty items are ignored, so "128,,256," is
// accepted.
func (s *sizeList) Set(value string) error {
	sizes, err := ParseSizes(value)
	if err != nil {
		return err
	}
	s.values = sizes
	return nil
}

// ParseSizes parses a comma-separated list of integers.
func ParseSizes(value string) ([]int, error) {
	var sizes []int
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q", item)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
