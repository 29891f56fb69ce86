package models

import (
	"fmt"
	"strings"
)

// Category selects which server-side record set is active.
type Category string

const (
	CategoryInternal Category = "internal"
	CategoryExternal Category = "external"
)

// ParseCategory accepts "internal" or "external" in any case.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryInternal, CategoryExternal:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func (c Category) String() string {
	return string(c)
}
