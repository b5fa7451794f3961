package deletion

import (
	"strings"
)

// Category is a coarse classification of a delete failure.
type Category string

const (
	CategoryNetwork    Category = "network"
	CategoryPermission Category = "permission"
	CategoryNotFound   Category = "not_found"
	CategoryTimeout    Category = "timeout"
	CategoryConflict   Category = "conflict"
	CategoryDefault    Category = "default"
)

// Classify maps an error to a Category by inspecting its message text.
// Matching is case-insensitive and first-match-wins in a fixed priority
// order; every error (including nil) classifies to something.
func Classify(err error) Category {
	msg := ""
	if err != nil {
		msg = strings.ToLower(err.Error())
	}

	switch {
	case strings.Contains(msg, "network") ||
		strings.Contains(msg, "fetch") ||
		strings.Contains(msg, "connection"):
		return CategoryNetwork
	case strings.Contains(msg, "permission") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "forbidden"):
		return CategoryPermission
	case strings.Contains(msg, "not found") || strings.Contains(msg, "404"):
		return CategoryNotFound
	case strings.Contains(msg, "timeout"):
		return CategoryTimeout
	case strings.Contains(msg, "conflict") || strings.Contains(msg, "409"):
		return CategoryConflict
	default:
		return CategoryDefault
	}
}
