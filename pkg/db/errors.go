package db

import "strings"

// IsUniqueViolation reports whether the error is a unique constraint failure on
// postgres or sqlite. When constraintName is provided, the helper looks for the
// constraint text in the error message instead.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
