package enums

import "fmt"

// SortDirection is the direction of an active sort rule.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

var validSortDirections = []SortDirection{
	SortDirectionAsc,
	SortDirectionDesc,
}

// String returns the literal string.
func (v SortDirection) String() string {
	return string(v)
}

// IsValid reports whether the value is known.
func (v SortDirection) IsValid() bool {
	for _, candidate := range validSortDirections {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseSortDirection converts raw input into a SortDirection.
func ParseSortDirection(value string) (SortDirection, error) {
	for _, candidate := range validSortDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort direction %q", value)
}

// Toggle cycles a rule: asc becomes desc, desc drops the rule (empty).
func (v SortDirection) Toggle() SortDirection {
	switch v {
	case SortDirectionAsc:
		return SortDirectionDesc
	case SortDirectionDesc:
		return ""
	default:
		return SortDirectionAsc
	}
}
