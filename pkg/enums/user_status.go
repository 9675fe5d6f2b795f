package enums

import "fmt"

// UserStatus is the account state of an admin user.
type UserStatus string

const (
	UserStatusActive      UserStatus = "Active"
	UserStatusUnconfirmed UserStatus = "Unconfirmed"
	UserStatusBlocked     UserStatus = "Blocked"
)

var validUserStatuses = []UserStatus{
	UserStatusActive,
	UserStatusUnconfirmed,
	UserStatusBlocked,
}

// String returns the literal string.
func (v UserStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is known.
func (v UserStatus) IsValid() bool {
	for _, candidate := range validUserStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseUserStatus converts raw input into a UserStatus.
func ParseUserStatus(value string) (UserStatus, error) {
	for _, candidate := range validUserStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user status %q", value)
}
