package enums

import "fmt"

// NoticeLevel is the severity of a toast notification.
type NoticeLevel string

const (
	NoticeLevelSuccess NoticeLevel = "success"
	NoticeLevelInfo    NoticeLevel = "info"
	NoticeLevelWarning NoticeLevel = "warning"
	NoticeLevelError   NoticeLevel = "error"
)

var validNoticeLevels = []NoticeLevel{
	NoticeLevelSuccess,
	NoticeLevelInfo,
	NoticeLevelWarning,
	NoticeLevelError,
}

// String returns the literal string.
func (v NoticeLevel) String() string {
	return string(v)
}

// IsValid reports whether the value is known.
func (v NoticeLevel) IsValid() bool {
	for _, candidate := range validNoticeLevels {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseNoticeLevel converts raw input into a NoticeLevel.
func ParseNoticeLevel(value string) (NoticeLevel, error) {
	for _, candidate := range validNoticeLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notice level %q", value)
}
