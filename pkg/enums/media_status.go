package enums

import "fmt"

// MediaStatus tracks the lifecycle of an uploaded personalization file.
type MediaStatus string

const (
	MediaStatusPending MediaStatus = "pending"
	MediaStatusStored  MediaStatus = "stored"
	MediaStatusFailed  MediaStatus = "failed"
)

var validMediaStatuses = []MediaStatus{
	MediaStatusPending,
	MediaStatusStored,
	MediaStatusFailed,
}

// String implements fmt.Stringer.
func (m MediaStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MediaStatus.
func (m MediaStatus) IsValid() bool {
	for _, candidate := range validMediaStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaStatus converts raw input into a MediaStatus.
func ParseMediaStatus(value string) (MediaStatus, error) {
	for _, candidate := range validMediaStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media status %q", value)
}
