package enums

import "fmt"

// JoinPolicy determines whether members enter a group directly or via review.
type JoinPolicy string

const (
	JoinPolicyOpen     JoinPolicy = "open"
	JoinPolicyApproval JoinPolicy = "approval"
)

var validJoinPolicies = []JoinPolicy{
	JoinPolicyOpen,
	JoinPolicyApproval,
}

// String implements fmt.Stringer.
func (j JoinPolicy) String() string {
	return string(j)
}

// IsValid reports whether the value is a known JoinPolicy.
func (j JoinPolicy) IsValid() bool {
	for _, candidate := range validJoinPolicies {
		if candidate == j {
			return true
		}
	}
	return false
}

// ParseJoinPolicy converts raw input into a JoinPolicy.
func ParseJoinPolicy(value string) (JoinPolicy, error) {
	for _, candidate := range validJoinPolicies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid join policy %q", value)
}
